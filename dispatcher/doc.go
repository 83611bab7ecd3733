// Package dispatcher implements the event bus at the center of mindloop.
//
// The Dispatcher is the single entry point for all events, whether discovered
// by a platform client's listen loop or synthesized by the autonomous loop.
// It owns client registration, resolves each inbound event to its session
// room, drives the enrichment pipeline, and fans results out to local
// subscribers and addressed clients.
//
// # Core Responsibilities
//
// Client Management:
//   - Thread-safe client registry with id-based lookup
//   - Listen-loop supervision: a failing loop is logged, never fatal
//   - Best-effort stop on removal and shutdown
//
// Event Routing:
//   - One serialized processing path per Emit call
//   - Room resolution via a total platform-inference function
//   - At-most-once outbound delivery: unknown targets are logged and dropped
//
// Subscription:
//   - Per-kind handler sets with duplicate suppression
//   - Concurrent handler fan-out, awaited before Emit returns
//
// # Processing Path
//
// Each Emit call walks the same sequence:
//
//	resolve room → append memory → run pipeline → execute intent actions
//	→ route outbound events → notify handlers
//
// Every stage is a failure boundary: a stage error is logged and converted
// into a degraded result for the stages after it, so no single event can
// crash the bus or block other events.
//
// # Concurrency Model
//
// Multiple Emit calls may be in flight concurrently (a client poll loop and
// the autonomous loop run on independent schedules). Shared room state is
// safe under that concurrency, and lookup-then-create for an unseen platform
// identity is serialized so it cannot yield duplicate rooms. Within one Emit,
// handlers for the event's kind run concurrently with each other; the call
// returns only after all of them finish, giving the caller back-pressure.
//
// No timeouts are imposed on collaborator calls: a hung collaborator hangs
// that Emit, deliberately. Stopping a client only prevents future polls; an
// Emit already in progress runs to completion.
package dispatcher
