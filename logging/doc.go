// Package logging provides a minimal logging interface and adapters for the
// mindloop core.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the dispatcher, pipeline and loop use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - CoreLogger with contextual helpers (component, room) and domain
//     helpers for completion calls, routing drops and thought ticks
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	d := dispatcher.New(rooms, proc, func(o *dispatcher.Options) { o.Logger = logger })
//
// Logging is injected at construction everywhere; there is no process-wide
// singleton outside the composition root.
package logging
