// Package mindloop provides a high-level façade over the event-orchestration
// core (dispatcher, session registry, pipeline & autonomous loop) enabling
// rapid construction of social AI agents. Most applications interact with
// this package by:
//  1. Creating a Mindloop via New() with a text-completion service
//     (optionally overriding the default in-memory collaborators)
//  2. Registering one or more platform clients
//  3. Optionally starting the autonomous loop (StartThinking)
//
// The façade delegates orchestration to dispatcher.Dispatcher while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a durable
// similarity index and a structured logger.
package mindloop

import (
	"context"
	"time"

	"github.com/mindloop-ai/mindloop/action"
	"github.com/mindloop-ai/mindloop/completion"
	"github.com/mindloop-ai/mindloop/consciousness"
	"github.com/mindloop-ai/mindloop/core"
	"github.com/mindloop-ai/mindloop/dispatcher"
	"github.com/mindloop-ai/mindloop/logging"
	"github.com/mindloop-ai/mindloop/pipeline"
	"github.com/mindloop-ai/mindloop/room"
	"github.com/mindloop-ai/mindloop/similarity"
)

// Options configures the Mindloop instance.
type Options struct {
	// SimilarityIndex backs related-memory retrieval. Defaults to the
	// in-memory token-overlap index; production deployments supply a vector
	// store here.
	SimilarityIndex core.SimilarityIndex

	// Actions extends the built-in action catalog. Entries with an existing
	// kind overwrite the builtin.
	Actions []core.ActionDescriptor

	// Persona is an optional system prompt establishing the agent's voice,
	// used by the autonomous loop.
	Persona string

	// MinActionConfidence is the acceptance floor for action suggestions.
	// Default 0.7.
	MinActionConfidence float64

	// RelatedMemoryLimit caps related-memory retrieval per event. Default 3.
	RelatedMemoryLimit int

	// ThoughtInterval is the autonomous loop's tick period. Default 5 minutes.
	ThoughtInterval time.Duration

	// ThoughtSampleSize caps the memories sampled per thought. Default 10.
	ThoughtSampleSize int

	// MinThoughtConfidence gates emission of synthesized thoughts. Default 0.7.
	MinThoughtConfidence float64

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mindloop is the high-level façade aggregating the dispatcher and its
// collaborators.
type Mindloop struct {
	opts       Options
	rooms      *room.Manager
	actions    *action.Registry
	dispatcher *dispatcher.Dispatcher
	loop       *consciousness.Loop
}

// New creates a Mindloop instance over the given completion service with
// optional overrides. Any unset collaborator is initialized with an in-memory
// implementation, and the built-in actions are pre-registered.
func New(svc completion.Service, optFns ...func(o *Options)) *Mindloop {
	opts := Options{
		SimilarityIndex:      similarity.NewInMemoryIndex(),
		MinActionConfidence:  0.7,
		RelatedMemoryLimit:   3,
		ThoughtInterval:      consciousness.DefaultInterval,
		ThoughtSampleSize:    10,
		MinThoughtConfidence: 0.7,
		Logger:               logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	rooms := room.NewManager(func(o *room.Options) {
		o.Index = opts.SimilarityIndex
		o.Logger = opts.Logger
	})

	actions := action.NewRegistry()
	for _, d := range action.Builtins() {
		actions.Register(d)
	}
	for _, d := range opts.Actions {
		actions.Register(d)
	}

	proc := pipeline.NewProcessor(svc, actions, func(o *pipeline.Options) {
		o.Rooms = rooms
		o.Logger = opts.Logger
		o.MinActionConfidence = opts.MinActionConfidence
		o.RelatedMemoryLimit = opts.RelatedMemoryLimit
	})

	d := dispatcher.New(rooms, proc, func(o *dispatcher.Options) {
		o.Logger = opts.Logger
	})

	loop := consciousness.NewLoop(svc, rooms, d, func(o *consciousness.Options) {
		o.Interval = opts.ThoughtInterval
		o.SampleSize = opts.ThoughtSampleSize
		o.MinConfidence = opts.MinThoughtConfidence
		o.Persona = opts.Persona
		o.Logger = opts.Logger
	})

	return &Mindloop{
		opts:       opts,
		rooms:      rooms,
		actions:    actions,
		dispatcher: d,
		loop:       loop,
	}
}

// Dispatcher returns the underlying event bus.
func (m *Mindloop) Dispatcher() *dispatcher.Dispatcher { return m.dispatcher }

// Rooms returns the session registry.
func (m *Mindloop) Rooms() *room.Manager { return m.rooms }

// Actions returns the action catalog for runtime extension.
func (m *Mindloop) Actions() *action.Registry { return m.actions }

// RegisterClient adds a platform client and starts its listen loop.
func (m *Mindloop) RegisterClient(ctx context.Context, c core.Client) {
	m.dispatcher.RegisterClient(ctx, c)
}

// RemoveClient stops and unregisters a platform client.
func (m *Mindloop) RemoveClient(id string) { m.dispatcher.RemoveClient(id) }

// Emit feeds one inbound event through the full processing path.
func (m *Mindloop) Emit(ctx context.Context, ev core.InboundEvent) error {
	return m.dispatcher.Emit(ctx, ev)
}

// On subscribes a handler to an inbound event kind.
func (m *Mindloop) On(kind core.Kind, h dispatcher.Handler) { m.dispatcher.On(kind, h) }

// Off removes a previously registered handler.
func (m *Mindloop) Off(kind core.Kind, h dispatcher.Handler) { m.dispatcher.Off(kind, h) }

// StartThinking starts the autonomous loop. Idempotent.
func (m *Mindloop) StartThinking(ctx context.Context) { m.loop.Start(ctx) }

// StopThinking stops the autonomous loop. Idempotent.
func (m *Mindloop) StopThinking() { m.loop.Stop() }

// Shutdown stops the autonomous loop and all registered clients.
func (m *Mindloop) Shutdown() {
	m.loop.Stop()
	m.dispatcher.Shutdown()
}
