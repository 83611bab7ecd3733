// Package consciousness implements the autonomous loop: a timer-driven
// generator of self-initiated events. Each tick samples recent memories
// across all rooms, asks the completion collaborator for a single thought
// with a confidence score, and feeds confident thoughts back into the
// dispatcher as ordinary inbound events.
package consciousness

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mindloop-ai/mindloop/completion"
	"github.com/mindloop-ai/mindloop/core"
	"github.com/mindloop-ai/mindloop/internal/jsonx"
	"github.com/mindloop-ai/mindloop/logging"
	"github.com/mindloop-ai/mindloop/room"
)

// Source is the synthetic client id carried by self-initiated events.
const Source = "consciousness"

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 5 * time.Minute

// Emitter is the sink for synthesized events, satisfied by the dispatcher.
type Emitter interface {
	Emit(ctx context.Context, ev core.InboundEvent) error
}

// Options holds tuning and dependency overrides passed to NewLoop.
type Options struct {
	// Interval between think ticks. Default 5 minutes.
	Interval time.Duration
	// SampleSize caps how many recent memories feed one thought. Default 10.
	SampleSize int
	// MinConfidence gates emission of a synthesized thought. Default 0.7.
	MinConfidence float64
	// Persona is an optional system prompt establishing the thinking voice.
	Persona string
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Loop is the two-state autonomous trigger: stopped or running. Start and
// Stop are idempotent; a tick that errors is logged and skipped, never
// stopping the timer.
type Loop struct {
	svc    completion.Service
	rooms  *room.Manager
	sink   Emitter
	logger logging.Logger

	interval      time.Duration
	sampleSize    int
	minConfidence float64
	persona       string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewLoop constructs a stopped Loop over the completion collaborator, the
// session registry it samples, and the dispatcher it feeds.
func NewLoop(svc completion.Service, rooms *room.Manager, sink Emitter, optFns ...func(o *Options)) *Loop {
	opts := Options{
		Interval:      DefaultInterval,
		SampleSize:    10,
		MinConfidence: 0.7,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Loop{
		svc:           svc,
		rooms:         rooms,
		sink:          sink,
		logger:        opts.Logger,
		interval:      opts.Interval,
		sampleSize:    opts.SampleSize,
		minConfidence: opts.MinConfidence,
		persona:       opts.Persona,
	}
}

// Start transitions stopped→running and schedules the recurring think tick.
// Calling Start while running is a no-op: there is never more than one timer.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.stopCh = make(chan struct{})

	l.logger.Info("autonomous loop started", "interval", l.interval.String())
	go l.run(ctx, l.stopCh)
}

// Stop transitions running→stopped and cancels future ticks. A tick already
// in progress runs to completion. Stop while stopped is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	close(l.stopCh)
	l.logger.Info("autonomous loop stopped")
}

// Running reports whether the loop is currently scheduled.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Loop) run(ctx context.Context, stopCh <-chan struct{}) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-stopCh:
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

type thoughtPayload struct {
	Thought    string  `json:"thought"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context"`
}

// tick performs one think operation. Any failure is logged and skipped.
func (l *Loop) tick(ctx context.Context) {
	memories := l.recentMemories()

	raw, err := l.svc.Analyze(ctx, thoughtPrompt(memories), func(o *completion.Options) {
		o.Temperature = 0.9
		o.Structured = true
		o.SystemPersona = l.persona
	})
	if err != nil {
		l.logger.Warn("thought generation failed", "error", err)
		return
	}

	var payload thoughtPayload
	if err := jsonx.ExtractObject(raw, &payload); err != nil {
		l.logger.Warn("thought response unparseable", "error", err)
		return
	}
	if payload.Thought == "" {
		l.logger.Debug("empty thought, skipping tick")
		return
	}
	if payload.Confidence < l.minConfidence {
		l.logger.Debug("thought below confidence floor", "confidence", payload.Confidence)
		return
	}

	ev := core.NewInboundEvent(core.KindInternalThought, Source, payload.Thought, map[string]any{
		"confidence": payload.Confidence,
		"context":    payload.Context,
	})
	if err := l.sink.Emit(ctx, ev); err != nil {
		l.logger.Warn("thought emission failed", "event_id", ev.ID, "error", err)
		return
	}
	l.logger.Info("thought emitted", "event_id", ev.ID, "confidence", payload.Confidence)
}

// recentMemories samples the most recent memories across all rooms,
// most-recent-first, truncated to the configured sample size.
func (l *Loop) recentMemories() []core.Memory {
	var all []core.Memory
	for _, r := range l.rooms.Rooms() {
		all = append(all, r.Memories(l.sampleSize)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if len(all) > l.sampleSize {
		all = all[:l.sampleSize]
	}
	return all
}
