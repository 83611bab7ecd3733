// Package pipeline implements the enrichment → intent-extraction →
// action-generation sequence run once per inbound event. Every stage is
// isolated at its boundary: collaborator failures degrade the result, they
// never prevent Process from returning one.
package pipeline

import (
	"context"
	"time"

	"github.com/mindloop-ai/mindloop/action"
	"github.com/mindloop-ai/mindloop/completion"
	"github.com/mindloop-ai/mindloop/core"
	"github.com/mindloop-ai/mindloop/internal/jsonx"
	"github.com/mindloop-ai/mindloop/internal/util"
	"github.com/mindloop-ai/mindloop/logging"
	"github.com/mindloop-ai/mindloop/room"
)

// EnrichmentContext is the structured enrichment attached to a processed
// event.
type EnrichmentContext struct {
	Summary         string              `json:"summary"`
	Topics          []string            `json:"topics"`
	Sentiment       string              `json:"sentiment"`
	Entities        []string            `json:"entities"`
	Intent          string              `json:"intent"`
	RelatedMemories []core.SearchResult `json:"related_memories,omitempty"`
	Recency         RecencyBucket       `json:"recency"`
	Timestamp       time.Time           `json:"timestamp"`
}

// Result is the pipeline's per-event output. It is always non-nil: on total
// collaborator failure Intents and SuggestedEvents are empty and Context
// holds the minimal fallback enrichment.
type Result struct {
	Intents         []core.Intent
	SuggestedEvents []core.OutboundEvent
	Context         EnrichmentContext
}

// Options holds dependency and tuning overrides passed to NewProcessor.
type Options struct {
	// Extractor classifies intents; defaults to the LLM-backed extractor
	// over the processor's completion service.
	Extractor core.IntentExtractor
	// Rooms enables related-memory retrieval; nil degrades to none.
	Rooms *room.Manager
	// Logger defaults to NoOp.
	Logger logging.Logger
	// RelatedMemoryLimit caps related-memory retrieval. Default 3.
	RelatedMemoryLimit int
	// MinActionConfidence is the acceptance floor for action suggestions.
	// Default 0.7.
	MinActionConfidence float64
	// Now overrides the clock, for recency tests.
	Now func() time.Time
}

// Processor runs the pipeline. Safe for concurrent use.
type Processor struct {
	svc       completion.Service
	actions   *action.Registry
	extractor core.IntentExtractor
	rooms     *room.Manager
	logger    logging.Logger

	relatedLimit  int
	minConfidence float64
	now           func() time.Time
}

// NewProcessor constructs a Processor over the completion collaborator and
// action catalog.
func NewProcessor(svc completion.Service, actions *action.Registry, optFns ...func(o *Options)) *Processor {
	opts := Options{
		Logger:              logging.NoOpLogger{},
		RelatedMemoryLimit:  3,
		MinActionConfidence: 0.7,
		Now:                 time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Extractor == nil {
		opts.Extractor = NewLLMExtractor(svc)
	}

	return &Processor{
		svc:           svc,
		actions:       actions,
		extractor:     opts.Extractor,
		rooms:         opts.Rooms,
		logger:        opts.Logger,
		relatedLimit:  opts.RelatedMemoryLimit,
		minConfidence: opts.MinActionConfidence,
		now:           opts.Now,
	}
}

// Process runs the full pipeline for one inbound event. It never fails: each
// stage degrades independently and the returned Result is always usable.
func (p *Processor) Process(ctx context.Context, ev core.InboundEvent, rm *core.Room) *Result {
	related := p.relatedMemories(ctx, ev, rm)
	enrichment := p.enrich(ctx, ev, related)

	intents, err := p.extractor.Extract(ctx, ev.Content, "")
	if err != nil {
		p.logger.Warn("intent extraction failed", "event_id", ev.ID, "error", err)
		intents = nil
	}

	suggested := make([]core.OutboundEvent, 0, len(intents))
	for _, intent := range intents {
		if out, ok := p.suggestAction(ctx, intent, ev); ok {
			suggested = append(suggested, out)
		}
	}

	return &Result{
		Intents:         intents,
		SuggestedEvents: suggested,
		Context:         enrichment,
	}
}

func (p *Processor) relatedMemories(ctx context.Context, ev core.InboundEvent, rm *core.Room) []core.SearchResult {
	if p.rooms == nil || !p.rooms.HasSimilarityIndex() {
		return nil
	}
	roomID := ""
	if rm != nil {
		roomID = rm.ID
	}
	related, err := p.rooms.FindSimilarMemories(ctx, ev.Content, roomID, p.relatedLimit)
	if err != nil {
		p.logger.Debug("related memory lookup failed", "event_id", ev.ID, "error", err)
		return nil
	}
	return related
}

type enrichmentPayload struct {
	Summary   string   `json:"summary"`
	Topics    []string `json:"topics"`
	Sentiment string   `json:"sentiment"`
	Entities  []string `json:"entities"`
	Intent    string   `json:"intent"`
}

// enrich requests structured enrichment from the completion collaborator.
// A parse failure triggers exactly one retry with a stricter, low-temperature
// prompt; a second failure falls back to minimal enrichment.
func (p *Processor) enrich(ctx context.Context, ev core.InboundEvent, related []core.SearchResult) EnrichmentContext {
	now := p.now()
	base := EnrichmentContext{
		RelatedMemories: related,
		Recency:         BucketFor(now.Sub(ev.Timestamp)),
		Timestamp:       now,
	}

	payload, err := p.requestEnrichment(ctx, enrichmentPrompt(ev.Content, related), 0.7)
	if err != nil {
		payload, err = p.requestEnrichment(ctx, strictEnrichmentPrompt(ev.Content), 0.1)
	}
	if err != nil {
		p.logger.Warn("enrichment degraded to fallback", "event_id", ev.ID, "error", err)
		base.Summary = truncate(ev.Content, 120)
		base.Topics = []string{}
		base.Entities = []string{}
		base.Sentiment = "neutral"
		base.Intent = "unknown"
		return base
	}

	base.Summary = payload.Summary
	base.Topics = payload.Topics
	base.Sentiment = payload.Sentiment
	base.Entities = payload.Entities
	base.Intent = payload.Intent
	if base.Sentiment == "" {
		base.Sentiment = "neutral"
	}
	if base.Intent == "" {
		base.Intent = "unknown"
	}
	return base
}

func (p *Processor) requestEnrichment(ctx context.Context, prompt string, temperature float64) (enrichmentPayload, error) {
	var payload enrichmentPayload
	raw, err := p.svc.Analyze(ctx, prompt, func(o *completion.Options) {
		o.Temperature = temperature
		o.Structured = true
	})
	if err != nil {
		return payload, err
	}
	if err := jsonx.ExtractObject(raw, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

type suggestionPayload struct {
	Action     string         `json:"action"`
	Confidence float64        `json:"confidence"`
	Parameters map[string]any `json:"parameters"`
	Reasoning  string         `json:"reasoning"`
}

// suggestAction asks the completion collaborator to select an action for one
// intent. Any parse or validation failure yields no action for that intent
// and never aborts processing of the remaining intents.
func (p *Processor) suggestAction(ctx context.Context, intent core.Intent, ev core.InboundEvent) (core.OutboundEvent, bool) {
	available := p.actions.Available()
	if len(available) == 0 {
		return core.OutboundEvent{}, false
	}

	raw, err := p.svc.Analyze(ctx, actionPrompt(intent, ev.Content, available), func(o *completion.Options) {
		o.Temperature = 0.3
		o.Structured = true
	})
	if err != nil {
		p.logger.Warn("action suggestion failed", "event_id", ev.ID, "intent", intent.Kind, "error", err)
		return core.OutboundEvent{}, false
	}

	var s suggestionPayload
	if err := jsonx.ExtractObject(raw, &s); err != nil {
		p.logger.Warn("action suggestion unparseable", "event_id", ev.ID, "intent", intent.Kind, "error", err)
		return core.OutboundEvent{}, false
	}

	desc, ok := p.actions.Definition(s.Action)
	if !ok {
		p.logger.Warn("action suggestion named unknown action", "event_id", ev.ID, "action", s.Action)
		return core.OutboundEvent{}, false
	}
	if s.Confidence < p.minConfidence {
		p.logger.Debug("action suggestion below confidence floor", "event_id", ev.ID, "action", s.Action, "confidence", s.Confidence)
		return core.OutboundEvent{}, false
	}
	if err := util.ValidateParameters(s.Parameters, desc.Schema()); err != nil {
		p.logger.Warn("action suggestion parameters invalid", "event_id", ev.ID, "action", s.Action, "error", err)
		return core.OutboundEvent{}, false
	}

	content, _ := s.Parameters["text"].(string)
	out := core.NewOutboundEvent(desc.OutputKind, desc.TargetClient, content, map[string]any{
		"action":      desc.Kind,
		"parameters":  s.Parameters,
		"reasoning":   s.Reasoning,
		"intent":      intent.Kind,
		"confidence":  s.Confidence,
		"sourceEvent": ev.ID,
	})
	return out, true
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
