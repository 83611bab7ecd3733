package pipeline

import (
	"context"
	"fmt"

	"github.com/mindloop-ai/mindloop/completion"
	"github.com/mindloop-ai/mindloop/core"
	"github.com/mindloop-ai/mindloop/internal/jsonx"
)

// LLMExtractor is the default core.IntentExtractor, backed by the
// text-completion collaborator. A malformed response yields an error the
// caller converts into an empty intent list.
type LLMExtractor struct {
	svc completion.Service
}

var _ core.IntentExtractor = (*LLMExtractor)(nil)

// NewLLMExtractor constructs an extractor over the given completion service.
func NewLLMExtractor(svc completion.Service) *LLMExtractor {
	return &LLMExtractor{svc: svc}
}

type intentPayload struct {
	Kind       string         `json:"kind"`
	Confidence float64        `json:"confidence"`
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

// Extract implements core.IntentExtractor.
func (e *LLMExtractor) Extract(ctx context.Context, content, promptOverride string) ([]core.Intent, error) {
	prompt := promptOverride
	if prompt == "" {
		prompt = intentPrompt(content)
	}

	raw, err := e.svc.Analyze(ctx, prompt, func(o *completion.Options) {
		o.Temperature = 0.3
		o.Structured = true
	})
	if err != nil {
		return nil, fmt.Errorf("intent extraction: %w", err)
	}

	var payload []intentPayload
	if err := jsonx.ExtractArray(raw, &payload); err != nil {
		return nil, fmt.Errorf("intent extraction: %w", err)
	}

	intents := make([]core.Intent, 0, len(payload))
	for _, p := range payload {
		if p.Kind == "" {
			continue
		}
		intents = append(intents, core.Intent{
			Kind:       p.Kind,
			Confidence: p.Confidence,
			Action:     p.Action,
			Parameters: p.Parameters,
		}.ClampConfidence())
	}
	return intents, nil
}
