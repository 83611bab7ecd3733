// Package anthropic adapts the Anthropic Claude Messages API to the
// completion.Service contract.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mindloop-ai/mindloop/completion"
)

// Options configures the Anthropic completion adapter (model id, API key).
// Per-call knobs (temperature, max tokens, persona) arrive through
// completion.Options.
type Options struct {
	Model  anthropic.Model
	APIKey string
}

// Service wraps the Anthropic Messages API behind completion.Service.
type Service struct {
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic-backed completion service using the official client.
func New(optFns ...func(o *Options)) *Service {
	opts := Options{
		Model: anthropic.ModelClaude3_5Sonnet20241022,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Service{client: &client, opts: opts}
}

// NewFromClient creates an Anthropic-backed completion service from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Service {
	opts := Options{
		Model: anthropic.ModelClaude3_5Sonnet20241022,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{client: client, opts: opts}
}

// Analyze implements completion.Service with a single non-streaming call.
func (s *Service) Analyze(ctx context.Context, prompt string, optFns ...func(o *completion.Options)) (string, error) {
	opts := completion.DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	params := anthropic.MessageNewParams{
		Model:       s.opts.Model,
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	if system := systemBlocks(opts); len(system) > 0 {
		params.System = system
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

func systemBlocks(opts completion.Options) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	if opts.SystemPersona != "" {
		blocks = append(blocks, anthropic.TextBlockParam{Text: opts.SystemPersona})
	}
	if opts.Structured {
		blocks = append(blocks, anthropic.TextBlockParam{Text: "Respond with a single valid JSON value and nothing else."})
	}
	return blocks
}
