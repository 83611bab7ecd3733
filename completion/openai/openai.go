// Package openai adapts the OpenAI Chat Completions API to the
// completion.Service contract.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/mindloop-ai/mindloop/completion"
)

// Options configures the OpenAI completion adapter. Per-call knobs
// (temperature, max tokens, persona) arrive through completion.Options.
type Options struct {
	Model string
}

// Service wraps the OpenAI Chat Completions API behind completion.Service.
type Service struct {
	client *openai.Client
	opts   Options
}

// New creates an OpenAI-backed completion service using the official client.
func New(optFns ...func(o *Options)) *Service {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates an OpenAI-backed completion service from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Service {
	opts := Options{
		Model: openai.ChatModelGPT4oMini,
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

	var messages []openai.ChatCompletionMessageParamUnion
	if opts.SystemPersona != "" {
		messages = append(messages, openai.SystemMessage(opts.SystemPersona))
	}
	if opts.Structured {
		messages = append(messages, openai.SystemMessage("Respond with a single valid JSON value and nothing else."))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:               s.opts.Model,
		Messages:            messages,
		Temperature:         openai.Float(opts.Temperature),
		MaxCompletionTokens: openai.Int(int64(opts.MaxTokens)),
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api error: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
