package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindloop-ai/mindloop/completion"
)

func TestLLMExtractorParsesIntents(t *testing.T) {
	svc := completion.NewScriptedService().Enqueue(
		`[{"kind":"question","confidence":0.9,"action":"","parameters":{}},
		  {"kind":"request","confidence":1.4,"action":"tweet","parameters":{"text":"hi"}}]`)

	intents, err := NewLLMExtractor(svc).Extract(context.Background(), "what's up?", "")
	require.NoError(t, err)
	require.Len(t, intents, 2)

	assert.Equal(t, "question", intents[0].Kind)
	assert.Equal(t, 0.9, intents[0].Confidence)
	assert.Equal(t, "request", intents[1].Kind)
	assert.Equal(t, 1.0, intents[1].Confidence, "confidence clamped to [0,1]")
	assert.Equal(t, "tweet", intents[1].Action)
}

func TestLLMExtractorSkipsEmptyKinds(t *testing.T) {
	svc := completion.NewScriptedService().Enqueue(
		`[{"kind":"","confidence":0.5},{"kind":"greeting","confidence":0.8}]`)

	intents, err := NewLLMExtractor(svc).Extract(context.Background(), "hello", "")
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, "greeting", intents[0].Kind)
}

func TestLLMExtractorMalformedResponse(t *testing.T) {
	svc := completion.NewScriptedService().Enqueue("I could not decide on any intents.")

	_, err := NewLLMExtractor(svc).Extract(context.Background(), "hmm", "")
	assert.Error(t, err)
}

func TestLLMExtractorServiceError(t *testing.T) {
	svc := completion.NewScriptedService().EnqueueError(errors.New("rate limited"))

	_, err := NewLLMExtractor(svc).Extract(context.Background(), "hello", "")
	assert.ErrorContains(t, err, "rate limited")
}

func TestLLMExtractorPromptOverride(t *testing.T) {
	svc := completion.NewScriptedService().Enqueue(`[]`)

	_, err := NewLLMExtractor(svc).Extract(context.Background(), "hello", "custom classification prompt")
	require.NoError(t, err)

	calls := svc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "custom classification prompt", calls[0].Prompt)
	assert.True(t, calls[0].Options.Structured)
}
