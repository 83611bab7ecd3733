package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var _ Service = (*ScriptedService)(nil)

func TestScriptedServiceQueueBeforeRules(t *testing.T) {
	svc := NewScriptedService().
		Respond("analyze", `{"summary":"rule"}`).
		Enqueue(`{"summary":"queued"}`)

	out, err := svc.Analyze(context.Background(), "please analyze this")
	assert.NoError(t, err)
	assert.Equal(t, `{"summary":"queued"}`, out)

	out, err = svc.Analyze(context.Background(), "please analyze this")
	assert.NoError(t, err)
	assert.Equal(t, `{"summary":"rule"}`, out)
}

func TestScriptedServiceErrorAndRecording(t *testing.T) {
	boom := errors.New("boom")
	svc := NewScriptedService().EnqueueError(boom)

	_, err := svc.Analyze(context.Background(), "x", func(o *Options) { o.Temperature = 0.1 })
	assert.ErrorIs(t, err, boom)

	calls := svc.Calls()
	assert.Len(t, calls, 1)
	assert.Equal(t, 0.1, calls[0].Options.Temperature)
}

func TestScriptedServiceFallback(t *testing.T) {
	svc := NewScriptedService().SetFallback("ok")
	out, err := svc.Analyze(context.Background(), "anything")
	assert.NoError(t, err)
	assert.Equal(t, "ok", out)
}
