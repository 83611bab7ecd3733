package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindloop-ai/mindloop/core"
)

func TestInferPlatform(t *testing.T) {
	tests := []struct {
		name     string
		ev       core.InboundEvent
		platform string
		id       string
	}{
		{
			name:     "tweet correlates by tweet id",
			ev:       core.NewInboundEvent(core.KindTweetReceived, "twitter", "hi", map[string]any{"tweetId": "t1"}),
			platform: "twitter",
			id:       "t1",
		},
		{
			name:     "tweet without tweet id falls back to source",
			ev:       core.NewInboundEvent(core.KindTweetReceived, "twitter", "hi", nil),
			platform: "twitter",
			id:       "twitter",
		},
		{
			name:     "dm correlates by user id",
			ev:       core.NewInboundEvent(core.KindDMReceived, "twitter", "hi", map[string]any{"userId": "u1"}),
			platform: "twitter",
			id:       "u1",
		},
		{
			name:     "discord correlates by channel id",
			ev:       core.NewInboundEvent(core.KindDiscordMessageReceived, "discord", "hi", map[string]any{"channelId": "c1"}),
			platform: "discord",
			id:       "c1",
		},
		{
			name:     "unknown kind falls through to source",
			ev:       core.NewInboundEvent(core.KindInternalThought, "consciousness", "hmm", nil),
			platform: "consciousness",
			id:       "consciousness",
		},
		{
			name:     "source with suffix keeps leading token as platform",
			ev:       core.NewInboundEvent("custom_event", "telegram:poll-1", "hi", nil),
			platform: "telegram",
			id:       "telegram:poll-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferPlatform(tt.ev)
			assert.Equal(t, tt.platform, got.Platform)
			assert.Equal(t, tt.id, got.PlatformID)
		})
	}
}
