package dispatcher

import (
	"strings"

	"github.com/mindloop-ai/mindloop/core"
)

// PlatformIdentity is the (platform, platformID) pair a room is keyed by.
type PlatformIdentity struct {
	Platform   string
	PlatformID string
}

// InferPlatform derives the room identity from an inbound event. The mapping
// is total: every event kind resolves to an identity, with unknown kinds
// falling through to the source id. Tweet events correlate by tweet id and
// discord events by channel id; anything without a more specific key
// correlates by its raw source.
func InferPlatform(ev core.InboundEvent) PlatformIdentity {
	switch ev.Kind {
	case core.KindTweetReceived, core.KindTweetRequest:
		return PlatformIdentity{
			Platform:   "twitter",
			PlatformID: metaOrSource(ev, "tweetId"),
		}
	case core.KindDMReceived, core.KindDMRequest:
		return PlatformIdentity{
			Platform:   "twitter",
			PlatformID: metaOrSource(ev, "userId"),
		}
	case core.KindDiscordMessageReceived, core.KindDiscordMessageRequest:
		return PlatformIdentity{
			Platform:   "discord",
			PlatformID: metaOrSource(ev, "channelId"),
		}
	default:
		return PlatformIdentity{
			Platform:   leadingToken(ev.Source),
			PlatformID: ev.Source,
		}
	}
}

func metaOrSource(ev core.InboundEvent, key string) string {
	if v := ev.MetaString(key); v != "" {
		return v
	}
	return ev.Source
}

// leadingToken returns the source id up to the first ':' separator, so a
// source like "twitter:poll-1" still maps onto the "twitter" platform.
func leadingToken(source string) string {
	if i := strings.IndexByte(source, ':'); i >= 0 {
		return source[:i]
	}
	return source
}
