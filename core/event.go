package core

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies an event within the closed set of event kinds the core
// routes. New kinds may be introduced by registering actions whose OutputKind
// names them; the constants below cover the built-in platforms plus the
// self-generated thought event.
type Kind string

const (
	// Inbound kinds produced by platform clients.
	KindTweetReceived          Kind = "tweet_received"
	KindDMReceived             Kind = "dm_received"
	KindDiscordMessageReceived Kind = "discord_message_received"

	// Outbound kinds produced by accepted action suggestions.
	KindTweetRequest          Kind = "tweet_request"
	KindDMRequest             Kind = "dm_request"
	KindDiscordMessageRequest Kind = "discord_message_request"

	// KindInternalThought is the self-sourced event the autonomous loop feeds
	// back into the dispatcher.
	KindInternalThought Kind = "internal_thought"
)

// Event is the shared envelope of both directional variants. Events are
// immutable once created: enrichment results are attached via WithMetadata on
// derived copies, never in place.
type Event struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// InboundEvent is an event arriving from a platform client (or the autonomous
// loop, using its synthetic source id).
type InboundEvent struct {
	Event
	// Source is the originating client id, e.g. "twitter" or "consciousness".
	Source string `json:"source"`
}

// OutboundEvent is an event addressed to a registered platform client.
type OutboundEvent struct {
	Event
	// Target is the addressed client id.
	Target string `json:"target"`
}

// NewInboundEvent creates a timestamped inbound event.
func NewInboundEvent(kind Kind, source, content string, metadata map[string]any) InboundEvent {
	return InboundEvent{
		Event:  newEvent(kind, content, metadata),
		Source: source,
	}
}

// NewOutboundEvent creates a timestamped outbound event addressed to target.
func NewOutboundEvent(kind Kind, target, content string, metadata map[string]any) OutboundEvent {
	return OutboundEvent{
		Event:  newEvent(kind, content, metadata),
		Target: target,
	}
}

func newEvent(kind Kind, content string, metadata map[string]any) Event {
	return Event{
		ID:        NewID(),
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}

// NewID generates a unique identifier for events, rooms and memories.
func NewID() string { return uuid.NewString() }

// Meta returns the metadata value for key, or nil if absent. Safe on events
// with nil metadata.
func (e Event) Meta(key string) any {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// MetaString returns the metadata value for key as a string, or "" when the
// key is absent or not a string.
func (e Event) MetaString(key string) string {
	s, _ := e.Meta(key).(string)
	return s
}

// WithMetadata returns a derived copy of the event whose metadata is the
// original metadata merged with extra (extra wins on key collision). The
// receiver is left untouched.
func (e Event) WithMetadata(extra map[string]any) Event {
	merged := make(map[string]any, len(e.Metadata)+len(extra))
	for k, v := range e.Metadata {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	e.Metadata = merged
	return e
}

// WithMetadata is the inbound-variant derived copy helper.
func (e InboundEvent) WithMetadata(extra map[string]any) InboundEvent {
	e.Event = e.Event.WithMetadata(extra)
	return e
}

// WithMetadata is the outbound-variant derived copy helper.
func (e OutboundEvent) WithMetadata(extra map[string]any) OutboundEvent {
	e.Event = e.Event.WithMetadata(extra)
	return e
}
