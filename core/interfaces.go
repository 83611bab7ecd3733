package core

import "context"

// Client is a platform adapter registered with the dispatcher. Listen begins
// an independent acquisition loop (typically polling) that feeds discovered
// inbound events into the dispatcher; Stop halts acquisition; Emit is
// best-effort delivery to the external platform. Stopping a client only
// prevents future polls; an emit already in progress runs to completion.
type Client interface {
	// ID returns the routing identity outbound events are addressed to.
	ID() string
	// Kind returns the platform tag, e.g. "twitter".
	Kind() string
	// Listen blocks running the acquisition loop until ctx is cancelled or
	// the loop fails.
	Listen(ctx context.Context) error
	// Stop halts the acquisition loop.
	Stop() error
	// Emit delivers an outbound event to the external platform.
	Emit(ctx context.Context, ev OutboundEvent) error
}

// SearchResult is one ranked hit returned by a similarity index.
type SearchResult struct {
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// SimilarityIndex holds derived, replaceable copies of memories keyed by
// content and metadata. It is never the source of truth; the owning Room is.
type SimilarityIndex interface {
	Store(ctx context.Context, content string, metadata map[string]any) error
	FindSimilar(ctx context.Context, content string, limit int, filter map[string]any) ([]SearchResult, error)
}

// RoomScopedIndex is the optional room-scoped capability of a similarity
// index. Presence is resolved once at construction via type assertion, never
// re-probed per call; absence degrades to global search.
type RoomScopedIndex interface {
	SimilarityIndex
	StoreInRoom(ctx context.Context, content string, metadata map[string]any, roomID string) error
	FindSimilarInRoom(ctx context.Context, content string, limit int, roomID string) ([]SearchResult, error)
}

// IntentExtractor classifies inbound content into an ordered list of intents.
// promptOverride, when non-empty, replaces the extractor's default prompt.
type IntentExtractor interface {
	Extract(ctx context.Context, content, promptOverride string) ([]Intent, error)
}
