// Package similarity provides a process-local reference implementation of the
// similarity-index collaborator, including the optional room-scoped
// capability. Scoring is a token-overlap coefficient: suitable for tests and
// demos, swap for a vector store in production retrieval.
package similarity

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mindloop-ai/mindloop/core"
)

type entry struct {
	content  string
	tokens   map[string]struct{}
	metadata map[string]any
	roomID   string // empty for globally stored entries
}

// InMemoryIndex is a volatile core.RoomScopedIndex backed by a linear-scan
// token-overlap search. Safe for concurrent access.
type InMemoryIndex struct {
	mu      sync.RWMutex
	entries []entry
}

var _ core.RoomScopedIndex = (*InMemoryIndex)(nil)

// NewInMemoryIndex constructs an empty index.
func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{}
}

// Store implements core.SimilarityIndex.
func (x *InMemoryIndex) Store(ctx context.Context, content string, metadata map[string]any) error {
	return x.store(ctx, content, metadata, "")
}

// StoreInRoom implements the room-scoped capability.
func (x *InMemoryIndex) StoreInRoom(ctx context.Context, content string, metadata map[string]any, roomID string) error {
	return x.store(ctx, content, metadata, roomID)
}

func (x *InMemoryIndex) store(ctx context.Context, content string, metadata map[string]any, roomID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	md := make(map[string]any, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = append(x.entries, entry{
		content:  content,
		tokens:   tokenize(content),
		metadata: md,
		roomID:   roomID,
	})
	return nil
}

// FindSimilar implements core.SimilarityIndex. A nil filter matches all
// entries; otherwise every filter key must equal the entry's metadata value.
func (x *InMemoryIndex) FindSimilar(ctx context.Context, content string, limit int, filter map[string]any) ([]core.SearchResult, error) {
	return x.search(ctx, content, limit, func(e entry) bool {
		for k, want := range filter {
			if e.metadata[k] != want {
				return false
			}
		}
		return true
	})
}

// FindSimilarInRoom implements the room-scoped capability.
func (x *InMemoryIndex) FindSimilarInRoom(ctx context.Context, content string, limit int, roomID string) ([]core.SearchResult, error) {
	return x.search(ctx, content, limit, func(e entry) bool {
		return e.roomID == roomID
	})
}

func (x *InMemoryIndex) search(ctx context.Context, content string, limit int, match func(entry) bool) ([]core.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := tokenize(content)

	x.mu.RLock()
	defer x.mu.RUnlock()

	results := make([]core.SearchResult, 0, limit)
	for _, e := range x.entries {
		if !match(e) {
			continue
		}
		score := overlap(query, e.tokens)
		if score <= 0 {
			continue
		}
		md := make(map[string]any, len(e.metadata))
		for k, v := range e.metadata {
			md[k] = v
		}
		results = append(results, core.SearchResult{Content: e.content, Similarity: score, Metadata: md})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if len(f) > 1 {
			tokens[f] = struct{}{}
		}
	}
	return tokens
}

// overlap returns |a∩b| / min(|a|,|b|).
func overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}
