package similarity

import (
	"context"
	"testing"
)

func TestFindSimilarRanksByOverlap(t *testing.T) {
	idx := NewInMemoryIndex()
	ctx := context.Background()

	_ = idx.Store(ctx, "the weather in berlin is sunny today", nil)
	_ = idx.Store(ctx, "stock markets closed lower", nil)
	_ = idx.Store(ctx, "berlin weather forecast looks sunny", nil)

	res, err := idx.FindSimilar(ctx, "sunny weather berlin", 2, nil)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(res))
	}
	for _, r := range res {
		if r.Similarity <= 0 {
			t.Fatalf("expected positive similarity, got %f", r.Similarity)
		}
	}
	// The unrelated entry must not appear.
	for _, r := range res {
		if r.Content == "stock markets closed lower" {
			t.Fatalf("unrelated entry ranked: %q", r.Content)
		}
	}
}

func TestFindSimilarMetadataFilter(t *testing.T) {
	idx := NewInMemoryIndex()
	ctx := context.Background()

	_ = idx.Store(ctx, "hello from twitter", map[string]any{"platform": "twitter"})
	_ = idx.Store(ctx, "hello from discord", map[string]any{"platform": "discord"})

	res, err := idx.FindSimilar(ctx, "hello", 10, map[string]any{"platform": "discord"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res) != 1 || res[0].Metadata["platform"] != "discord" {
		t.Fatalf("filter not applied: %#v", res)
	}
}

func TestRoomScopedStoreAndSearch(t *testing.T) {
	idx := NewInMemoryIndex()
	ctx := context.Background()

	_ = idx.StoreInRoom(ctx, "room one secret plans", nil, "r1")
	_ = idx.StoreInRoom(ctx, "room two secret plans", nil, "r2")
	_ = idx.Store(ctx, "global secret plans", nil)

	res, err := idx.FindSimilarInRoom(ctx, "secret plans", 10, "r1")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res) != 1 || res[0].Content != "room one secret plans" {
		t.Fatalf("room scoping broken: %#v", res)
	}
}

func TestResultMetadataIsCopy(t *testing.T) {
	idx := NewInMemoryIndex()
	ctx := context.Background()
	_ = idx.Store(ctx, "some content here", map[string]any{"k": "v"})

	res, _ := idx.FindSimilar(ctx, "content", 1, nil)
	if len(res) != 1 {
		t.Fatalf("expected a hit")
	}
	res[0].Metadata["k"] = "mutated"

	res2, _ := idx.FindSimilar(ctx, "content", 1, nil)
	if res2[0].Metadata["k"] != "v" {
		t.Fatalf("internal metadata mutated by caller")
	}
}
