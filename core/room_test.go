package core

import (
	"fmt"
	"sync"
	"testing"
)

func TestRoomAddMemoryOrderPreserving(t *testing.T) {
	room := NewRoom("t1", "twitter")
	for i := 0; i < 5; i++ {
		room.AddMemory(fmt.Sprintf("m%d", i), nil)
	}
	mems := room.Memories(0)
	if len(mems) != 5 {
		t.Fatalf("expected 5 memories, got %d", len(mems))
	}
	for i, m := range mems {
		if m.Content != fmt.Sprintf("m%d", i) {
			t.Fatalf("order broken at %d: %q", i, m.Content)
		}
		if m.RoomID != room.ID {
			t.Fatalf("back-reference mismatch: %q", m.RoomID)
		}
	}
}

func TestRoomMemoriesLimitReturnsLastK(t *testing.T) {
	room := NewRoom("c1", "discord")
	for i := 0; i < 10; i++ {
		room.AddMemory(fmt.Sprintf("m%d", i), nil)
	}
	last3 := room.Memories(3)
	if len(last3) != 3 {
		t.Fatalf("expected 3, got %d", len(last3))
	}
	if last3[0].Content != "m7" || last3[2].Content != "m9" {
		t.Fatalf("unexpected window: %q..%q", last3[0].Content, last3[2].Content)
	}
	// Limit larger than history returns everything.
	if got := room.Memories(50); len(got) != 10 {
		t.Fatalf("expected 10, got %d", len(got))
	}
}

func TestRoomMemoriesReturnsCopy(t *testing.T) {
	room := NewRoom("t1", "twitter")
	room.AddMemory("original", nil)
	view := room.Memories(0)
	view[0].Content = "corrupted"
	if room.Memories(0)[0].Content != "original" {
		t.Fatalf("caller mutated internal storage")
	}
}

func TestRoomTouchParticipants(t *testing.T) {
	room := NewRoom("t1", "twitter")
	before := room.LastActiveAt
	room.Touch("alice", "twitter", "")
	if !room.HasParticipant("alice") || !room.HasParticipant("twitter") {
		t.Fatalf("participants not recorded: %v", room.Participants())
	}
	if room.HasParticipant("") {
		t.Fatalf("empty participant recorded")
	}
	if room.LastActiveAt.Before(before) {
		t.Fatalf("LastActiveAt went backwards")
	}
	// Re-adding is a no-op on set size.
	room.Touch("alice")
	if len(room.Participants()) != 2 {
		t.Fatalf("duplicate participant added: %v", room.Participants())
	}
}

func TestRoomConcurrentAppends(t *testing.T) {
	room := NewRoom("t1", "twitter")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room.AddMemory(fmt.Sprintf("m%d", i), nil)
			room.Memories(5)
			room.Touch("user")
		}(i)
	}
	wg.Wait()
	if got := len(room.Memories(0)); got != 50 {
		t.Fatalf("expected 50 memories, got %d", got)
	}
}
