package core

import (
	"sync"
	"time"
)

// Memory is one immutable content record appended to a Room's history. The
// RoomID is a back-reference, not ownership: the Room exclusively owns its
// memories, a similarity index only ever holds a derived, replaceable copy.
type Memory struct {
	ID        string         `json:"id"`
	RoomID    string         `json:"room_id"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Room represents one logical conversation/session correlated to an external
// (platformID, platform) pair. It is safe for concurrent access.
//
// Contract:
//   - Memories are append-only and insertion-ordered; never edited or removed
//   - Memories(limit) returns a copy, never the internal slice
//   - Touch updates LastActiveAt and the participant set
type Room struct {
	ID           string    `json:"id"`
	PlatformID   string    `json:"platform_id"`
	Platform     string    `json:"platform"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`

	mu           sync.RWMutex
	participants map[string]struct{}
	memories     []Memory
}

// NewRoom allocates a room with a generated id and fresh timestamps.
func NewRoom(platformID, platform string) *Room {
	now := time.Now().UTC()
	return &Room{
		ID:           NewID(),
		PlatformID:   platformID,
		Platform:     platform,
		CreatedAt:    now,
		LastActiveAt: now,
		participants: make(map[string]struct{}),
	}
}

// AddMemory appends a memory with a fresh timestamp and generated id,
// returning the stored record.
func (r *Room) AddMemory(content string, metadata map[string]any) Memory {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := Memory{
		ID:        NewID(),
		RoomID:    r.ID,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
	r.memories = append(r.memories, m)
	r.LastActiveAt = m.Timestamp
	return m
}

// Memories returns the most recent limit memories in insertion order. A limit
// of zero or less returns the full history. The returned slice is a copy.
func (r *Room) Memories(limit int) []Memory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	start := 0
	if limit > 0 && len(r.memories) > limit {
		start = len(r.memories) - limit
	}
	out := make([]Memory, len(r.memories)-start)
	copy(out, r.memories[start:])
	return out
}

// Touch records activity: LastActiveAt is refreshed and any non-empty
// participant identifiers are added to the set.
func (r *Room) Touch(participants ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastActiveAt = time.Now().UTC()
	for _, p := range participants {
		if p != "" {
			r.participants[p] = struct{}{}
		}
	}
}

// Participants returns a copy of the participant identifier set.
func (r *Room) Participants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.participants))
	for p := range r.participants {
		out = append(out, p)
	}
	return out
}

// HasParticipant reports whether id is in the participant set.
func (r *Room) HasParticipant(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.participants[id]
	return ok
}
