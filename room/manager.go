// Package room implements the session registry and memory store: Rooms are
// created lazily per (platformID, platform) pair, memories are appended to
// their owning Room and mirrored best-effort into an optional similarity
// index collaborator.
package room

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mindloop-ai/mindloop/core"
	"github.com/mindloop-ai/mindloop/logging"
)

// ErrNoSimilarityIndex is returned when a similarity operation is requested
// but no index collaborator was configured. This is a configuration error
// surfaced to the caller, not swallowed.
var ErrNoSimilarityIndex = errors.New("room: no similarity index configured")

// Options holds dependency overrides passed to NewManager.
type Options struct {
	// Index is the optional similarity-index collaborator. When it also
	// implements core.RoomScopedIndex the room-scoped capability is used.
	Index core.SimilarityIndex
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Manager is the session registry. It does not suppress duplicate rooms:
// lookup-then-create is the dispatcher's responsibility. Safe for concurrent
// access.
type Manager struct {
	mu         sync.RWMutex
	byPlatform map[string][]*core.Room
	byID       map[string]*core.Room

	index  core.SimilarityIndex
	scoped core.RoomScopedIndex // non-nil when the capability is present
	logger logging.Logger
}

// NewManager constructs a Manager. The room-scoped index capability is
// resolved here, once, and never re-probed per call.
func NewManager(optFns ...func(o *Options)) *Manager {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := &Manager{
		byPlatform: make(map[string][]*core.Room),
		byID:       make(map[string]*core.Room),
		index:      opts.Index,
		logger:     opts.Logger,
	}
	if scoped, ok := opts.Index.(core.RoomScopedIndex); ok {
		m.scoped = scoped
	}
	return m
}

// HasSimilarityIndex reports whether an index collaborator is configured.
func (m *Manager) HasSimilarityIndex() bool { return m.index != nil }

// CreateRoom allocates a new Room, indexes it by platform and returns it.
// It does not check for duplicates; callers must look up first.
func (m *Manager) CreateRoom(platformID, platform string, participants ...string) *core.Room {
	r := core.NewRoom(platformID, platform)
	r.Touch(participants...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byPlatform[platform] = append(m.byPlatform[platform], r)
	m.byID[r.ID] = r

	m.logger.Info("room created", "room_id", r.ID, "platform", platform, "platform_id", platformID)
	return r
}

// RoomByPlatformID scans the platform's index and returns the first room
// matching platformID, or false.
func (m *Manager) RoomByPlatformID(platformID, platform string) (*core.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.byPlatform[platform] {
		if r.PlatformID == platformID {
			return r, true
		}
	}
	return nil, false
}

// Room returns a room by its system-generated id.
func (m *Manager) Room(id string) (*core.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	return r, ok
}

// Rooms returns a snapshot slice of all known rooms.
func (m *Manager) Rooms() []*core.Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*core.Room, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out
}

// AddMemory appends content to the room's history and, when an index is
// configured, mirrors the memory asynchronously with enriched metadata. The
// in-memory append is authoritative; mirror failures are logged, never
// propagated.
func (m *Manager) AddMemory(ctx context.Context, roomID, content string, metadata map[string]any) (core.Memory, error) {
	r, ok := m.Room(roomID)
	if !ok {
		return core.Memory{}, fmt.Errorf("room: unknown room %s", roomID)
	}

	mem := r.AddMemory(content, metadata)

	if m.index != nil {
		// Detached from the caller's cancellation: the mirror is a derived
		// copy, losing it must not fail the authoritative append.
		mirrorCtx := context.WithoutCancel(ctx)
		go m.mirror(mirrorCtx, r, mem)
	}

	return mem, nil
}

func (m *Manager) mirror(ctx context.Context, r *core.Room, mem core.Memory) {
	enriched := make(map[string]any, len(mem.Metadata)+3)
	for k, v := range mem.Metadata {
		enriched[k] = v
	}
	enriched["roomId"] = r.ID
	enriched["platform"] = r.Platform
	enriched["timestamp"] = mem.Timestamp

	var err error
	if m.scoped != nil {
		err = m.scoped.StoreInRoom(ctx, mem.Content, enriched, r.ID)
	} else {
		err = m.index.Store(ctx, mem.Content, enriched)
	}
	if err != nil {
		m.logger.Warn("memory mirror failed", "room_id", r.ID, "memory_id", mem.ID, "error", err)
	}
}

// FindSimilarMemories delegates to the similarity collaborator. roomID scopes
// the search when the collaborator supports it; without the capability the
// search degrades to global. Returns ErrNoSimilarityIndex when no
// collaborator is attached.
func (m *Manager) FindSimilarMemories(ctx context.Context, content, roomID string, limit int) ([]core.SearchResult, error) {
	if m.index == nil {
		return nil, ErrNoSimilarityIndex
	}
	if roomID != "" && m.scoped != nil {
		return m.scoped.FindSimilarInRoom(ctx, content, limit, roomID)
	}
	if roomID != "" {
		m.logger.Debug("room-scoped search unsupported by index, degrading to global", "room_id", roomID)
	}
	return m.index.FindSimilar(ctx, content, limit, nil)
}
