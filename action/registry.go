// Package action implements the action catalog: an in-memory mapping from
// action kind to capability descriptor, consumed by the pipeline when
// composing action-selection prompts and validating completion output.
package action

import (
	"sort"
	"sync"

	"github.com/mindloop-ai/mindloop/core"
)

// Registry is the in-memory action catalog. Registration is last-write-wins
// with no versioning; descriptors are read-only during pipeline execution.
// Safe for concurrent access.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]core.ActionDescriptor
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]core.ActionDescriptor)}
}

// Register stores a descriptor under its kind, overwriting any existing entry.
func (r *Registry) Register(d core.ActionDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[d.Kind] = d
}

// Available returns all registered descriptors sorted by kind, for stable
// prompt construction.
func (r *Registry) Available() []core.ActionDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.ActionDescriptor, 0, len(r.actions))
	for _, d := range r.actions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Definition returns the descriptor registered under kind, or false.
func (r *Registry) Definition(kind string) (core.ActionDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.actions[kind]
	return d, ok
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
