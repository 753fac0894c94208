package errchan

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps worker identities to channels. It is safe for concurrent
// use; the channels it returns are not, and belong to the worker that
// acquired them.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]*Channel
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]*Channel)}
}

// Acquire registers a fresh channel under a new identity and returns both.
func (r *Registry) Acquire() (string, *Channel) {
	id := newID()
	ch := New()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[id] = ch
	return id, ch
}

// Get returns the channel registered under id, creating it on first use.
func (r *Registry) Get(id string) *Channel {
	r.mu.RLock()
	ch, ok := r.channels[id]
	r.mu.RUnlock()
	if ok {
		return ch
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.channels[id]; ok {
		return ch
	}
	ch = New()
	r.channels[id] = ch
	return ch
}

// Release forgets the channel registered under id. Releasing an unknown
// id is a no-op.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, id)
}

// Len returns the number of registered channels.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// newID generates a UUID v7 worker identity.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
