// Package arena stores greeters behind generation-checked handles, so a
// handle kept after its greeter was removed is detected instead of
// silently reaching a reused slot.
package arena

import (
	"sync"

	"github.com/mesh-intelligence/hello/internal/greeter"
	"github.com/mesh-intelligence/hello/pkg/types"
)

// Handle identifies a slot in a Table. The zero Handle is absent.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the absent handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

type slot struct {
	g          *greeter.Greeter
	generation uint32
}

// Table is a slot arena of greeters. It is safe for concurrent use; the
// greeters it stores are not.
type Table struct {
	mu    sync.RWMutex
	slots []slot
	free  []uint32
	live  int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Insert stores g and returns its handle. Slot indexes start at 1 and
// generations at 1 so no live handle equals the zero Handle. Inserting
// nil returns the zero Handle.
func (t *Table) Insert(g *greeter.Greeter) Handle {
	if g == nil {
		return Handle{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		idx = uint32(len(t.slots))
	}

	s := &t.slots[idx-1]
	s.generation++
	s.g = g
	t.live++
	return Handle{Index: idx, Generation: s.generation}
}

// Get returns the greeter for h. It returns ErrNilHandle for the zero
// Handle and ErrUseAfterDestroy for a handle whose slot was removed or
// reused.
func (t *Table) Get(h Handle) (*greeter.Greeter, error) {
	if h.IsZero() {
		return nil, types.ErrNilHandle
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.lookup(h)
	if !ok {
		return nil, types.ErrUseAfterDestroy
	}
	return s.g, nil
}

// Remove takes the greeter for h out of the table and frees its slot.
// It reports false for absent or stale handles.
func (t *Table) Remove(h Handle) (*greeter.Greeter, bool) {
	if h.IsZero() {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.lookup(h)
	if !ok {
		return nil, false
	}
	g := s.g
	s.g = nil
	s.generation++
	t.free = append(t.free, h.Index)
	t.live--
	return g, true
}

// Len returns the number of live greeters.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// lookup resolves h to its slot. The caller must hold t.mu.
func (t *Table) lookup(h Handle) (*slot, bool) {
	if h.Index == 0 || int(h.Index) > len(t.slots) {
		return nil, false
	}
	s := &t.slots[h.Index-1]
	if s.g == nil || s.generation != h.Generation {
		return nil, false
	}
	return s, true
}
