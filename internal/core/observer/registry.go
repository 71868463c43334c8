package observer

import (
	"fmt"
	"sync"
)

// Handle is a generational reference to an observer held by a Registry.
// The zero Handle never refers to a live observer.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d#%d", h.Index, h.Generation)
}

type registrySlot struct {
	observer   Observer
	generation uint32
	live       bool
}

// Registry is an arena of observers. Releasing a handle bumps the slot
// generation so every outstanding copy of the handle becomes detectably stale.
type Registry struct {
	mu    sync.RWMutex
	slots []registrySlot
	free  []uint32
	live  int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores o and returns its handle.
func (r *Registry) Register(o Observer) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, registrySlot{})
	}

	s := &r.slots[idx]
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.observer = o
	s.live = true
	r.live++

	return Handle{Index: idx, Generation: s.generation}
}

// Release invalidates h. Releasing an already stale handle returns ErrStaleHandle.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slotLocked(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	s.observer = nil
	s.live = false
	s.generation++
	r.free = append(r.free, h.Index)
	r.live--
	return nil
}

// Resolve returns the observer behind h.
func (r *Registry) Resolve(h Handle) (Observer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slotLocked(h)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}
	return s.observer, nil
}

// Alive reports whether h still refers to a registered observer.
func (r *Registry) Alive(h Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.slotLocked(h)
	return ok
}

// Len returns the number of live observers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live
}

func (r *Registry) slotLocked(h Handle) (*registrySlot, bool) {
	if h.IsZero() || int(h.Index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.Index]
	if !s.live || s.generation != h.Generation {
		return nil, false
	}
	return s, true
}
