package observer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"cogentcore.org/core/math32"

	"github.com/zeusync/changebus/internal/core/changes"
	"github.com/zeusync/changebus/internal/core/spatial/types"
	"github.com/zeusync/changebus/pkg/generic"
)

// ObserverData is a snapshot of one attached observer.
type ObserverData struct {
	Handle   Handle
	Interest changes.BitMask
	ID       uint32
}

type observerEntry struct {
	handle   Handle
	interest atomic.Uint64
	id       uint32
	detached atomic.Bool
}

var snapshotPool = generic.NewResetPool(
	func() *[]*observerEntry {
		s := make([]*observerEntry, 0, 8)
		return &s
	},
	func(s *[]*observerEntry) *[]*observerEntry {
		clear(*s)
		*s = (*s)[:0]
		return s
	},
)

// Subject owns the observer list of one changeable object.
//
// The list is guarded by a read-write lock: Attach and Detach take the write
// lock, PostChanges and UpdateInterestBits the read lock. Notifications are
// delivered outside the lock on the caller goroutine, so an observer may
// detach itself from within OnChange. An observer detached while a
// PostChanges is in flight may still receive that one notification.
type Subject struct {
	name     string
	source   Source
	registry *Registry

	mu        sync.RWMutex
	entries   []*observerEntry
	destroyed bool
}

// NewSubject creates a subject whose observers are resolved through registry.
// source answers the typed getters and may be nil.
func NewSubject(name string, registry *Registry, source Source) *Subject {
	return &Subject{
		name:     name,
		source:   source,
		registry: registry,
	}
}

// Name returns the subject name given at construction.
func (s *Subject) Name() string {
	return s.name
}

// Attach registers the observer behind h with the given interest mask and id.
// Each observer may be attached at most once.
func (s *Subject) Attach(h Handle, interest changes.BitMask, id uint32) error {
	if !s.registry.Alive(h) {
		return fmt.Errorf("attach %s to %q: %w", h, s.name, ErrStaleHandle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return fmt.Errorf("attach %s to %q: %w", h, s.name, ErrSubjectDestroyed)
	}
	if s.indexLocked(h) >= 0 {
		return fmt.Errorf("attach %s to %q: %w", h, s.name, ErrDuplicateAttach)
	}

	e := &observerEntry{handle: h, id: id}
	e.interest.Store(uint64(interest))
	s.entries = append(s.entries, e)
	return nil
}

// Detach removes the observer behind h. The order of the remaining observers is kept.
func (s *Subject) Detach(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(h)
	if i < 0 {
		return ErrNotFound
	}
	s.entries[i].detached.Store(true)
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

// UpdateInterestBits ORs bits into the interest mask of an attached observer.
// Concurrent calls for the same observer never lose an update.
func (s *Subject) UpdateInterestBits(h Handle, bits changes.BitMask) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(h)
	if i < 0 {
		return ErrNotFound
	}

	e := s.entries[i]
	for {
		old := e.interest.Load()
		if e.interest.CompareAndSwap(old, old|uint64(bits)) {
			return nil
		}
	}
}

// Interest returns the current interest mask of an attached observer.
func (s *Subject) Interest(h Handle) (changes.BitMask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(h)
	if i < 0 {
		return changes.None, ErrNotFound
	}
	return changes.BitMask(s.entries[i].interest.Load()), nil
}

// ID returns the id given to Attach, or InvalidID.
func (s *Subject) ID(h Handle) uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(h)
	if i < 0 {
		return InvalidID
	}
	return s.entries[i].id
}

// Len returns the number of attached observers.
func (s *Subject) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Observers returns a snapshot of the observer list in attach order.
func (s *Subject) Observers() []ObserverData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ObserverData, len(s.entries))
	for i, e := range s.entries {
		out[i] = ObserverData{
			Handle:   e.handle,
			Interest: changes.BitMask(e.interest.Load()),
			ID:       e.id,
		}
	}
	return out
}

// PostChanges notifies, in attach order, every observer whose interest
// intersects changed, passing only the intersection. Observers whose handle
// has been released are dropped from the list and reported in the returned
// error; the remaining observers are still notified.
func (s *Subject) PostChanges(changed changes.BitMask) error {
	if changed == changes.None {
		return nil
	}

	buf := snapshotPool.Get()
	defer snapshotPool.Put(buf)

	s.mu.RLock()
	*buf = append(*buf, s.entries...)
	s.mu.RUnlock()

	var (
		stale []*observerEntry
		all   error
	)
	for _, e := range *buf {
		masked := changes.BitMask(e.interest.Load()) & changed
		if masked == changes.None || e.detached.Load() {
			continue
		}
		o, err := s.registry.Resolve(e.handle)
		if err != nil {
			stale = append(stale, e)
			all = errors.Join(all, fmt.Errorf("post to %q: %w", s.name, err))
			continue
		}
		o.OnChange(s, masked)
	}

	if len(stale) > 0 {
		s.prune(stale)
	}
	return all
}

// PreDestruct tells every attached observer, once, that the subject is going
// away by passing changes.None, and empties the list. Later calls do nothing
// and later Attach calls fail with ErrSubjectDestroyed.
func (s *Subject) PreDestruct() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	entries := s.entries
	s.entries = nil
	s.mu.Unlock()

	for _, e := range entries {
		e.detached.Store(true)
		o, err := s.registry.Resolve(e.handle)
		if err != nil {
			continue
		}
		o.OnChange(s, changes.None)
	}
}

// Destroyed reports whether PreDestruct has run.
func (s *Subject) Destroyed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destroyed
}

// Get returns the source value for bits, or Null when the subject has no source.
func (s *Subject) Get(bits changes.BitMask) Value {
	if s.source == nil {
		return Null
	}
	return s.source.Get(bits)
}

func (s *Subject) GetBool(bits changes.BitMask) bool           { return s.Get(bits).AsBool() }
func (s *Subject) GetInt(bits changes.BitMask) int64           { return s.Get(bits).AsInt() }
func (s *Subject) GetFloat(bits changes.BitMask) float32       { return s.Get(bits).AsFloat() }
func (s *Subject) GetString(bits changes.BitMask) string       { return s.Get(bits).AsString() }
func (s *Subject) GetVec3(bits changes.BitMask) math32.Vector3 { return s.Get(bits).AsVec3() }
func (s *Subject) GetVec4(bits changes.BitMask) math32.Vector4 { return s.Get(bits).AsVec4() }
func (s *Subject) GetQuat(bits changes.BitMask) math32.Quat    { return s.Get(bits).AsQuat() }
func (s *Subject) GetMat4(bits changes.BitMask) math32.Matrix4 { return s.Get(bits).AsMat4() }

func (s *Subject) GetSpatialData(bits changes.BitMask) types.SpatialData {
	return s.Get(bits).AsSpatialData()
}

func (s *Subject) GetSpatialTransformData(bits changes.BitMask) types.SpatialTransformData {
	return s.Get(bits).AsSpatialTransformData()
}

func (s *Subject) indexLocked(h Handle) int {
	for i, e := range s.entries {
		if e.handle == h {
			return i
		}
	}
	return -1
}

func (s *Subject) prune(stale []*observerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		drop := false
		for _, st := range stale {
			if e == st {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, e)
		}
	}
	clear(s.entries[len(kept):])
	s.entries = kept
}
