package observer

import (
	"errors"
	"sync"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/changebus/internal/core/changes"
	"github.com/zeusync/changebus/internal/core/spatial/types"
)

type call struct {
	name    string
	subject *Subject
	changed changes.BitMask
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) observer(name string) Observer {
	return ObserverFunc(func(s *Subject, changed changes.BitMask) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, call{name: name, subject: s, changed: changed})
	})
}

func (r *recorder) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func TestSubject_PostChanges(t *testing.T) {
	t.Run("Masks Notification To Interest", func(t *testing.T) {
		reg := NewRegistry()
		rec := &recorder{}
		s := NewSubject("object", reg, nil)
		h := reg.Register(rec.observer("o"))

		require.NoError(t, s.Attach(h, changes.SpatialWorldPosition|changes.SpatialWorldRotation, 1))
		require.NoError(t, s.PostChanges(changes.SpatialWorldPosition|changes.SpatialWorldScale))

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		require.Equal(t, changes.SpatialWorldPosition, calls[0].changed)
		require.Same(t, s, calls[0].subject)
	})

	t.Run("Visits Observers In Attach Order", func(t *testing.T) {
		reg := NewRegistry()
		rec := &recorder{}
		s := NewSubject("light", reg, nil)
		first := reg.Register(rec.observer("first"))
		second := reg.Register(rec.observer("second"))

		require.NoError(t, s.Attach(first, changes.GraphicsLightColor, 1))
		require.NoError(t, s.Attach(second, changes.GraphicsLightIntensity, 2))
		require.NoError(t, s.PostChanges(changes.GraphicsLightColor|changes.GraphicsLightIntensity))

		calls := rec.snapshot()
		require.Len(t, calls, 2)
		require.Equal(t, "first", calls[0].name)
		require.Equal(t, changes.GraphicsLightColor, calls[0].changed)
		require.Equal(t, "second", calls[1].name)
		require.Equal(t, changes.GraphicsLightIntensity, calls[1].changed)
	})

	t.Run("Skips Observers Without Intersection", func(t *testing.T) {
		reg := NewRegistry()
		rec := &recorder{}
		s := NewSubject("sound", reg, nil)
		require.NoError(t, s.Attach(reg.Register(rec.observer("audio")), changes.AudioAll, 0))
		require.NoError(t, s.Attach(reg.Register(rec.observer("gfx")), changes.GraphicsLightIntensity, 0))

		require.NoError(t, s.PostChanges(changes.AudioVolume))
		require.NoError(t, s.PostChanges(changes.None))

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		require.Equal(t, "audio", calls[0].name)
		require.Equal(t, changes.AudioVolume, calls[0].changed)
	})

	t.Run("Shared Slot Wakes Other Domain", func(t *testing.T) {
		reg := NewRegistry()
		rec := &recorder{}
		s := NewSubject("sound", reg, nil)
		require.NoError(t, s.Attach(reg.Register(rec.observer("audio")), changes.AudioAll, 0))
		require.NoError(t, s.Attach(reg.Register(rec.observer("gfx")), changes.GraphicsAll, 0))

		require.NoError(t, s.PostChanges(changes.AudioVolume))

		calls := rec.snapshot()
		require.Len(t, calls, 2)
		require.Equal(t, "audio", calls[0].name)
		require.Equal(t, changes.AudioVolume, calls[0].changed)

		// GraphicsLightColor uses the same slot as AudioVolume.
		require.Equal(t, "gfx", calls[1].name)
		require.Equal(t, changes.AudioVolume.Slots(), calls[1].changed)
		require.Empty(t, calls[1].changed.Domains())
		require.False(t, calls[1].changed.Has(changes.GraphicsLightColor))
	})

	t.Run("Exactly Intersecting Observers Are Called", func(t *testing.T) {
		reg := NewRegistry()
		rec := &recorder{}
		s := NewSubject("object", reg, nil)
		interests := []changes.BitMask{
			changes.SpatialWorldPosition,
			changes.SpatialAllLocal,
			changes.AudioPitch,
			changes.ScriptAll,
			changes.SpatialAll | changes.GraphicsAll,
		}
		for i, in := range interests {
			require.NoError(t, s.Attach(reg.Register(rec.observer(string(rune('a'+i)))), in, uint32(i)))
		}

		posted := changes.SpatialWorldPosition | changes.SpatialLocalScale
		require.NoError(t, s.PostChanges(posted))

		var want []changes.BitMask
		for _, in := range interests {
			if in&posted != 0 {
				want = append(want, in&posted)
			}
		}
		calls := rec.snapshot()
		require.Len(t, calls, len(want))
		for i, c := range calls {
			require.Equal(t, want[i], c.changed)
		}
	})

	t.Run("Observer May Detach Itself", func(t *testing.T) {
		reg := NewRegistry()
		s := NewSubject("object", reg, nil)
		var h Handle
		calls := 0
		h = reg.Register(ObserverFunc(func(sub *Subject, _ changes.BitMask) {
			calls++
			require.NoError(t, sub.Detach(h))
		}))
		require.NoError(t, s.Attach(h, changes.GenericAll, 0))

		require.NoError(t, s.PostChanges(changes.GenericActive))
		require.NoError(t, s.PostChanges(changes.GenericActive))
		require.Equal(t, 1, calls)
		require.Zero(t, s.Len())
	})

	t.Run("Stale Observer Is Reported And Pruned", func(t *testing.T) {
		reg := NewRegistry()
		rec := &recorder{}
		s := NewSubject("object", reg, nil)
		gone := reg.Register(rec.observer("gone"))
		live := reg.Register(rec.observer("live"))
		require.NoError(t, s.Attach(gone, changes.GenericAll, 1))
		require.NoError(t, s.Attach(live, changes.GenericAll, 2))
		require.NoError(t, reg.Release(gone))

		err := s.PostChanges(changes.GenericName)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrStaleHandle))

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		require.Equal(t, "live", calls[0].name)
		require.Equal(t, 1, s.Len())
		require.Equal(t, InvalidID, s.ID(gone))

		require.NoError(t, s.PostChanges(changes.GenericName))
	})
}

func TestSubject_AttachDetach(t *testing.T) {
	t.Run("Duplicate Attach", func(t *testing.T) {
		reg := NewRegistry()
		s := NewSubject("object", reg, nil)
		h := reg.Register(ObserverFunc(func(*Subject, changes.BitMask) {}))

		require.NoError(t, s.Attach(h, changes.AudioAll, 3))
		err := s.Attach(h, changes.GraphicsAll, 4)
		require.True(t, errors.Is(err, ErrDuplicateAttach))
		require.Equal(t, 1, s.Len())
		require.Equal(t, uint32(3), s.ID(h))
	})

	t.Run("Attach Stale Handle", func(t *testing.T) {
		reg := NewRegistry()
		s := NewSubject("object", reg, nil)
		h := reg.Register(ObserverFunc(func(*Subject, changes.BitMask) {}))
		require.NoError(t, reg.Release(h))

		require.True(t, errors.Is(s.Attach(h, changes.AudioAll, 0), ErrStaleHandle))
		require.True(t, errors.Is(s.Attach(Handle{}, changes.AudioAll, 0), ErrStaleHandle))
	})

	t.Run("Detach Unknown Leaves List Unchanged", func(t *testing.T) {
		reg := NewRegistry()
		s := NewSubject("object", reg, nil)
		a := reg.Register(ObserverFunc(func(*Subject, changes.BitMask) {}))
		b := reg.Register(ObserverFunc(func(*Subject, changes.BitMask) {}))
		require.NoError(t, s.Attach(a, changes.AudioVolume, 1))
		before := s.Observers()

		require.ErrorIs(t, s.Detach(b), ErrNotFound)
		require.Equal(t, before, s.Observers())
	})

	t.Run("Detach Keeps Order", func(t *testing.T) {
		reg := NewRegistry()
		s := NewSubject("object", reg, nil)
		var hs []Handle
		for i := 0; i < 4; i++ {
			h := reg.Register(ObserverFunc(func(*Subject, changes.BitMask) {}))
			require.NoError(t, s.Attach(h, changes.GUIAll, uint32(i)))
			hs = append(hs, h)
		}

		require.NoError(t, s.Detach(hs[1]))
		obs := s.Observers()
		require.Len(t, obs, 3)
		require.Equal(t, []uint32{0, 2, 3}, []uint32{obs[0].ID, obs[1].ID, obs[2].ID})
		require.Equal(t, InvalidID, s.ID(hs[1]))
	})
}

func TestSubject_UpdateInterestBits(t *testing.T) {
	t.Run("Merges Bits", func(t *testing.T) {
		reg := NewRegistry()
		s := NewSubject("object", reg, nil)
		h := reg.Register(ObserverFunc(func(*Subject, changes.BitMask) {}))
		require.NoError(t, s.Attach(h, changes.AudioVolume, 0))

		require.NoError(t, s.UpdateInterestBits(h, changes.AudioPitch))
		in, err := s.Interest(h)
		require.NoError(t, err)
		require.Equal(t, changes.AudioVolume|changes.AudioPitch, in)
	})

	t.Run("Unknown Observer", func(t *testing.T) {
		reg := NewRegistry()
		s := NewSubject("object", reg, nil)
		h := reg.Register(ObserverFunc(func(*Subject, changes.BitMask) {}))

		require.ErrorIs(t, s.UpdateInterestBits(h, changes.AudioPitch), ErrNotFound)
		_, err := s.Interest(h)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Concurrent Updates Lose Nothing", func(t *testing.T) {
		reg := NewRegistry()
		s := NewSubject("object", reg, nil)
		h := reg.Register(ObserverFunc(func(*Subject, changes.BitMask) {}))
		require.NoError(t, s.Attach(h, changes.None, 0))

		var g errgroup.Group
		for _, bits := range []changes.BitMask{changes.SpatialAllLocal, changes.AudioAll} {
			g.Go(func() error {
				for i := 0; i < 1000; i++ {
					if err := s.UpdateInterestBits(h, bits); err != nil {
						return err
					}
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		in, err := s.Interest(h)
		require.NoError(t, err)
		require.Equal(t, changes.SpatialAllLocal|changes.AudioAll, in)
	})

	t.Run("Concurrent Updates And Posts", func(t *testing.T) {
		reg := NewRegistry()
		rec := &recorder{}
		s := NewSubject("object", reg, nil)
		h := reg.Register(rec.observer("o"))
		require.NoError(t, s.Attach(h, changes.GenericActive, 0))

		var g errgroup.Group
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				if err := s.PostChanges(changes.GenericActive); err != nil {
					return err
				}
			}
			return nil
		})
		g.Go(func() error {
			return s.UpdateInterestBits(h, changes.GenericName)
		})
		require.NoError(t, g.Wait())
		require.Len(t, rec.snapshot(), 500)
	})
}

func TestSubject_PreDestruct(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{}
	s := NewSubject("object", reg, nil)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Attach(reg.Register(rec.observer(name)), changes.SpatialAll, 0))
	}

	s.PreDestruct()
	s.PreDestruct()

	calls := rec.snapshot()
	require.Len(t, calls, 3)
	for _, c := range calls {
		require.Equal(t, changes.None, c.changed)
	}
	require.Zero(t, s.Len())
	require.True(t, s.Destroyed())

	h := reg.Register(rec.observer("late"))
	require.ErrorIs(t, s.Attach(h, changes.SpatialAll, 0), ErrSubjectDestroyed)
	require.NoError(t, s.PostChanges(changes.SpatialAll))
	require.Len(t, rec.snapshot(), 3)
}

func TestSubject_Getters(t *testing.T) {
	t.Run("Without Source", func(t *testing.T) {
		s := NewSubject("empty", NewRegistry(), nil)

		require.True(t, s.Get(changes.AudioVolume).IsNull())
		require.False(t, s.GetBool(changes.GenericActive))
		require.Zero(t, s.GetInt(changes.AudioLoop))
		require.Zero(t, s.GetFloat(changes.AudioVolume))
		require.Empty(t, s.GetString(changes.GenericName))
		require.Equal(t, math32.Vector3{}, s.GetVec3(changes.SpatialWorldPosition))
		require.Equal(t, math32.Vector4{}, s.GetVec4(changes.SpatialWorldRotationQuat))
		require.Equal(t, types.IdentityQuat(), s.GetQuat(changes.SpatialWorldRotationQuat))
		require.Equal(t, types.IdentityMatrix(), s.GetMat4(changes.SpatialWorldTransform))
		require.Equal(t, types.NewSpatialData(), s.GetSpatialData(changes.SpatialAllWorld))
		require.Equal(t, types.NewSpatialTransformData(), s.GetSpatialTransformData(changes.SpatialAllWorld))
	})

	t.Run("With Source", func(t *testing.T) {
		src := SourceFunc(func(bits changes.BitMask) Value {
			switch bits {
			case changes.GenericName:
				return StringValue("crate")
			case changes.AudioVolume:
				return FloatValue(0.5)
			case changes.SpatialLocalPosition:
				return Vec3Value(math32.Vec3(1, 2, 3))
			}
			return Null
		})
		s := NewSubject("crate", NewRegistry(), src)

		require.Equal(t, "crate", s.GetString(changes.GenericName))
		require.Equal(t, float32(0.5), s.GetFloat(changes.AudioVolume))
		require.Equal(t, math32.Vec3(1, 2, 3), s.GetVec3(changes.SpatialLocalPosition))
		require.Equal(t, "", s.GetString(changes.AudioVolume))
	})
}
