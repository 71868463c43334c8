package changes

import (
	"errors"
	"fmt"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func fineFlags() []BitMask {
	var out []BitMask
	for d := Domain(0); d < domainCount; d++ {
		for _, e := range registry[d] {
			if !e.coarse {
				out = append(out, e.mask)
			}
		}
	}
	return out
}

func TestTaxonomy_Layout(t *testing.T) {
	t.Run("Flags Are Domain Plus One Slot", func(t *testing.T) {
		for _, f := range fineFlags() {
			require.Equal(t, 2, bits.OnesCount64(uint64(f)), f.String())
			require.Len(t, f.Domains(), 1, f.String())
			require.Equal(t, 1, bits.OnesCount64(uint64(f.Slots())), f.String())
			require.Zero(t, f&1, "bit 0 is never used")
		}
	})

	t.Run("Flags Never Collide", func(t *testing.T) {
		seen := map[BitMask]string{}
		for _, f := range fineFlags() {
			name, ok := Name(f)
			require.True(t, ok)
			prev, dup := seen[f]
			require.False(t, dup, "%s collides with %s", name, prev)
			seen[f] = name
		}
	})

	t.Run("Domain Bits Are Disjoint", func(t *testing.T) {
		var all BitMask
		for d := Domain(0); d < domainCount; d++ {
			require.Zero(t, all&d.Bit())
			require.GreaterOrEqual(t, bits.TrailingZeros64(uint64(d.Bit())), 57)
			all |= d.Bit()
		}
		require.Equal(t, domainMask, all)
		require.Zero(t, domainMask&slotMask)
	})

	t.Run("Coarse Masks Are Unions", func(t *testing.T) {
		for d := Domain(0); d < domainCount; d++ {
			var union BitMask
			var all BitMask
			for _, e := range registry[d] {
				if !e.coarse {
					union |= e.mask
				} else if e.name == "All" {
					all = e.mask
				}
			}
			require.Equal(t, union, all, d.String())
		}
	})

	t.Run("Flag Builder", func(t *testing.T) {
		require.Equal(t, SpatialWorldPosition, Flag(DomainSpatial, slotWorldPosition))
		require.Equal(t, None, Flag(DomainSpatial, 0))
		require.Equal(t, None, Flag(DomainSpatial, MaxSlot+1))
		require.Equal(t, None, Flag(domainCount, 1))
	})
}

func TestTaxonomy_Filtering(t *testing.T) {
	interest := SpatialWorldPosition | SpatialWorldRotation
	posted := SpatialWorldPosition | SpatialWorldScale
	require.Equal(t, SpatialWorldPosition, interest&posted)

	require.True(t, SpatialAllWorld.Has(SpatialWorldTransform))
	require.False(t, SpatialAllWorld.Has(SpatialLocalPosition))
	require.False(t, None.Has(None))
}

func TestTaxonomy_CrossDomainOverlap(t *testing.T) {
	// Domains share the slot range, so flags from different domains meet on slot bits.
	require.True(t, AudioAll.Any(SpatialAll))
	require.Equal(t, None, (AudioAll&SpatialAll)&domainMask)

	overlap := AudioVolume & GraphicsAll
	require.NotEqual(t, None, overlap)
	require.Equal(t, AudioVolume.Slots(), overlap)
	require.Empty(t, overlap.Domains())

	require.False(t, overlap.Has(GraphicsLightColor))
	require.False(t, overlap.Has(AudioVolume))

	require.Equal(t, fmt.Sprintf("Slots{%#x}", uint64(overlap)), overlap.String())
}

func TestTaxonomy_Names(t *testing.T) {
	m, err := Parse("Spatial.WorldPosition")
	require.NoError(t, err)
	require.Equal(t, SpatialWorldPosition, m)

	m, err = Parse(" graphics.alllighting ")
	require.NoError(t, err)
	require.Equal(t, GraphicsAllLighting, m)

	_, err = Parse("Spatial.Nope")
	require.True(t, errors.Is(err, ErrUnknownChange))
	_, err = Parse("NoDomain")
	require.True(t, errors.Is(err, ErrUnknownChange))

	m, err = ParseList([]string{"Audio.Volume", "Audio.Pitch"})
	require.NoError(t, err)
	require.Equal(t, AudioVolume|AudioPitch, m)

	require.Equal(t, "None", None.String())
	require.Equal(t, "Spatial{WorldPosition|WorldScale}", (SpatialWorldPosition | SpatialWorldScale).String())
}
