// Package changes defines the 64-bit change taxonomy shared by every subject
// and observer on the bus.
//
// Layout:
//   - bits 57..63 hold one-hot domain discriminators (Generic, Spatial, Audio,
//     Graphics, GUI, Physics, Script);
//   - bits 1..21 are slot bits shared by all domains.
//
// A concrete flag is its domain bit plus one slot bit. Flags of one domain can
// be OR-ed into a single mask, and filtering is one AND plus a zero test.
//
// Filtering is a plain intersection, so it is coarse in two ways:
//   - the domain bit is shared by every flag of a domain, so any two flags of
//     the same domain intersect on it. An observer interested in one Audio flag
//     is woken by any Audio change;
//   - slot bits are shared across domains, so flags of different domains that
//     use the same slot intersect on it. An observer interested in
//     GraphicsAll is woken by AudioVolume and receives the slot-only mask
//     AudioVolume & GraphicsAll.
//
// Observers that care about exact flags test the delivered mask with Has,
// which requires both the domain bit and the slot bit.
package changes

import (
	"fmt"
	"math/bits"
	"strings"
)

// BitMask is a set of change flags.
type BitMask uint64

// None is the empty mask. It is also what observers receive when a subject is destroyed.
const None BitMask = 0

// Domain identifies one of the change domains.
type Domain uint8

const (
	DomainGeneric Domain = iota
	DomainSpatial
	DomainAudio
	DomainGraphics
	DomainGUI
	DomainPhysics
	DomainScript

	domainCount
)

const domainShift = 57

// Domains must fit above domainShift.
var _ [64 - domainShift - int(domainCount)]struct{}

// Slot is a position in the shared slot range.
type Slot uint8

// MaxSlot is the highest slot bit a domain may use.
const MaxSlot Slot = 21

// Domain discriminator bits.
const (
	Generic  BitMask = 1 << (domainShift + BitMask(DomainGeneric))
	Spatial  BitMask = 1 << (domainShift + BitMask(DomainSpatial))
	Audio    BitMask = 1 << (domainShift + BitMask(DomainAudio))
	Graphics BitMask = 1 << (domainShift + BitMask(DomainGraphics))
	GUI      BitMask = 1 << (domainShift + BitMask(DomainGUI))
	Physics  BitMask = 1 << (domainShift + BitMask(DomainPhysics))
	Script   BitMask = 1 << (domainShift + BitMask(DomainScript))

	domainMask = Generic | Spatial | Audio | Graphics | GUI | Physics | Script
	slotMask   = BitMask(1)<<(MaxSlot+1) - 2
)

var domainNames = [domainCount]string{
	DomainGeneric:  "Generic",
	DomainSpatial:  "Spatial",
	DomainAudio:    "Audio",
	DomainGraphics: "Graphics",
	DomainGUI:      "GUI",
	DomainPhysics:  "Physics",
	DomainScript:   "Script",
}

// Bit returns the discriminator bit of the domain.
func (d Domain) Bit() BitMask {
	if d >= domainCount {
		return None
	}
	return 1 << (domainShift + BitMask(d))
}

func (d Domain) String() string {
	if d >= domainCount {
		return "Unknown"
	}
	return domainNames[d]
}

// Flag builds the flag for slot s in domain d. It returns None for slots outside 1..MaxSlot.
func Flag(d Domain, s Slot) BitMask {
	if s == 0 || s > MaxSlot || d >= domainCount {
		return None
	}
	return d.Bit() + 1<<BitMask(s)
}

// Has reports whether every bit of f is set in m.
func (m BitMask) Has(f BitMask) bool {
	return f != None && m&f == f
}

// Any reports whether m and f share at least one bit.
func (m BitMask) Any(f BitMask) bool {
	return m&f != None
}

// Domains returns the domains whose discriminator bit is set, in domain order.
func (m BitMask) Domains() []Domain {
	out := make([]Domain, 0, bits.OnesCount64(uint64(m&domainMask)))
	for d := Domain(0); d < domainCount; d++ {
		if m&d.Bit() != 0 {
			out = append(out, d)
		}
	}
	return out
}

// Slots returns only the shared slot bits of m.
func (m BitMask) Slots() BitMask {
	return m & slotMask
}

// String renders the mask as Domain{Flag|Flag} groups. A mask that carries
// several domains lists, per domain, every known flag whose slot bit is set.
// A mask without any domain bit renders its raw slot bits as Slots{0x..}.
func (m BitMask) String() string {
	if m == None {
		return "None"
	}
	if m&domainMask == None {
		return fmt.Sprintf("Slots{%#x}", uint64(m))
	}
	var b strings.Builder
	for i, d := range m.Domains() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.String())
		b.WriteByte('{')
		first := true
		for _, e := range registry[d] {
			if e.coarse || m&e.mask.Slots() != e.mask.Slots() {
				continue
			}
			if !first {
				b.WriteByte('|')
			}
			b.WriteString(e.name)
			first = false
		}
		b.WriteByte('}')
	}
	return b.String()
}
