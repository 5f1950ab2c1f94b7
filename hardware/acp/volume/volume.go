// Package volume contains the bank of curves used by the mixer to shape the
// loudness of a voice. A curve is indexed by a raw waveform sample and the
// value found there is the shaped amplitude. Using a lookup in place of a
// multiplication suits the ACP, which has no multiply instruction.
//
// Each curve scales the distance from the midpoint by a fixed fraction. The
// result is monotonic and symmetrical about the midpoint (within rounding).
package volume

import (
	"fmt"

	"github.com/jetsetilly/acpmix/hardware/acp/memory"
)

// Length of a curve. One entry for every possible sample value
const Length = 256

// Count of curves in the bank
const Count = 4

// Midpoint is the zero amplitude level
const Midpoint = 0x80

// Slot numbers of the curves. Full is 100% of the input scale and Quietest is
// the most attenuated curve, which is also the default curve for a silent
// voice
const (
	Full = iota
	SevenEighths
	ThreeQuarters
	Quietest
)

// scale of each curve in eighths
var eighths = [Count]int{8, 7, 6, 5}

// Curve is a single loudness curve.
type Curve [Length]uint8

// Bounds of a curve. Min is the value at index 0 and Max the value at index 255
type Bounds struct {
	Min uint8
	Max uint8
}

func (b Bounds) String() string {
	return fmt.Sprintf("%02x-%02x", b.Min, b.Max)
}

var curves [Count]Curve

func init() {
	for n := range Count {
		for i := range Length {
			// integer division truncates towards zero so the curve is
			// symmetrical about the midpoint
			curves[n][i] = uint8(Midpoint + ((i-Midpoint)*eighths[n])/8)
		}
	}
}

// Get returns a copy of the curve in the slot
func Get(slot int) Curve {
	return curves[slot]
}

// Scale returns a description of the curve's output scale. For example, "62.5%"
func Scale(slot int) string {
	if slot < 0 || slot >= Count {
		return "unknown"
	}
	return fmt.Sprintf("%g%%", float64(eighths[slot])*100/8)
}

// DocumentedBounds of the curve in the slot.
func DocumentedBounds(slot int) Bounds {
	switch slot {
	case Full:
		return Bounds{Min: 0x00, Max: 0xff}
	case SevenEighths:
		return Bounds{Min: 0x10, Max: 0xef}
	case ThreeQuarters:
		return Bounds{Min: 0x20, Max: 0xdf}
	case Quietest:
		return Bounds{Min: 0x30, Max: 0xcf}
	}
	panic(fmt.Sprintf("volume: no curve in slot %d", slot))
}

// Address returns the ACP address of the curve slot. This is the value written
// to a voice's volume pointer.
func Address(slot int) uint16 {
	return memory.CurvesOrigin + uint16(slot)*Length
}

// SlotOf is the inverse of Address.
func SlotOf(address uint16) (int, bool) {
	if address < memory.CurvesOrigin || address > memory.CurvesMemtop || address%Length != 0 {
		return 0, false
	}
	return int(address-memory.CurvesOrigin) / Length, true
}

// Install writes the bank of curves into the curve region.
func Install(mem *memory.Memory) {
	for n, c := range curves {
		a := Address(n)
		for i, v := range c {
			mem.Write(a+uint16(i), v)
		}
	}
}

// Place writes the bank of curves into a raw image of ACP memory.
func Place(img []uint8) {
	for n, c := range curves {
		copy(img[Address(n):], c[:])
	}
}
