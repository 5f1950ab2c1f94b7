// Package wavetable contains the bank of waveforms sampled by the mixer. Each
// waveform is a single cycle of 256 unsigned samples, one for every value of
// the high byte of a voice's phase accumulator. The value Midpoint is the
// zero level of the waveform.
package wavetable

import (
	"fmt"
	"math"

	"github.com/jetsetilly/acpmix/hardware/acp/memory"
)

// Length of a single waveform
const Length = 256

// Count of waveform slots in the bank
const Count = 6

// Midpoint is the sample value that represents zero amplitude
const Midpoint = 0x80

// Table is a single cycle waveform
type Table [Length]uint8

// Slot numbers of the built-in waveforms
const (
	Sine = iota
	Triangle
	Ramp
	Square
	Pulse
	Neutral
)

var names = [Count]string{"sine", "triangle", "ramp", "square", "pulse", "neutral"}

// Name returns the name of the built-in waveform in the slot.
func Name(slot int) string {
	if slot < 0 || slot >= Count {
		return "unknown"
	}
	return names[slot]
}

// Address returns the ACP address of the waveform slot. This is the value
// that is written to a voice's wave pointer.
func Address(slot int) uint16 {
	return memory.WavetablesOrigin + uint16(slot)*Length
}

// SlotOf is the inverse of Address. Returns false if the address is not the
// start of a waveform slot.
func SlotOf(address uint16) (int, bool) {
	if address < memory.WavetablesOrigin || address > memory.WavetablesMemtop || address%Length != 0 {
		return 0, false
	}
	return int(address-memory.WavetablesOrigin) / Length, true
}

var builtin [Count]Table

func init() {
	for i := range Length {
		x := float64(i) / Length

		builtin[Sine][i] = uint8(math.Round(Midpoint + 127*math.Sin(2*math.Pi*x)))

		// triangle starts at the midpoint and rises first so that it is in
		// phase with the sine
		switch {
		case i < 64:
			builtin[Triangle][i] = uint8(Midpoint + i*2)
		case i < 192:
			builtin[Triangle][i] = uint8(Midpoint + 127 - (i-64)*2)
		default:
			builtin[Triangle][i] = uint8(Midpoint - 128 + (i-192)*2)
		}

		builtin[Ramp][i] = uint8(i)

		if i < Length/2 {
			builtin[Square][i] = 0xff
		} else {
			builtin[Square][i] = 0x00
		}

		if i < Length/4 {
			builtin[Pulse][i] = 0xff
		} else {
			builtin[Pulse][i] = 0x00
		}

		builtin[Neutral][i] = Midpoint
	}
}

// Store is the full bank of waveforms. It is fixed once it has been
// installed in ACP memory.
type Store struct {
	tables [Count]Table
}

// NewStore returns a store containing the built-in waveforms.
func NewStore() *Store {
	return &Store{
		tables: builtin,
	}
}

// WithTable replaces the waveform in the slot. Only meaningful before the
// store is installed.
func (st *Store) WithTable(slot int, t Table) error {
	if slot < 0 || slot >= Count {
		return fmt.Errorf("wavetable: slot %d out of range", slot)
	}
	st.tables[slot] = t
	return nil
}

// Table returns a copy of the waveform in the slot.
func (st *Store) Table(slot int) Table {
	return st.tables[slot]
}

// Install writes the bank into the wavetable region.
func (st *Store) Install(mem *memory.Memory) {
	for n, t := range st.tables {
		a := Address(n)
		for i, v := range t {
			mem.Write(a+uint16(i), v)
		}
	}
}

// Place writes the bank into a raw image of ACP memory.
func (st *Store) Place(img []uint8) {
	for n, t := range st.tables {
		copy(img[Address(n):], t[:])
	}
}
