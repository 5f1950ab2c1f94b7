package voice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
)

// ErrSlot is returned when a slot number is outside the bank.
var ErrSlot = errors.New("no such voice slot")

// Bank is the array of voice records in ACP memory.
type Bank struct {
	mem *memory.Memory
}

// NewBank returns the bank of voices in ACP memory. The records are not
// initialised.
func NewBank(mem *memory.Memory) *Bank {
	return &Bank{mem: mem}
}

// Len returns the number of slots in the bank
func (b *Bank) Len() int {
	return Slots
}

// Slot returns the writer for the voice in slot i.
func (b *Bank) Slot(i int) (Slot, error) {
	if i < 0 || i >= Slots {
		return Slot{}, fmt.Errorf("%w: %d", ErrSlot, i)
	}
	return Slot{mem: b.mem, n: i, base: Address(i)}, nil
}

// Read returns the current state of the voice in slot i. The bytes are read
// individually and the result may reflect a write in progress.
func (b *Bank) Read(i int) (Voice, error) {
	s, err := b.Slot(i)
	if err != nil {
		return Voice{}, err
	}
	return s.Read(), nil
}

// Silence every voice. Only the shift field is written.
func (b *Bank) Silence() {
	for i := range Slots {
		b.mem.Write(Address(i)+ShiftOffset, volume.SilenceShift)
	}
}

func (b *Bank) String() string {
	var s strings.Builder
	for i := range Slots {
		v, _ := b.Read(i)
		s.WriteString(fmt.Sprintf("%d: %s\n", i, v.String()))
	}
	return strings.TrimSuffix(s.String(), "\n")
}

// Slot is the writer for a single voice record. Every method results in one or
// more single-byte stores to ACP memory. Nothing is locked.
type Slot struct {
	mem  *memory.Memory
	n    int
	base uint16
}

// Number of the slot in the bank
func (s Slot) Number() int {
	return s.n
}

// Read the record.
func (s Slot) Read() Voice {
	var r [RecordSize]uint8
	for i := range r {
		r[i] = s.mem.Read(s.base + uint16(i))
	}
	return Decode(r)
}

// Write every field of the record except the phase, which belongs to the mixer.
func (s Slot) Write(v Voice) {
	s.SetFrequency(v.Freq)
	s.SetWavetable(v.WavePtr)
	s.SetCurve(v.VolPtr)
	s.SetShift(v.Shift)
}

// SetFrequency sets the phase increment added to the phase accumulator every
// tick.
func (s Slot) SetFrequency(inc uint16) {
	s.mem.Write16(s.base+FreqOffset, inc)
}

// SetNote sets the phase increment for the MIDI note at the sample rate.
func (s Slot) SetNote(note Note, sampleRate float64) {
	s.SetFrequency(Increment(note, sampleRate))
}

// SetWavetable sets the wave pointer. The value should be the address of a
// waveform slot. See wavetable.Address().
func (s Slot) SetWavetable(address uint16) {
	s.mem.Write16(s.base+WavePtrOffset, address)
}

// SetWaveSlot is a convenience wrapper for SetWavetable().
func (s Slot) SetWaveSlot(slot int) error {
	if slot < 0 || slot >= wavetable.Count {
		return fmt.Errorf("wavetable slot %d out of range", slot)
	}
	s.SetWavetable(wavetable.Address(slot))
	return nil
}

// SetCurve sets the volume pointer. The value should be the address of a
// volume curve. See volume.Address().
func (s Slot) SetCurve(address uint16) {
	s.mem.Write16(s.base+VolPtrOffset, address)
}

// SetShift sets the attenuation shift. Values of volume.SilenceShift or more
// silence the voice.
func (s Slot) SetShift(shift uint8) {
	s.mem.Write(s.base+ShiftOffset, shift)
}

// SetVolume sets the curve and shift for one of the linear volume levels.
// Level zero is silence and levels above volume.MaxLevel are clamped.
//
// The curve is written before the shift. When lowering the volume the voice
// may for one tick play with the new curve and the old shift.
func (s Slot) SetVolume(level uint8) {
	l := volume.ForLevel(level)
	s.SetCurve(l.Curve)
	s.SetShift(l.Shift)
}

// Volume returns the volume level for the current curve and shift. A
// combination that does not correspond to a level returns zero.
func (s Slot) Volume() uint8 {
	v := s.Read()
	return volume.LevelOf(v.VolPtr, v.Shift)
}

// Mute silences the voice immediately. Nothing other than the shift is
// changed so unmuting with SetShift() restores the previous sound.
func (s Slot) Mute() {
	s.SetShift(volume.SilenceShift)
}

// ResetPhase zeroes the phase accumulator. This is the only write the host
// makes to the phase and is useful for hard sync effects. If the mixer is
// running at the same moment then the reset may be lost or may be half
// applied.
func (s Slot) ResetPhase() {
	s.mem.Write16(s.base+PhaseOffset, 0)
}
