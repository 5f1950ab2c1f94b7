// Package voice implements the bank of voice records in ACP memory. Records
// are written by game logic running on the main CPU and read by the mixer once
// per tick.
//
// A record is nine bytes. Multi-byte fields are little-endian:
//
//	+0 phase lo      +1 phase hi
//	+2 freq lo       +3 freq hi
//	+4 wave ptr lo   +5 wave ptr hi
//	+6 vol ptr lo    +7 vol ptr hi
//	+8 shift
//
// There is no synchronisation between writer and mixer. Fields are written one
// byte at a time and the mixer may see a record part way through an update.
package voice

import (
	"fmt"

	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
)

// RecordSize is the number of bytes in a voice record
const RecordSize = 9

// Slots is the number of voice records in the bank
const Slots = 7

// Offsets of the fields in a voice record
const (
	PhaseOffset   = 0
	FreqOffset    = 2
	WavePtrOffset = 4
	VolPtrOffset  = 6
	ShiftOffset   = 8
)

// Voice is a decoded voice record.
type Voice struct {
	Phase   uint16
	Freq    uint16
	WavePtr uint16
	VolPtr  uint16
	Shift   uint8
}

// Silent is the default record for every slot at boot: the neutral waveform,
// the most attenuated curve and a silencing shift value.
var Silent = Voice{
	WavePtr: wavetable.Address(wavetable.Neutral),
	VolPtr:  volume.Address(volume.Quietest),
	Shift:   volume.SilenceShift,
}

// IsSilent returns true if the shift value is the silence sentinel.
func (v Voice) IsSilent() bool {
	return v.Shift >= volume.SilenceShift
}

func (v Voice) String() string {
	wave := fmt.Sprintf("%04x", v.WavePtr)
	if n, ok := wavetable.SlotOf(v.WavePtr); ok {
		wave = wavetable.Name(n)
	}

	vol := fmt.Sprintf("%04x", v.VolPtr)
	if n, ok := volume.SlotOf(v.VolPtr); ok {
		vol = volume.Scale(n)
	}

	if v.IsSilent() {
		return fmt.Sprintf("phase=%04x freq=%04x wave=%s vol=%s silent", v.Phase, v.Freq, wave, vol)
	}
	return fmt.Sprintf("phase=%04x freq=%04x wave=%s vol=%s shift=%d", v.Phase, v.Freq, wave, vol, v.Shift)
}

// Encode the voice as a record.
func Encode(v Voice) [RecordSize]uint8 {
	return [RecordSize]uint8{
		uint8(v.Phase), uint8(v.Phase >> 8),
		uint8(v.Freq), uint8(v.Freq >> 8),
		uint8(v.WavePtr), uint8(v.WavePtr >> 8),
		uint8(v.VolPtr), uint8(v.VolPtr >> 8),
		v.Shift,
	}
}

// Decode a record.
func Decode(r [RecordSize]uint8) Voice {
	return Voice{
		Phase:   uint16(r[1])<<8 | uint16(r[0]),
		Freq:    uint16(r[3])<<8 | uint16(r[2]),
		WavePtr: uint16(r[5])<<8 | uint16(r[4]),
		VolPtr:  uint16(r[7])<<8 | uint16(r[6]),
		Shift:   r[8],
	}
}

// Address returns the ACP address of the record in the slot.
func Address(slot int) uint16 {
	return memory.VoiceOrigin + uint16(slot*RecordSize)
}

// Place writes the default silent record for every slot into a raw image of
// ACP memory.
func Place(img []uint8) {
	r := Encode(Silent)
	for i := range Slots {
		copy(img[Address(i):], r[:])
	}
}
