// Package mixer implements the per-tick mixing algorithm of the ACP firmware.
//
// Every tick the mixer visits the voices in slot order. A voice with a silence
// shift value adds SilenceBias to the accumulator and nothing else happens for
// that voice. Otherwise the phase is advanced by the frequency increment and
// the high byte of the new phase indexes the voice's waveform. The sample
// found there indexes the voice's volume curve. The shaped amplitude is
// centred on zero, shifted right (arithmetically) by the shift value,
// re-centred on the midpoint and divided by eight before being added to the
// accumulator.
//
// After the last voice GlobalBias is added and the low eight bits of the
// accumulator are written to the output register.
//
// The two biases keep the output centred on the midpoint however many voices
// are silent. A silent voice contributes exactly what an active voice
// contributes on average and the global bias makes up the difference between
// the sum of the voices and the midpoint.
package mixer

import (
	"fmt"

	"github.com/jetsetilly/acpmix/hardware/acp/voice"
)

// Midpoint of the waveforms, the volume curves and the output
const Midpoint = 0x80

// DivisorShift is the right shift applied to every voice to give headroom
// for the sum of all voices. A voice's contribution is in the range 0 to 31
const DivisorShift = 3

// SilenceBias is the contribution of a silent voice. It is the midpoint
// after the headroom division
const SilenceBias = Midpoint >> DivisorShift

// SilenceShift is the lowest shift value treated as silence
const SilenceShift = 4

// DefaultVoices is the number of voice slots visited by the mixer by default.
// The bank has one more slot than this
const DefaultVoices = 6

// MaxVoices is the number of voices the mixer can visit without the sum of
// all voices exceeding eight bits
const MaxVoices = voice.Slots

// Memory is the mixer's view of ACP memory.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, data uint8)
}

// Output is the register that receives the mixed sample.
type Output interface {
	Write(data uint8)
}

// Mixer holds the fixed configuration of the mixing loop.
type Mixer struct {
	mem Memory
	out Output

	// number of voice slots visited and the global bias that goes with it
	voices     int
	globalBias uint8

	// record address of each visited voice
	records [MaxVoices]uint16
}

// NewMixer creates a mixer that visits the first n voice slots.
func NewMixer(mem Memory, out Output, n int) (*Mixer, error) {
	if n < 1 || n > MaxVoices {
		return nil, fmt.Errorf("mixer: number of voices must be between 1 and %d", MaxVoices)
	}

	mx := &Mixer{
		mem:        mem,
		out:        out,
		voices:     n,
		globalBias: GlobalBias(n),
	}
	for i := range n {
		mx.records[i] = voice.Address(i)
	}
	return mx, nil
}

// GlobalBias returns the value added after the voices have been summed for
// the number of voices being mixed.
func GlobalBias(n int) uint8 {
	return uint8(Midpoint - n*SilenceBias)
}

// Voices returns the number of voice slots visited every tick.
func (mx *Mixer) Voices() int {
	return mx.voices
}

// GlobalBias returns the global bias for the mixer's configuration.
func (mx *Mixer) GlobalBias() uint8 {
	return mx.globalBias
}

func (mx *Mixer) String() string {
	return fmt.Sprintf("voices=%d/%d global bias=%02x", mx.voices, voice.Slots, mx.globalBias)
}

// Attenuate applies the shift to a shaped amplitude. The amplitude is centred
// on zero before the shift so that the result moves towards the midpoint. The
// shift is arithmetic and rounds towards negative infinity.
func Attenuate(amp uint8, shift uint8) uint8 {
	if shift == 0 {
		return amp
	}
	a := int(amp) - Midpoint
	a >>= shift
	return uint8(a + Midpoint)
}

// Tick runs the mixer once and writes the result to the output register. The
// output value is also returned.
func (mx *Mixer) Tick() uint8 {
	var acc uint8

	for _, rec := range mx.records[:mx.voices] {
		shift := mx.mem.Read(rec + voice.ShiftOffset)
		if shift >= SilenceShift {
			acc += SilenceBias
			continue // for loop
		}

		// the mixer is the only writer of phase. the frequency is read a byte at a
		// time and may be torn by the host
		phase := uint16(mx.mem.Read(rec+voice.PhaseOffset+1))<<8 | uint16(mx.mem.Read(rec+voice.PhaseOffset))
		freq := uint16(mx.mem.Read(rec+voice.FreqOffset+1))<<8 | uint16(mx.mem.Read(rec+voice.FreqOffset))
		phase += freq
		mx.mem.Write(rec+voice.PhaseOffset, uint8(phase))
		mx.mem.Write(rec+voice.PhaseOffset+1, uint8(phase>>8))

		wavePtr := uint16(mx.mem.Read(rec+voice.WavePtrOffset+1))<<8 | uint16(mx.mem.Read(rec+voice.WavePtrOffset))
		raw := mx.mem.Read(wavePtr + phase>>8)

		volPtr := uint16(mx.mem.Read(rec+voice.VolPtrOffset+1))<<8 | uint16(mx.mem.Read(rec+voice.VolPtrOffset))
		amp := mx.mem.Read(volPtr + uint16(raw))

		acc += Attenuate(amp, shift) >> DivisorShift
	}

	acc += mx.globalBias
	mx.out.Write(acc)

	return acc
}
