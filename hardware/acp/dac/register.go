// Package dac implements the output register of the ACP and the path from
// the register to something that can play it back.
//
// The register is a single write-only byte. The mixer writes to it once per
// tick and the DAC samples it continuously. Value() is provided for monitors
// and tests; the firmware never reads the register.
package dac

import (
	"fmt"
	"sync/atomic"
)

// Midpoint is the output value for zero amplitude
const Midpoint = 0x80

// Sink receives every value written to the register.
type Sink interface {
	Sample(v uint8)
}

// Register is the memory-mapped output byte.
type Register struct {
	value  atomic.Uint32
	writes atomic.Uint64

	// sink is set before the tick clock is started
	sink Sink
}

// NewRegister creates an output register. The initial value is the midpoint.
func NewRegister() *Register {
	r := &Register{}
	r.value.Store(Midpoint)
	return r
}

// Attach a sink to the register. Should not be called while the tick clock is
// running.
func (r *Register) Attach(sink Sink) {
	r.sink = sink
}

// Write implements the mixer.Output interface.
func (r *Register) Write(data uint8) {
	r.value.Store(uint32(data))
	r.writes.Add(1)
	if r.sink != nil {
		r.sink.Sample(data)
	}
}

// Value returns the most recently written value.
func (r *Register) Value() uint8 {
	return uint8(r.value.Load())
}

// Writes returns the number of writes since the register was created.
func (r *Register) Writes() uint64 {
	return r.writes.Load()
}

func (r *Register) String() string {
	return fmt.Sprintf("out=%02x writes=%d", r.Value(), r.Writes())
}

// PCM converts a register value to a signed 16bit sample, applying the gain.
// The result is soft clipped.
func PCM(v uint8, gain float64) int16 {
	x := int32(v) - Midpoint
	x <<= 8
	return Clip(int32(float64(x) * gain))
}
