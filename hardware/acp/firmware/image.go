package firmware

import (
	"errors"
	"fmt"

	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
)

// Sentinel errors for image parsing
var (
	ErrImageSize = errors.New("firmware image is the wrong size")
	ErrVector    = errors.New("vector does not point into the code region")
)

// Entry points in the code region
const (
	BootEntry = memory.CodeOrigin
	IdleEntry = BootEntry + 5
	TickEntry = memory.CodeOrigin + 0x10
)

// the boot stub. interrupts are disabled and the stack pointer is set. after
// interrupts are enabled the processor waits for an interrupt forever
var bootStub = []uint8{
	0x78,                                   // SEI
	0xa2, 0xff,                             // LDX #$ff
	0x9a,                                   // TXS
	0x58,                                   // CLI
	0xcb,                                   // idle: WAI
	0x4c, IdleEntry & 0xff, IdleEntry >> 8, // JMP idle
}

// the tick handler entry. the mixer runs natively when the tick vector is
// taken; the RTI keeps the image well formed for disassemblers
var tickStub = []uint8{
	0x40, // RTI
}

// Image is the firmware as consumed by the packaging pipeline. It is a
// complete image of ACP memory and is loaded into ACP RAM on reset.
type Image struct {
	data [memory.Size]uint8
}

// Build creates a firmware image using the waveforms in the store. A nil store
// means the built-in waveforms.
func Build(store *wavetable.Store) *Image {
	if store == nil {
		store = wavetable.NewStore()
	}

	img := &Image{}
	voice.Place(img.data[:])
	volume.Place(img.data[:])
	store.Place(img.data[:])
	copy(img.data[BootEntry:], bootStub)
	copy(img.data[TickEntry:], tickStub)

	img.setVector(memory.TickVector, TickEntry)
	img.setVector(memory.ResetVector, BootEntry)

	// the irq/brk vector aliases the tick handler
	img.setVector(memory.IRQVector, TickEntry)

	return img
}

func (img *Image) setVector(vector uint16, address uint16) {
	img.data[vector] = uint8(address)
	img.data[vector+1] = uint8(address >> 8)
}

// Parse a binary image. The vectors are checked.
func Parse(b []uint8) (*Image, error) {
	if len(b) != memory.Size {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageSize, len(b))
	}

	img := &Image{}
	copy(img.data[:], b)

	if err := img.Vectors().Check(); err != nil {
		return nil, err
	}

	return img, nil
}

// Bytes returns a copy of the image.
func (img *Image) Bytes() []uint8 {
	b := make([]uint8, memory.Size)
	copy(b, img.data[:])
	return b
}

// Vectors returns the three vectors in the image.
func (img *Image) Vectors() Vectors {
	word := func(a uint16) uint16 {
		return uint16(img.data[a+1])<<8 | uint16(img.data[a])
	}
	return Vectors{
		Tick:  word(memory.TickVector),
		Reset: word(memory.ResetVector),
		IRQ:   word(memory.IRQVector),
	}
}

// Vectors are the three fixed-position pointers at the top of ACP memory.
type Vectors struct {
	Tick  uint16
	Reset uint16
	IRQ   uint16
}

func (v Vectors) String() string {
	return fmt.Sprintf("tick=%04x reset=%04x irq=%04x", v.Tick, v.Reset, v.IRQ)
}

// Check that all three vectors point into the code region.
func (v Vectors) Check() error {
	inCode := func(a uint16) bool {
		return a >= memory.CodeOrigin && a <= memory.CodeMemtop
	}
	if !inCode(v.Tick) {
		return fmt.Errorf("%w: tick vector %04x", ErrVector, v.Tick)
	}
	if !inCode(v.Reset) {
		return fmt.Errorf("%w: reset vector %04x", ErrVector, v.Reset)
	}
	if !inCode(v.IRQ) {
		return fmt.Errorf("%w: irq vector %04x", ErrVector, v.IRQ)
	}
	return nil
}
