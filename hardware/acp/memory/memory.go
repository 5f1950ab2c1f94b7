package memory

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
)

// Size of the ACP RAM in bytes. The RAM is mirrored throughout the 16bit
// address space of the ACP
const Size = 0x1000

// Mask is applied to an ACP address to find the location in RAM
const Mask = Size - 1

// Memory is the RAM of the audio coprocessor. It is shared between the ACP and
// the main CPU, which can write to it at any time.
//
// Every byte is stored separately and accessed atomically. There is no lock
// and no guarantee that a multi-byte value is read consistently. A reader may
// see a value that is half written by the host; this is accepted and the
// effect lasts for no more than one tick of the mixer.
type Memory struct {
	label string
	data  [Size]atomic.Uint32
}

// Create a new instance of ACP RAM. All bytes are zero.
func Create(label string) *Memory {
	return &Memory{
		label: label,
	}
}

// Reset clears RAM or fills it with random values. Random values are a better
// representation of RAM at power on.
func (mem *Memory) Reset(random bool) {
	for i := range mem.data {
		if random {
			mem.data[i].Store(uint32(rand.IntN(256)))
		} else {
			mem.data[i].Store(0)
		}
	}
}

func (mem *Memory) Label() string {
	return mem.label
}

// Read a byte from an ACP address
func (mem *Memory) Read(address uint16) uint8 {
	return uint8(mem.data[address&Mask].Load())
}

// Write a byte to an ACP address
func (mem *Memory) Write(address uint16, data uint8) {
	mem.data[address&Mask].Store(uint32(data))
}

// Read16 reads a little-endian word. The two bytes are read separately and so
// the result can be torn if the word is being written concurrently.
func (mem *Memory) Read16(address uint16) uint16 {
	lo := mem.Read(address)
	hi := mem.Read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a little-endian word, low byte first.
func (mem *Memory) Write16(address uint16, data uint16) {
	mem.Write(address, uint8(data))
	mem.Write(address+1, uint8(data>>8))
}

// Load copies data into RAM starting at ACP address zero. Data longer than the
// size of RAM is an error.
func (mem *Memory) Load(data []uint8) error {
	if len(data) > Size {
		return fmt.Errorf("memory: load: data too large (%d bytes)", len(data))
	}
	for i, d := range data {
		mem.data[i].Store(uint32(d))
	}
	return nil
}

// Snapshot returns a copy of RAM.
func (mem *Memory) Snapshot() []uint8 {
	s := make([]uint8, Size)
	for i := range mem.data {
		s[i] = uint8(mem.data[i].Load())
	}
	return s
}

// Dump returns a hex dump of the specified address range (inclusive).
func (mem *Memory) Dump(from uint16, to uint16) string {
	var s strings.Builder
	from &= Mask
	to &= Mask
	for j := from &^ 0x0f; j <= to; j += 16 {
		s.WriteString(fmt.Sprintf("%04x :", j))
		for i := j; i < j+16; i++ {
			if i < from || i > to {
				s.WriteString("   ")
			} else {
				s.WriteString(fmt.Sprintf(" %02x", mem.Read(i)))
			}
		}
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

func (mem *Memory) String() string {
	return mem.Dump(0, Size-1)
}
