package memory

import (
	"errors"
	"fmt"
)

// The main CPU sees ACP RAM through a window in its own address space
const (
	HostOrigin = 0x3000
	HostMemtop = HostOrigin + Size - 1
)

// UnmappedAddress is returned by the Host type when the CPU address is not in
// the ACP window.
var UnmappedAddress = errors.New("unmapped address")

// Host is the view of ACP RAM from the main CPU. Game logic writes voice
// fields through this view with ordinary stores.
type Host struct {
	mem *Memory
}

// NewHost creates a Host view of ACP memory.
func NewHost(mem *Memory) Host {
	return Host{mem: mem}
}

func (h Host) Label() string {
	return "ACP"
}

// MapAddress returns the ACP address for a CPU address.
func (h Host) MapAddress(address uint16) (uint16, bool) {
	if address >= HostOrigin && address <= HostMemtop {
		return address - HostOrigin, true
	}
	return 0, false
}

// Read a byte through the host window.
func (h Host) Read(address uint16) (uint8, error) {
	idx, ok := h.MapAddress(address)
	if !ok {
		return 0, fmt.Errorf("host read: %w: %04x", UnmappedAddress, address)
	}
	return h.mem.Read(idx), nil
}

// Write a byte through the host window.
func (h Host) Write(address uint16, data uint8) error {
	idx, ok := h.MapAddress(address)
	if !ok {
		return fmt.Errorf("host write: %w: %04x", UnmappedAddress, address)
	}
	h.mem.Write(idx, data)
	return nil
}
