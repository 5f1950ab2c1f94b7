package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/acpmix/hardware/acp/memory"
)

type mappedAddress struct {
	// the address as entered by the user
	address uint16

	// the address in ACP memory
	idx uint16

	// the address was entered in the main CPU's address space
	host bool
}

func (ma mappedAddress) String() string {
	if ma.host {
		return fmt.Sprintf("$%04x (acp $%04x)", ma.address, ma.idx)
	}
	return fmt.Sprintf("$%04x", ma.address)
}

// parseAddress accepts addresses in ACP memory ($0000 to $0fff) or in the
// main CPU window onto ACP memory ($3000 to $3fff)
func (m *debugger) parseAddress(address string) (mappedAddress, error) {
	var ma mappedAddress

	if strings.HasPrefix(address, "$") {
		address = fmt.Sprintf("0x%s", address[1:])
	}

	addr, err := strconv.ParseUint(address, 0, 16)
	if err != nil {
		return ma, fmt.Errorf("address is not valid: %s", address)
	}
	ma.address = uint16(addr)

	if ma.address <= memory.Mask {
		ma.idx = ma.address
		return ma, nil
	}

	var ok bool
	ma.idx, ok = m.host.MapAddress(ma.address)
	if !ok {
		return ma, fmt.Errorf("address is not mapped: %s", address)
	}
	ma.host = true

	return ma, nil
}

// parseByte parses an 8bit value. the value can be prefixed with $ to
// indicate hexadecimal
func parseByte(s string) (uint8, error) {
	if strings.HasPrefix(s, "$") {
		s = fmt.Sprintf("0x%s", s[1:])
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("value is not valid: %s", s)
	}
	return uint8(v), nil
}
