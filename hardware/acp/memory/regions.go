package memory

import "fmt"

// The fixed memory map of the ACP. The regions are contiguous and appear in
// RAM in this order. The packaging pipeline relies on the placement and so
// none of these values can change without rebuilding everything that
// consumes the firmware image.
const (
	ZeroPageOrigin = 0x0000
	ZeroPageMemtop = 0x00ff

	StackOrigin = 0x0100
	StackMemtop = 0x01ff

	CurvesOrigin = 0x0200
	CurvesMemtop = 0x05ff

	WavetablesOrigin = 0x0600
	WavetablesMemtop = 0x0bff

	CodeOrigin = 0x0c00
	CodeMemtop = 0x0ff9

	VectorsOrigin = 0x0ffa
	VectorsMemtop = 0x0fff
)

// Voice records start in the zero page after the mixer's scratch area
const (
	ScratchOrigin = 0x0000
	VoiceOrigin   = 0x0041
)

// Addresses of the three vectors at the top of the address space. The tick
// vector is serviced once per sample period.
const (
	TickVector  = 0x0ffa
	ResetVector = 0x0ffc
	IRQVector   = 0x0ffe
)

// Region is a named span of ACP RAM.
type Region struct {
	Name   string
	Origin uint16
	Memtop uint16
}

func (r Region) String() string {
	return fmt.Sprintf("%-10s %04x-%04x (%d bytes)", r.Name, r.Origin, r.Memtop, r.Len())
}

// Len returns the number of bytes in the region.
func (r Region) Len() int {
	return int(r.Memtop) - int(r.Origin) + 1
}

// Contains returns true if the address (after mirroring) is in the region.
func (r Region) Contains(address uint16) bool {
	address &= Mask
	return address >= r.Origin && address <= r.Memtop
}

var regions = []Region{
	{Name: "zeropage", Origin: ZeroPageOrigin, Memtop: ZeroPageMemtop},
	{Name: "stack", Origin: StackOrigin, Memtop: StackMemtop},
	{Name: "curves", Origin: CurvesOrigin, Memtop: CurvesMemtop},
	{Name: "wavetables", Origin: WavetablesOrigin, Memtop: WavetablesMemtop},
	{Name: "code", Origin: CodeOrigin, Memtop: CodeMemtop},
	{Name: "vectors", Origin: VectorsOrigin, Memtop: VectorsMemtop},
}

// Regions returns the memory map in address order.
func Regions() []Region {
	r := make([]Region, len(regions))
	copy(r, regions)
	return r
}

// RegionOf returns the region that contains the address.
func RegionOf(address uint16) Region {
	for _, r := range regions {
		if r.Contains(address) {
			return r
		}
	}

	// unreachable because the regions cover the whole of RAM
	panic(fmt.Sprintf("memory: address %04x not in any region", address))
}
