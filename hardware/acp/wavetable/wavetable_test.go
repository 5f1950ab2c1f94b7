package wavetable_test

import (
	"testing"

	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
	"github.com/jetsetilly/acpmix/test"
)

func TestAddresses(t *testing.T) {
	test.ExpectEquality(t, wavetable.Address(0), 0x0600)
	test.ExpectEquality(t, wavetable.Address(wavetable.Neutral), 0x0b00)

	// the whole bank fits in the wavetable region
	test.ExpectEquality(t, wavetable.Address(wavetable.Count)-1, memory.WavetablesMemtop)

	slot, ok := wavetable.SlotOf(0x0800)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, slot, wavetable.Ramp)

	_, ok = wavetable.SlotOf(0x0801)
	test.ExpectFailure(t, ok)
	_, ok = wavetable.SlotOf(0x0500)
	test.ExpectFailure(t, ok)
}

func TestBuiltin(t *testing.T) {
	st := wavetable.NewStore()

	ramp := st.Table(wavetable.Ramp)
	for i := range wavetable.Length {
		test.ExpectEquality(t, ramp[i], uint8(i))
	}

	neutral := st.Table(wavetable.Neutral)
	for i := range wavetable.Length {
		test.ExpectEquality(t, neutral[i], wavetable.Midpoint)
	}

	sine := st.Table(wavetable.Sine)
	test.ExpectEquality(t, sine[0], wavetable.Midpoint)
	test.ExpectEquality(t, sine[64], 0xff)
	test.ExpectEquality(t, sine[192], 0x01)

	tri := st.Table(wavetable.Triangle)
	test.ExpectEquality(t, tri[0], wavetable.Midpoint)
	test.ExpectEquality(t, tri[63], 0xfe)
	test.ExpectEquality(t, tri[64], 0xff)
	test.ExpectEquality(t, tri[191], 0x01)
	test.ExpectEquality(t, tri[192], 0x00)
	test.ExpectEquality(t, tri[255], 0x7e)
}

func TestInstall(t *testing.T) {
	st := wavetable.NewStore()

	var custom wavetable.Table
	for i := range custom {
		custom[i] = 0x42
	}
	test.ExpectSuccess(t, st.WithTable(wavetable.Pulse, custom))
	test.ExpectFailure(t, st.WithTable(wavetable.Count, custom))

	mem := memory.Create("acp")
	st.Install(mem)
	test.ExpectEquality(t, mem.Read(wavetable.Address(wavetable.Ramp)+0x33), 0x33)
	test.ExpectEquality(t, mem.Read(wavetable.Address(wavetable.Pulse)+0x10), 0x42)

	img := make([]uint8, memory.Size)
	st.Place(img)
	test.ExpectEquality(t, img[wavetable.Address(wavetable.Ramp)+0xff], 0xff)
}
