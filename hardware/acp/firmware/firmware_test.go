package firmware_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/acpmix/hardware/acp/firmware"
	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/mixer"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
	"github.com/jetsetilly/acpmix/hardware/clocks"
	"github.com/jetsetilly/acpmix/test"
)

type quiet struct{}

func (quiet) AllowLogging() bool {
	return false
}

func create(t *testing.T, cfg firmware.Config) *firmware.Firmware {
	t.Helper()
	fw, err := firmware.Create(quiet{}, firmware.Build(nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return fw
}

func TestImageLayout(t *testing.T) {
	img := firmware.Build(nil)
	b := img.Bytes()
	test.ExpectEquality(t, len(b), memory.Size)

	v := img.Vectors()
	test.ExpectEquality(t, v.Tick, firmware.TickEntry)
	test.ExpectEquality(t, v.Reset, firmware.BootEntry)

	// all three vectors are populated even though two alias the same handler
	test.ExpectEquality(t, v.IRQ, v.Tick)
	test.ExpectSuccess(t, v.Check())

	// vectors are at the top of memory in little-endian order
	test.ExpectEquality(t, b[0x0ffa], 0x10)
	test.ExpectEquality(t, b[0x0ffb], 0x0c)
	test.ExpectEquality(t, b[0x0ffc], 0x00)
	test.ExpectEquality(t, b[0x0ffd], 0x0c)

	// boot stub
	test.ExpectEquality(t, b[firmware.BootEntry], 0x78)
	test.ExpectEquality(t, b[firmware.IdleEntry], 0xcb)
	test.ExpectEquality(t, b[firmware.IdleEntry+1], 0x4c)
	test.ExpectEquality(t, b[firmware.IdleEntry+2], 0x05)
	test.ExpectEquality(t, b[firmware.IdleEntry+3], 0x0c)
	test.ExpectEquality(t, b[firmware.TickEntry], 0x40)

	// tables and default voices
	test.ExpectEquality(t, b[volume.Address(volume.Quietest)], 0x30)
	test.ExpectEquality(t, b[wavetable.Address(wavetable.Ramp)+0x42], 0x42)
	test.ExpectEquality(t, b[voice.Address(0)+voice.ShiftOffset], volume.SilenceShift)
}

func TestParse(t *testing.T) {
	b := firmware.Build(nil).Bytes()
	img, err := firmware.Parse(b)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, img.Vectors(), firmware.Build(nil).Vectors())

	_, err = firmware.Parse(b[:100])
	test.ExpectSuccess(t, errors.Is(err, firmware.ErrImageSize))

	// reset vector pointing at the wavetables
	b[0x0ffd] = 0x06
	_, err = firmware.Parse(b)
	test.ExpectSuccess(t, errors.Is(err, firmware.ErrVector))
}

func TestCustomWavetable(t *testing.T) {
	st := wavetable.NewStore()
	var tbl wavetable.Table
	for i := range tbl {
		tbl[i] = 0xaa
	}
	test.ExpectSuccess(t, st.WithTable(wavetable.Pulse, tbl))

	b := firmware.Build(st).Bytes()
	test.ExpectEquality(t, b[wavetable.Address(wavetable.Pulse)+0x80], 0xaa)
}

func TestCreate(t *testing.T) {
	_, err := firmware.Create(quiet{}, firmware.Build(nil), firmware.Config{Voices: 7, Period: clocks.DefaultPeriod})
	test.ExpectSuccess(t, errors.Is(err, mixer.ErrBudget))

	_, err = firmware.Create(quiet{}, firmware.Build(nil), firmware.Config{Voices: 7, Period: 1024})
	test.ExpectSuccess(t, err)

	_, err = firmware.Create(quiet{}, firmware.Build(nil), firmware.Config{Voices: 0, Period: 1024})
	test.ExpectFailure(t, err)

	_, err = firmware.Create(quiet{}, firmware.Build(nil), firmware.Config{Voices: 1, Period: 1})
	test.ExpectFailure(t, err)
}

func TestBootSequence(t *testing.T) {
	fw := create(t, firmware.DefaultConfig)
	test.ExpectEquality(t, fw.State(), firmware.Uninitialized)

	// ticks before boot are ignored
	test.ExpectFailure(t, fw.Interrupt())
	test.ExpectEquality(t, fw.Out.Writes(), 0)

	// cannot enable before reset
	test.ExpectSuccess(t, errors.Is(fw.Enable(), firmware.ErrState))

	// the host writes to a voice before reset. the write is undone by the reset
	s, _ := fw.Voices.Slot(0)
	s.SetVolume(16)

	test.ExpectSuccess(t, fw.Reset())
	test.ExpectEquality(t, fw.State(), firmware.Armed)
	test.ExpectEquality(t, fw.StackPointer(), 0xff)
	test.ExpectEquality(t, fw.Vectors().Tick, firmware.TickEntry)
	for i := range fw.Voices.Len() {
		v, _ := fw.Voices.Read(i)
		test.ExpectEquality(t, v, voice.Silent)
	}

	// armed but interrupts are not yet enabled
	test.ExpectFailure(t, fw.Interrupt())
	test.ExpectEquality(t, fw.Ignored(), 2)

	test.ExpectSuccess(t, fw.Enable())
	test.ExpectEquality(t, fw.State(), firmware.Idle)

	// enabling twice is an error
	test.ExpectFailure(t, fw.Enable())

	for range 10 {
		test.ExpectSuccess(t, fw.Interrupt())
		test.ExpectEquality(t, fw.State(), firmware.Idle)
	}
	test.ExpectEquality(t, fw.Ticks(), 10)
	test.ExpectEquality(t, fw.Out.Writes(), 10)
	test.ExpectEquality(t, fw.Out.Value(), mixer.Midpoint)

	// reset takes the firmware back to armed
	test.ExpectSuccess(t, fw.Reset())
	test.ExpectEquality(t, fw.State(), firmware.Armed)
	test.ExpectFailure(t, fw.Interrupt())
}

func TestDrivenByManualClock(t *testing.T) {
	fw := create(t, firmware.DefaultConfig)
	test.ExpectSuccess(t, fw.Boot())

	var clk clocks.Manual
	clk.Attach(fw.Tick)

	s, _ := fw.Voices.Slot(0)
	s.SetFrequency(0x0100)
	s.SetWavetable(wavetable.Address(wavetable.Ramp))
	s.SetCurve(volume.Address(volume.Full))
	s.SetShift(0)

	clk.Step(128)
	test.ExpectEquality(t, fw.Out.Value(), 0x80)
	test.ExpectEquality(t, s.Read().Phase, 0x8000)

	clk.Step(128)
	test.ExpectEquality(t, fw.Out.Value(), 0x70)
	test.ExpectEquality(t, fw.Ticks(), 256)
}

func TestStateNames(t *testing.T) {
	test.ExpectEquality(t, firmware.Uninitialized.String(), "uninitialized")
	test.ExpectEquality(t, firmware.Armed.String(), "armed")
	test.ExpectEquality(t, firmware.Idle.String(), "idle")
	test.ExpectEquality(t, firmware.Ticking.String(), "ticking")
}
