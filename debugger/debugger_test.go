package debugger

import (
	"testing"

	"github.com/jetsetilly/acpmix/hardware"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
	"github.com/jetsetilly/acpmix/test"
)

func newTestDebugger(t *testing.T) *debugger {
	t.Helper()
	m, err := newDebugger(nil, nil, hardware.DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	m.ctx.logging = false
	return m
}

func TestParseAddress(t *testing.T) {
	m := newTestDebugger(t)

	ma, err := m.parseAddress("$0041")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ma.idx, 0x0041)
	test.ExpectFailure(t, ma.host)

	ma, err = m.parseAddress("0x3fff")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ma.idx, 0x0fff)
	test.ExpectSuccess(t, ma.host)

	_, err = m.parseAddress("$2000")
	test.ExpectFailure(t, err)

	_, err = m.parseAddress("foo")
	test.ExpectFailure(t, err)

	v, err := parseByte("$ff")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0xff)

	_, err = parseByte("256")
	test.ExpectFailure(t, err)
}

func TestVoiceCommands(t *testing.T) {
	m := newTestDebugger(t)
	rate := m.console.SampleRate()

	test.ExpectFailure(t, m.commands([]string{"NOTE", "0", "A4"}))
	test.ExpectFailure(t, m.commands([]string{"vol", "0", "16"}))
	test.ExpectFailure(t, m.commands([]string{"WAVE", "0", "2"}))

	v, _ := m.console.Voices().Read(0)
	test.ExpectEquality(t, v.Freq, voice.Increment(voice.A4, rate))
	test.ExpectEquality(t, v.WavePtr, wavetable.Address(wavetable.Ramp))
	test.ExpectEquality(t, v.Shift, 0)

	m.commands([]string{"NOTE", "1", "72"})
	m.commands([]string{"FREQ", "2", "$0100"})
	v, _ = m.console.Voices().Read(1)
	test.ExpectEquality(t, v.Freq, voice.Increment(voice.C4+12, rate))
	v, _ = m.console.Voices().Read(2)
	test.ExpectEquality(t, v.Freq, 0x0100)

	// bad arguments leave the voice unchanged
	m.commands([]string{"VOL", "0", "17"})
	m.commands([]string{"WAVE", "0", "6"})
	m.commands([]string{"NOTE", "7", "C4"})
	v, _ = m.console.Voices().Read(0)
	test.ExpectEquality(t, v.Shift, 0)
	test.ExpectEquality(t, v.WavePtr, wavetable.Address(wavetable.Ramp))

	m.commands([]string{"TICK", "300"})
	test.ExpectEquality(t, m.console.ACP.Ticks(), 300)
	v, _ = m.console.Voices().Read(0)
	test.ExpectInequality(t, v.Phase, 0)

	m.commands([]string{"SYNC", "0"})
	v, _ = m.console.Voices().Read(0)
	test.ExpectEquality(t, v.Phase, 0)

	m.commands([]string{"MUTE", "0"})
	v, _ = m.console.Voices().Read(0)
	test.ExpectSuccess(t, v.IsSilent())

	m.commands([]string{"VOL", "3", "8"})
	m.commands([]string{"MUTE", "ALL"})
	v, _ = m.console.Voices().Read(3)
	test.ExpectSuccess(t, v.IsSilent())
}

func TestMemoryCommands(t *testing.T) {
	m := newTestDebugger(t)

	m.commands([]string{"WATCH", "$0041"})
	test.ExpectEquality(t, len(m.watches), 1)

	// write through the host window
	m.commands([]string{"POKE", "$3041", "$12"})
	test.ExpectEquality(t, m.console.ACP.Mem.Read(0x0041), 0x12)

	changed := m.checkWatches()
	test.ExpectEquality(t, len(changed), 1)
	test.ExpectEquality(t, changed[0].prev, 0x00)
	test.ExpectEquality(t, changed[0].data, 0x12)
	test.ExpectEquality(t, len(m.checkWatches()), 0)

	m.commands([]string{"POKE", "$0042", "1"})
	test.ExpectEquality(t, m.console.ACP.Mem.Read(0x0042), 0x01)

	m.commands([]string{"WATCH", "DROP", "ALL"})
	test.ExpectEquality(t, len(m.watches), 0)

	// reset reloads the image
	m.commands([]string{"RESET"})
	test.ExpectEquality(t, m.console.ACP.Mem.Read(0x0041), 0x00)
}

func TestWriterCommands(t *testing.T) {
	m := newTestDebugger(t)

	m.commands([]string{"DEMO"})
	test.ExpectEquality(t, len(m.console.Writers()), 1)

	// attaching the demo again replaces it
	m.commands([]string{"DEMO"})
	test.ExpectEquality(t, len(m.console.Writers()), 1)

	m.commands([]string{"FRAME", "61"})
	test.ExpectEquality(t, m.console.Frames(), 61)
	s, _ := m.console.Voices().Slot(0)
	test.ExpectEquality(t, s.Volume(), 16)

	m.commands([]string{"DETACH", "demo"})
	test.ExpectEquality(t, len(m.console.Writers()), 0)

	m.commands([]string{"SCRIPT", "missing.lua"})
	test.ExpectEquality(t, len(m.console.Writers()), 0)
}

func TestQuit(t *testing.T) {
	m := newTestDebugger(t)
	test.ExpectFailure(t, m.commands([]string{"STATE"}))
	test.ExpectFailure(t, m.commands([]string{"BUDGET"}))
	test.ExpectFailure(t, m.commands([]string{"UNKNOWN"}))
	test.ExpectSuccess(t, m.commands([]string{"QUIT"}))
}
