package script_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/acpmix/hardware"
	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
	"github.com/jetsetilly/acpmix/logger"
	"github.com/jetsetilly/acpmix/script"
	"github.com/jetsetilly/acpmix/test"
)

const rate = 8000.0

func bank() *voice.Bank {
	b := voice.NewBank(memory.Create("test"))
	for i := range b.Len() {
		s, _ := b.Slot(i)
		s.Write(voice.Silent)
	}
	return b
}

func TestTopLevel(t *testing.T) {
	b := bank()
	scr, err := script.Load(logger.Allow, b, rate, "top", `
		note(0, "A4")
		volume(0, 16)
		wave(0, 2)
		freq(1, 0x1234)
		curve(1, 3)
		shift(1, 2)
		note(2, 60)
		mute(2)
	`)
	test.ExpectSuccess(t, err)
	defer scr.Close()

	v, _ := b.Read(0)
	test.ExpectEquality(t, v.Freq, voice.Increment(voice.A4, rate))
	test.ExpectEquality(t, v.WavePtr, wavetable.Address(wavetable.Ramp))
	test.ExpectEquality(t, v.VolPtr, volume.Address(volume.Full))
	test.ExpectEquality(t, v.Shift, 0)

	v, _ = b.Read(1)
	test.ExpectEquality(t, v.Freq, 0x1234)
	test.ExpectEquality(t, v.VolPtr, volume.Address(volume.Quietest))
	test.ExpectEquality(t, v.Shift, 2)

	v, _ = b.Read(2)
	test.ExpectEquality(t, v.Freq, voice.Increment(voice.C4, rate))
	test.ExpectSuccess(t, v.IsSilent())

	// a script without a frame function is finished immediately
	test.ExpectSuccess(t, errors.Is(scr.Frame(0), hardware.ErrFinished))
}

func TestFrame(t *testing.T) {
	b := bank()
	scr, err := script.Load(logger.Allow, b, rate, "frames", `
		function frame(n)
			if n >= 3 then
				return false
			end
			volume(n, 16 - n)
		end
	`)
	test.ExpectSuccess(t, err)
	defer scr.Close()
	test.ExpectEquality(t, scr.Label(), "frames")

	for i := range 3 {
		test.ExpectSuccess(t, scr.Frame(i))
	}
	test.ExpectSuccess(t, errors.Is(scr.Frame(3), hardware.ErrFinished))

	for i := range 3 {
		s, _ := b.Slot(i)
		test.ExpectEquality(t, s.Volume(), uint8(16-i))
	}
}

func TestQueries(t *testing.T) {
	b := bank()
	scr, err := script.Load(logger.Allow, b, rate, "queries", `
		volume(4, 9)
		if level(4) ~= 9 then error("level") end
		if voices() ~= 7 then error("voices") end
		if rate() ~= 8000 then error("rate") end
		print("queries", "ok")
	`)
	test.ExpectSuccess(t, err)
	scr.Close()

	var found bool
	for _, e := range logger.Entries() {
		if e.Tag == "queries" && e.Detail == "queries ok" {
			found = true
		}
	}
	test.ExpectSuccess(t, found)
}

func TestErrors(t *testing.T) {
	b := bank()

	_, err := script.Load(logger.Allow, b, rate, "syntax", `note(0,`)
	test.ExpectFailure(t, err)

	_, err = script.Load(logger.Allow, b, rate, "slot", `note(7, 60)`)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, strings.Contains(err.Error(), "no such voice slot"))

	_, err = script.Load(logger.Allow, b, rate, "wave", `wave(0, 6)`)
	test.ExpectFailure(t, err)

	_, err = script.Load(logger.Allow, b, rate, "note", `note(0, "H4")`)
	test.ExpectFailure(t, err)

	_, err = script.Load(logger.Allow, b, rate, "loop", `while true do end`)
	test.ExpectSuccess(t, errors.Is(err, script.ErrTimeout))

	scr, err := script.Load(logger.Allow, b, rate, "runtime", `
		function frame(n)
			volume(n, 1)
		end
	`)
	test.ExpectSuccess(t, err)
	defer scr.Close()
	test.ExpectSuccess(t, scr.Frame(6))
	test.ExpectFailure(t, scr.Frame(7))
}

func TestLoadFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "tune.lua")
	err := os.WriteFile(fn, []byte(`note(3, "C5")`), 0600)
	test.ExpectSuccess(t, err)

	b := bank()
	scr, err := script.LoadFile(logger.Allow, b, rate, fn)
	test.ExpectSuccess(t, err)
	defer scr.Close()
	test.ExpectEquality(t, scr.Label(), "tune.lua")

	v, _ := b.Read(3)
	test.ExpectEquality(t, v.Freq, voice.Increment(voice.C4+12, rate))

	_, err = script.LoadFile(logger.Allow, b, rate, filepath.Join(t.TempDir(), "missing.lua"))
	test.ExpectFailure(t, err)
}
