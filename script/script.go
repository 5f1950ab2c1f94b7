// Package script runs game logic written in Lua against the voice bank. A
// script is loaded once and its global frame() function, if it has one, is
// called once per frame.
//
// The following functions are available to scripts. Voices are numbered from
// zero.
//
//	note(v, n)      set the frequency of voice v to MIDI note n. n can also be
//	                a string such as "C#4"
//	freq(v, inc)    set the phase increment of voice v
//	volume(v, l)    set voice v to volume level l (0 to 16)
//	level(v)        return the volume level of voice v
//	wave(v, w)      set voice v to use waveform slot w (0 to 5)
//	curve(v, c)     set the volume curve of voice v (0 to 3)
//	shift(v, s)     set the attenuation shift of voice v
//	mute(v)         silence voice v
//	phase(v)        reset the phase accumulator of voice v
//	voices()        the number of voice slots
//	rate()          the sample rate in Hz
//
// The frame() function receives the frame number. If it returns false the
// script is finished and is detached from the console.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jetsetilly/acpmix/hardware"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/logger"
	lua "github.com/yuin/gopher-lua"
)

// ErrTimeout is returned when a call into the script takes too long
var ErrTimeout = errors.New("script timed out")

// the longest a single call to frame() is allowed to take
const frameTimeout = 100 * time.Millisecond

// Script is a loaded Lua script. It implements the hardware.Writer interface.
type Script struct {
	perm logger.Permission
	name string

	bank *voice.Bank
	rate float64

	L       *lua.LState
	frameFn *lua.LFunction
}

// LoadFile loads the script in the named file.
func LoadFile(perm logger.Permission, bank *voice.Bank, rate float64, filename string) (*Script, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return Load(perm, bank, rate, filepath.Base(filename), string(b))
}

// Load the script source. The top level of the script is run immediately.
func Load(perm logger.Permission, bank *voice.Bank, rate float64, name string, source string) (*Script, error) {
	scr := &Script{
		perm: perm,
		name: name,
		bank: bank,
		rate: rate,
		L:    lua.NewState(),
	}

	scr.register()

	err := scr.protect(func() error {
		return scr.L.DoString(source)
	})
	if err != nil {
		scr.L.Close()
		return nil, fmt.Errorf("script: %s: %w", name, err)
	}

	if fn, ok := scr.L.GetGlobal("frame").(*lua.LFunction); ok {
		scr.frameFn = fn
	}

	return scr, nil
}

// Close the Lua state. The script cannot be used after closing.
func (scr *Script) Close() {
	scr.L.Close()
}

// Label implements the hardware.Writer interface.
func (scr *Script) Label() string {
	return scr.name
}

// Frame implements the hardware.Writer interface. A script without a frame()
// function is finished as soon as it is loaded.
func (scr *Script) Frame(frame int) error {
	if scr.frameFn == nil {
		return hardware.ErrFinished
	}

	err := scr.protect(func() error {
		return scr.L.CallByParam(lua.P{
			Fn:      scr.frameFn,
			NRet:    1,
			Protect: true,
		}, lua.LNumber(frame))
	})
	if err != nil {
		return fmt.Errorf("script: %s: %w", scr.name, err)
	}

	ret := scr.L.Get(-1)
	scr.L.Pop(1)
	if ret == lua.LFalse {
		return hardware.ErrFinished
	}

	return nil
}

// protect runs f with a deadline on the Lua state
func (scr *Script) protect(f func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()

	scr.L.SetContext(ctx)
	defer scr.L.RemoveContext()

	err := f()
	if err != nil && ctx.Err() != nil {
		return ErrTimeout
	}
	return err
}

func (scr *Script) register() {
	fns := map[string]lua.LGFunction{
		"note":   scr.note,
		"freq":   scr.freq,
		"volume": scr.volume,
		"level":  scr.level,
		"wave":   scr.wave,
		"curve":  scr.curve,
		"shift":  scr.shift,
		"mute":   scr.mute,
		"phase":  scr.phase,
		"voices": scr.voices,
		"rate":   scr.sampleRate,
		"print":  scr.print,
	}
	for n, f := range fns {
		scr.L.SetGlobal(n, scr.L.NewFunction(f))
	}
}

// slot returns the voice slot for the first argument. raises a Lua error if
// the voice number is not valid
func (scr *Script) slot(L *lua.LState) voice.Slot {
	s, err := scr.bank.Slot(L.CheckInt(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	return s
}

func (scr *Script) note(L *lua.LState) int {
	s := scr.slot(L)

	var n voice.Note
	switch v := L.CheckAny(2).(type) {
	case lua.LNumber:
		if v < 0 || v > lua.LNumber(voice.MaxNote) {
			L.ArgError(2, fmt.Sprintf("note %v out of range", v))
		}
		n = voice.Note(v)
	case lua.LString:
		var err error
		n, err = voice.ParseNote(string(v))
		if err != nil {
			L.ArgError(2, err.Error())
		}
	default:
		L.TypeError(2, lua.LTNumber)
	}

	s.SetNote(n, scr.rate)
	return 0
}

func (scr *Script) freq(L *lua.LState) int {
	s := scr.slot(L)
	inc := L.CheckInt(2)
	if inc < 0 || inc > 0xffff {
		L.ArgError(2, "phase increment must be between 0 and 65535")
	}
	s.SetFrequency(uint16(inc))
	return 0
}

func (scr *Script) volume(L *lua.LState) int {
	s := scr.slot(L)
	l := L.CheckInt(2)
	if l < 0 {
		L.ArgError(2, "volume cannot be negative")
	}
	s.SetVolume(uint8(min(l, volume.MaxLevel)))
	return 0
}

func (scr *Script) level(L *lua.LState) int {
	s := scr.slot(L)
	L.Push(lua.LNumber(s.Volume()))
	return 1
}

func (scr *Script) wave(L *lua.LState) int {
	s := scr.slot(L)
	if err := s.SetWaveSlot(L.CheckInt(2)); err != nil {
		L.ArgError(2, err.Error())
	}
	return 0
}

func (scr *Script) curve(L *lua.LState) int {
	s := scr.slot(L)
	c := L.CheckInt(2)
	if c < 0 || c >= volume.Count {
		L.ArgError(2, fmt.Sprintf("curve %d out of range", c))
	}
	s.SetCurve(volume.Address(c))
	return 0
}

func (scr *Script) shift(L *lua.LState) int {
	s := scr.slot(L)
	sh := L.CheckInt(2)
	if sh < 0 || sh > 0xff {
		L.ArgError(2, "shift must be between 0 and 255")
	}
	s.SetShift(uint8(sh))
	return 0
}

func (scr *Script) mute(L *lua.LState) int {
	scr.slot(L).Mute()
	return 0
}

func (scr *Script) phase(L *lua.LState) int {
	scr.slot(L).ResetPhase()
	return 0
}

func (scr *Script) voices(L *lua.LState) int {
	L.Push(lua.LNumber(scr.bank.Len()))
	return 1
}

func (scr *Script) sampleRate(L *lua.LState) int {
	L.Push(lua.LNumber(scr.rate))
	return 1
}

func (scr *Script) print(L *lua.LState) int {
	var s []string
	for i := 1; i <= L.GetTop(); i++ {
		s = append(s, L.ToStringMeta(L.Get(i)).String())
	}
	logger.Log(scr.perm, scr.name, strings.Join(s, " "))
	return 0
}
