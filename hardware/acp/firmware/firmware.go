// Package firmware implements the boot sequence of the ACP and the handling of
// the tick interrupt.
//
// After Reset() the firmware is in the Armed state: the tick interrupt is
// disabled, the stack pointer is initialised and every voice is in its default
// silent configuration. Enable() switches on the tick interrupt and the
// firmware enters the Idle state, where it stays except for the duration of
// each tick. There is no way out of the Idle state other than Reset().
//
// Interrupt() is the tick. It is called by a clock source and runs the mixer
// to completion before returning.
package firmware

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/acpmix/hardware/acp/dac"
	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/mixer"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/clocks"
	"github.com/jetsetilly/acpmix/logger"
)

// Context for the firmware
type Context interface {
	logger.Permission
}

// State of the boot sequence.
type State int32

// List of valid State values
const (
	Uninitialized State = iota
	Armed
	Idle
	Ticking
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Armed:
		return "armed"
	case Idle:
		return "idle"
	case Ticking:
		return "ticking"
	}
	return "unknown"
}

// ErrState is returned when a boot step is attempted in the wrong state.
var ErrState = errors.New("wrong firmware state")

// Config is the build-time configuration of the firmware.
type Config struct {
	// the number of voice slots visited by the mixer
	Voices int

	// ACP cycles between ticks
	Period int
}

// DefaultConfig is the configuration of the standard firmware.
var DefaultConfig = Config{
	Voices: mixer.DefaultVoices,
	Period: clocks.DefaultPeriod,
}

// SampleRate returns the tick rate of the configuration
func (cfg Config) SampleRate() float64 {
	return clocks.SampleRate(cfg.Period)
}

// Firmware is the running ACP.
type Firmware struct {
	ctx Context
	img *Image
	cfg Config

	Mem    *memory.Memory
	Voices *voice.Bank
	Out    *dac.Register

	mixer *mixer.Mixer

	state atomic.Int32
	irq   atomic.Bool

	// stack pointer. only the boot sequence touches it
	sp uint8

	vectors Vectors

	ticks   atomic.Uint64
	ignored atomic.Uint64
}

// Create the firmware from the image. The configuration is checked against the
// cycle budget. The firmware is in the Uninitialized state and Boot() should be
// called before any ticks are delivered.
func Create(ctx Context, img *Image, cfg Config) (*Firmware, error) {
	if cfg.Period < clocks.MinPeriod || cfg.Period > clocks.MaxPeriod {
		return nil, fmt.Errorf("firmware: period of %d cycles is out of range", cfg.Period)
	}

	b := mixer.Budget{Period: cfg.Period}
	if err := b.Check(cfg.Voices); err != nil {
		return nil, fmt.Errorf("firmware: %w", err)
	}

	fw := &Firmware{
		ctx: ctx,
		img: img,
		cfg: cfg,
		Mem: memory.Create("acp"),
		Out: dac.NewRegister(),
	}
	fw.Voices = voice.NewBank(fw.Mem)

	var err error
	fw.mixer, err = mixer.NewMixer(fw.Mem, fw.Out, cfg.Voices)
	if err != nil {
		return nil, fmt.Errorf("firmware: %w", err)
	}

	if cfg.Voices != voice.Slots {
		logger.Logf(ctx, "firmware", "mixing %d of %d voice slots", cfg.Voices, voice.Slots)
	}
	logger.Logf(ctx, "firmware", "%.1fHz sample rate, %d cycles headroom", cfg.SampleRate(), b.Headroom(cfg.Voices))

	return fw, nil
}

// Config returns the configuration of the firmware
func (fw *Firmware) Config() Config {
	return fw.cfg
}

// State returns the current state of the boot sequence
func (fw *Firmware) State() State {
	return State(fw.state.Load())
}

// Reset moves the firmware to the Armed state. The tick interrupt is disabled
// and ACP memory is reloaded from the image, which places every voice in its
// silent default.
func (fw *Firmware) Reset() error {
	fw.irq.Store(false)
	fw.state.Store(int32(Uninitialized))

	fw.sp = 0xff

	err := fw.Mem.Load(fw.img.data[:])
	if err != nil {
		return fmt.Errorf("firmware: %w", err)
	}

	fw.vectors = Vectors{
		Tick:  fw.Mem.Read16(memory.TickVector),
		Reset: fw.Mem.Read16(memory.ResetVector),
		IRQ:   fw.Mem.Read16(memory.IRQVector),
	}
	if err := fw.vectors.Check(); err != nil {
		return fmt.Errorf("firmware: %w", err)
	}

	fw.state.Store(int32(Armed))
	logger.Logf(fw.ctx, "firmware", "armed (%s)", fw.vectors.String())

	return nil
}

// Enable the tick interrupt. Moves the firmware from Armed to Idle.
func (fw *Firmware) Enable() error {
	if !fw.state.CompareAndSwap(int32(Armed), int32(Idle)) {
		return fmt.Errorf("firmware: %w: cannot enable interrupts when %s", ErrState, fw.State())
	}
	fw.irq.Store(true)
	logger.Log(fw.ctx, "firmware", "tick interrupt enabled")
	return nil
}

// Boot is the complete boot sequence. It is the same as Reset() followed by
// Enable().
func (fw *Firmware) Boot() error {
	if err := fw.Reset(); err != nil {
		return err
	}
	return fw.Enable()
}

// Interrupt is the tick interrupt. If the interrupt is enabled and the
// firmware is idle then the mixer runs and true is returned. Interrupts at any
// other time are ignored.
func (fw *Firmware) Interrupt() bool {
	if !fw.irq.Load() || !fw.state.CompareAndSwap(int32(Idle), int32(Ticking)) {
		fw.ignored.Add(1)
		return false
	}

	fw.mixer.Tick()
	fw.ticks.Add(1)

	fw.state.Store(int32(Idle))
	return true
}

// Tick implements the dac.Ticker interface.
func (fw *Firmware) Tick() {
	fw.Interrupt()
}

// Ticks returns the number of ticks serviced since the firmware was created.
func (fw *Firmware) Ticks() uint64 {
	return fw.ticks.Load()
}

// Ignored returns the number of interrupts ignored because the firmware was not
// idle or because interrupts were disabled.
func (fw *Firmware) Ignored() uint64 {
	return fw.ignored.Load()
}

// StackPointer returns the value of the stack pointer.
func (fw *Firmware) StackPointer() uint8 {
	return fw.sp
}

// Vectors returns the vectors as loaded by the most recent reset.
func (fw *Firmware) Vectors() Vectors {
	return fw.vectors
}

// Mixer returns a description of the mixer configuration.
func (fw *Firmware) Mixer() string {
	return fw.mixer.String()
}

func (fw *Firmware) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("state=%s irq=%v sp=%02x ", fw.State(), fw.irq.Load(), fw.sp))
	s.WriteString(fmt.Sprintf("ticks=%d ignored=%d ", fw.Ticks(), fw.Ignored()))
	s.WriteString(fw.Out.String())
	return s.String()
}
