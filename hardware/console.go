package hardware

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jetsetilly/acpmix/gui"
	"github.com/jetsetilly/acpmix/hardware/acp/dac"
	"github.com/jetsetilly/acpmix/hardware/acp/firmware"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
	"github.com/jetsetilly/acpmix/hardware/clocks"
	"github.com/jetsetilly/acpmix/logger"
)

// Context for the console and its components
type Context interface {
	logger.Permission
}

// FrameRate is the rate at which writers are given the opportunity to update
// the voice bank. It is the frame rate of the main CPU's display
const FrameRate = 60

// Writer is a host side program that writes to the voice bank once per frame.
// Writers run concurrently with the mixer.
type Writer interface {
	Label() string
	Frame(frame int) error
}

// a writer that holds resources can implement Close(). it is called when the
// writer is detached for any reason
type closer interface {
	Close()
}

func detach(w Writer) {
	if c, ok := w.(closer); ok {
		c.Close()
	}
}

// ErrFinished is returned by a writer that has nothing left to do. The writer
// is detached without an error being logged.
var ErrFinished = errors.New("finished")

// Config for the console.
type Config struct {
	Firmware firmware.Config

	// waveforms to build into the firmware image. nil means the built-in set
	Wavetables *wavetable.Store

	// gain applied to the audio stream
	Gain float64

	// sample rate expected by the audio player. a value of zero means the
	// stream will have the same rate as the tick clock
	OutputRate int
}

// DefaultConfig is suitable for playback with the ebiten GUI
var DefaultConfig = Config{
	Firmware:   firmware.DefaultConfig,
	Gain:       1.0,
	OutputRate: 44100,
}

// Console is the host machine as seen from the audio coprocessor. It owns the
// firmware and the tick clocks and is the point at which writers attach to
// the voice bank.
type Console struct {
	ctx Context
	g   *gui.GUI
	cfg Config

	ACP    *firmware.Firmware
	Stream *dac.Stream
	Clock  *clocks.Realtime
	manual clocks.Manual

	scope scope
	piano piano

	// writers and the frame counter are accessed by the frame goroutine and
	// by the debugger
	crit    sync.Mutex
	writers []Writer
	frame   int
}

// Create a new console. The GUI argument can be nil.
func Create(ctx Context, g *gui.GUI, cfg Config) (*Console, error) {
	fw, err := firmware.Create(ctx, firmware.Build(cfg.Wavetables), cfg.Firmware)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}

	con := &Console{
		ctx: ctx,
		g:   g,
		cfg: cfg,
		ACP: fw,
	}

	rate := cfg.Firmware.SampleRate()
	con.Clock = clocks.NewRealtime(rate)
	con.Stream = dac.NewStream(dac.Rates{
		Clock:  clocks.ACP,
		Period: cfg.Firmware.Period,
		Output: con.OutputRate(),
	}, cfg.Gain, con.Clock.Nudge)

	con.scope.reset()
	con.scope.next = con.Stream
	fw.Out.Attach(&con.scope)
	con.manual.Attach(fw.Tick)

	con.piano = newPiano(cfg.Firmware.Voices - 1)

	err = con.Reset()
	if err != nil {
		return nil, err
	}

	if g != nil {
		select {
		case g.AudioSetup <- gui.AudioSetup{Freq: con.OutputRate(), Read: con.Stream}:
		default:
		}
	}

	return con, nil
}

// Reset boots the firmware. Any attached writers are detached because the
// voices they were writing to have been returned to silence.
func (con *Console) Reset() error {
	con.crit.Lock()
	defer con.crit.Unlock()

	for _, w := range con.writers {
		detach(w)
		logger.Logf(con.ctx, "console", "detached %s on reset", w.Label())
	}
	con.writers = con.writers[:0]
	con.frame = 0
	con.Stream.Reset()

	err := con.ACP.Boot()
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// Config returns the configuration used to create the console
func (con *Console) Config() Config {
	return con.cfg
}

// SampleRate returns the tick rate of the ACP
func (con *Console) SampleRate() float64 {
	return con.cfg.Firmware.SampleRate()
}

// OutputRate returns the sample rate of the audio stream. This is the tick
// rate rounded to the nearest Hz if the configuration does not specify a rate
func (con *Console) OutputRate() int {
	if con.cfg.OutputRate > 0 {
		return con.cfg.OutputRate
	}
	return int(math.Round(con.SampleRate()))
}

// Voices returns the voice bank for writing by the host.
func (con *Console) Voices() *voice.Bank {
	return con.ACP.Voices
}

// Step fires n ticks synchronously. Should not be called while Run() is
// active.
func (con *Console) Step(n int) {
	con.manual.Step(n)
}

// Run the console in real time until the stop channel receives a value.
// Frames are run from a separate goroutine so that writers are concurrent
// with the mixer in the same way as the main CPU.
func (con *Console) Run(stop chan bool) error {
	// give the audio player a frame of audio to start with
	if con.g != nil {
		con.Stream.Prefetch(con.ACP, con.OutputRate()/FrameRate)
	}

	con.setGUIState(gui.StateRunning)
	defer con.setGUIState(gui.StatePaused)

	frames := time.NewTicker(time.Second / FrameRate)
	defer frames.Stop()

	done := make(chan bool)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case <-frames.C:
				con.Frame()
			}
		}
	}()

	err := con.Clock.Run(stop, con.ACP.Tick)
	close(done)
	wg.Wait()

	return err
}

func (con *Console) setGUIState(state gui.State) {
	if con.g == nil {
		return
	}
	select {
	case con.g.State <- state:
	default:
	}
}

// Attach a writer. It will be called on the next frame.
func (con *Console) Attach(w Writer) {
	con.crit.Lock()
	defer con.crit.Unlock()
	con.writers = append(con.writers, w)
	logger.Logf(con.ctx, "console", "attached %s", w.Label())
}

// Detach all writers with the label. Returns false if there was no writer
// with that label.
func (con *Console) Detach(label string) bool {
	con.crit.Lock()
	defer con.crit.Unlock()

	var found bool
	w := con.writers[:0]
	for _, c := range con.writers {
		if c.Label() == label {
			detach(c)
			found = true
			continue
		}
		w = append(w, c)
	}
	con.writers = w

	return found
}

// Writers returns the labels of the attached writers
func (con *Console) Writers() []string {
	con.crit.Lock()
	defer con.crit.Unlock()

	var l []string
	for _, w := range con.writers {
		l = append(l, w.Label())
	}
	return l
}

// Frame handles user input from the GUI, calls every writer once and sends the
// state of the output to the GUI.
func (con *Console) Frame() {
	con.handleInput()

	con.crit.Lock()
	frame := con.frame
	con.frame++

	w := con.writers[:0]
	for _, c := range con.writers {
		err := c.Frame(frame)
		if err != nil {
			detach(c)
			if errors.Is(err, ErrFinished) {
				logger.Logf(con.ctx, "console", "%s finished on frame %d", c.Label(), frame)
			} else {
				logger.Logf(con.ctx, "console", "detached %s: %v", c.Label(), err)
			}
			continue
		}
		w = append(w, c)
	}
	con.writers = w
	con.crit.Unlock()

	if con.g != nil {
		s := gui.Scope{
			Samples: con.scope.snapshot(),
			Status:  con.ACP.Out.String(),
		}
		for i := range con.ACP.Config().Voices {
			v, _ := con.ACP.Voices.Read(i)
			s.Voices = append(s.Voices, v.String())
		}
		select {
		case con.g.SetScope <- s:
		default:
		}
	}
}

// Frames returns the number of frames run since the last reset
func (con *Console) Frames() int {
	con.crit.Lock()
	defer con.crit.Unlock()
	return con.frame
}

// Status returns a single line summary of the console.
func (con *Console) Status() string {
	var s strings.Builder
	s.WriteString(con.ACP.String())
	s.WriteString(fmt.Sprintf(" frame=%d", con.Frames()))
	if w := con.Writers(); len(w) > 0 {
		s.WriteString(fmt.Sprintf(" writers=%s", strings.Join(w, ",")))
	}
	return s.String()
}
