package hardware_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jetsetilly/acpmix/gui"
	"github.com/jetsetilly/acpmix/hardware"
	"github.com/jetsetilly/acpmix/hardware/acp/firmware"
	"github.com/jetsetilly/acpmix/hardware/acp/mixer"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
	"github.com/jetsetilly/acpmix/test"
)

type quiet struct{}

func (quiet) AllowLogging() bool {
	return false
}

func create(t *testing.T, g *gui.GUI) *hardware.Console {
	t.Helper()
	con, err := hardware.Create(quiet{}, g, hardware.DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	return con
}

func TestCreate(t *testing.T) {
	con := create(t, nil)
	test.ExpectEquality(t, con.ACP.State(), firmware.Idle)
	test.ExpectEquality(t, con.Voices().Len(), voice.Slots)

	cfg := hardware.DefaultConfig
	cfg.Firmware.Voices = voice.Slots
	_, err := hardware.Create(quiet{}, nil, cfg)
	test.ExpectSuccess(t, errors.Is(err, mixer.ErrBudget))
}

func TestStep(t *testing.T) {
	con := create(t, nil)
	con.Step(100)
	test.ExpectEquality(t, con.ACP.Ticks(), 100)
	test.ExpectEquality(t, con.ACP.Out.Value(), mixer.Midpoint)

	// the stream is resampled to the output rate
	n := con.Stream.Buffered()
	test.ExpectSuccess(t, n >= 550 && n <= 553)

	test.ExpectSuccess(t, strings.Contains(con.Status(), "state=idle"))
}

func TestConcurrentWrites(t *testing.T) {
	con := create(t, nil)
	s, _ := con.Voices().Slot(0)
	s.SetWavetable(wavetable.Address(wavetable.Square))

	const ticks = 20000

	// the host writes single bytes of voice memory while the mixer is reading
	// them. neither side waits for the other
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range ticks {
			s.SetVolume(uint8(i % 16))
			s.SetFrequency(uint16(i))
		}
	}()

	con.Step(ticks)
	wg.Wait()

	test.ExpectEquality(t, con.ACP.Ticks(), ticks)
	test.ExpectEquality(t, con.ACP.Out.Writes(), ticks)
	test.ExpectEquality(t, con.ACP.State(), firmware.Idle)
	test.ExpectEquality(t, s.Read().Freq, ticks-1)
}

func TestRunPrefetch(t *testing.T) {
	g := gui.NewGUI()
	con := create(t, g)

	// the audio player is given a frame of audio before the clock starts
	stop := make(chan bool, 1)
	stop <- true
	test.ExpectSuccess(t, con.Run(stop))

	frame := hardware.DefaultConfig.OutputRate / hardware.FrameRate
	test.ExpectSuccess(t, con.Stream.Buffered() >= frame)
	test.ExpectSuccess(t, con.ACP.Ticks() >= 130 && con.ACP.Ticks() <= 140)
}

type counter struct {
	frames []int
	finish int
}

func (c *counter) Label() string {
	return "counter"
}

func (c *counter) Frame(frame int) error {
	c.frames = append(c.frames, frame)
	if len(c.frames) >= c.finish {
		return hardware.ErrFinished
	}
	return nil
}

func TestWriters(t *testing.T) {
	con := create(t, nil)

	c := &counter{finish: 3}
	con.Attach(c)
	test.ExpectEquality(t, len(con.Writers()), 1)

	for range 5 {
		con.Frame()
	}
	test.ExpectEquality(t, len(c.frames), 3)
	test.ExpectEquality(t, c.frames[2], 2)
	test.ExpectEquality(t, len(con.Writers()), 0)
	test.ExpectEquality(t, con.Frames(), 5)

	// writers are detached on reset
	con.Attach(&counter{finish: 100})
	test.ExpectSuccess(t, con.Reset())
	test.ExpectEquality(t, len(con.Writers()), 0)
	test.ExpectEquality(t, con.Frames(), 0)

	// detach by label
	con.Attach(&counter{finish: 100})
	test.ExpectSuccess(t, con.Detach("counter"))
	test.ExpectFailure(t, con.Detach("counter"))
}

func TestPiano(t *testing.T) {
	con := create(t, nil)
	s, _ := con.Voices().Slot(hardware.DefaultConfig.Firmware.Voices - 1)

	con.Input(gui.Input{Action: gui.PianoA, Data: true})
	v := s.Read()
	test.ExpectEquality(t, v.Freq, voice.Increment(voice.A4, con.SampleRate()))
	test.ExpectEquality(t, v.WavePtr, wavetable.Address(wavetable.Sine))
	test.ExpectEquality(t, s.Volume(), 12)

	// releasing a key that is not held does nothing
	con.Input(gui.Input{Action: gui.PianoC, Data: false})
	test.ExpectEquality(t, s.Volume(), 12)

	con.Input(gui.Input{Action: gui.PianoA, Data: false})
	test.ExpectSuccess(t, s.Read().IsSilent())

	con.Input(gui.Input{Action: gui.OctaveUp, Data: true})
	con.Input(gui.Input{Action: gui.NextWave, Data: true})
	con.Input(gui.Input{Action: gui.VolumeUp, Data: true})
	con.Input(gui.Input{Action: gui.PianoC, Data: true})
	v = s.Read()
	test.ExpectEquality(t, v.Freq, voice.Increment(voice.C4+12, con.SampleRate()))
	test.ExpectEquality(t, v.WavePtr, wavetable.Address(wavetable.Triangle))
	test.ExpectEquality(t, s.Volume(), 13)

	con.Input(gui.Input{Action: gui.Panic, Data: true})
	for i := range con.Voices().Len() {
		v, _ := con.Voices().Read(i)
		test.ExpectEquality(t, v.Shift, volume.SilenceShift)
	}
}

func TestGUI(t *testing.T) {
	g := gui.NewGUI()
	con := create(t, g)

	select {
	case a := <-g.AudioSetup:
		test.ExpectEquality(t, a.Freq, hardware.DefaultConfig.OutputRate)
	default:
		t.Fatalf("audio has not been set up")
	}

	g.UserInput <- gui.Input{Action: gui.PianoE, Data: true}
	con.Step(10)
	con.Frame()

	s, _ := con.Voices().Slot(hardware.DefaultConfig.Firmware.Voices - 1)
	test.ExpectEquality(t, s.Read().Freq, voice.Increment(voice.C4+4, con.SampleRate()))

	select {
	case sc := <-g.SetScope:
		test.ExpectEquality(t, len(sc.Samples), 256)
		test.ExpectEquality(t, len(sc.Voices), hardware.DefaultConfig.Firmware.Voices)
		test.ExpectEquality(t, sc.Samples[len(sc.Samples)-1], mixer.Midpoint)
	default:
		t.Fatalf("no scope data")
	}
}
