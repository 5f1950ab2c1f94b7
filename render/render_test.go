package render_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/acpmix/hardware"
	"github.com/jetsetilly/acpmix/render"
	"github.com/jetsetilly/acpmix/sequencer"
	"github.com/jetsetilly/acpmix/test"
)

type quiet struct{}

func (quiet) AllowLogging() bool {
	return false
}

func create(t *testing.T, outputRate int) *hardware.Console {
	t.Helper()
	cfg := hardware.DefaultConfig
	cfg.OutputRate = outputRate
	con, err := hardware.Create(quiet{}, nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return con
}

// renders to a temporary file and returns the content of the file
func renderFile(t *testing.T, con *hardware.Console, seconds float64) (int, []byte) {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "out.wav")
	n, err := render.WriteFile(con, fn, seconds)
	test.ExpectSuccess(t, err)
	wav, err := os.ReadFile(fn)
	test.ExpectSuccess(t, err)
	return n, wav
}

// the samples of a mono 16bit WAV file with a canonical header
func samples(wav []byte) []int16 {
	data := wav[44:]
	s := make([]int16, len(data)/2)
	for i := range s {
		s[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return s
}

func TestSilence(t *testing.T) {
	con := create(t, 0)

	n, wav := renderFile(t, con, 0.5)
	test.ExpectEquality(t, n, 3995)
	test.ExpectEquality(t, con.ACP.Ticks(), uint64(n))

	test.ExpectEquality(t, string(wav[0:4]), "RIFF")
	test.ExpectEquality(t, string(wav[8:12]), "WAVE")
	test.ExpectEquality(t, binary.LittleEndian.Uint32(wav[24:28]), 7990)

	// about one sample per tick when the output rate is the tick rate
	s := samples(wav)
	test.ExpectSuccess(t, len(s) >= n-2 && len(s) <= n+1)

	// every sample is silent
	for _, v := range s {
		test.ExpectEquality(t, v, 0)
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "zero.wav"))
	test.ExpectSuccess(t, err)
	defer f.Close()
	_, err = render.Render(con, f, 0)
	test.ExpectFailure(t, err)
}

func TestDemo(t *testing.T) {
	con := create(t, 0)
	voices := con.Config().Firmware.Voices

	d, err := sequencer.NewDemo(con.Voices(), voices, con.SampleRate())
	test.ExpectSuccess(t, err)
	con.Attach(d)

	_, wav := renderFile(t, con, 2.0)
	test.ExpectEquality(t, con.Frames(), 2*hardware.FrameRate)

	// the first second is silent and the second second is not
	s := samples(wav)
	sec := len(s) / 2

	for _, v := range s[:sec-100] {
		test.ExpectEquality(t, v, 0)
	}
	var loud bool
	for _, v := range s[sec:] {
		if v != 0 {
			loud = true
			break
		}
	}
	test.ExpectSuccess(t, loud)

	// rendering again from a reset produces the same output
	test.ExpectSuccess(t, con.Reset())
	d, _ = sequencer.NewDemo(con.Voices(), voices, con.SampleRate())
	con.Attach(d)
	_, again := renderFile(t, con, 2.0)
	test.ExpectSuccess(t, bytes.Equal(wav, again))
}

func TestResampled(t *testing.T) {
	con := create(t, 22050)
	_, wav := renderFile(t, con, 0.25)
	test.ExpectEquality(t, binary.LittleEndian.Uint32(wav[24:28]), 22050)

	// about a quarter of a second of resampled audio
	s := samples(wav)
	test.ExpectSuccess(t, len(s) >= 5505 && len(s) <= 5515)
}
