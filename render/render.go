// Package render runs a console without the real time clock and writes the
// output as a WAV file. Writers attached to the console are called at the
// frame rate, interleaved with the ticks, so the output is exactly the same
// every time.
package render

import (
	"fmt"
	"math"
	"os"

	"github.com/arl/blip/wave"
	"github.com/jetsetilly/acpmix/hardware"
)

// SampleRate returns the sample rate of the rendered audio for the console
func SampleRate(con *hardware.Console) int {
	return con.OutputRate()
}

// Render runs the console for the number of seconds and writes a WAV file to
// f. Returns the number of ticks that were run.
func Render(con *hardware.Console, f *os.File, seconds float64) (int, error) {
	if seconds <= 0 {
		return 0, fmt.Errorf("render: duration must be positive")
	}

	rate := con.SampleRate()
	ticks := int(math.Round(seconds * rate))

	// anything already in the stream is not part of the render
	con.Stream.Reset()

	wv := wave.NewWriter(f, SampleRate(con))
	defer wv.Close()

	buf := make([]int16, 4096)

	var done int
	for frame := 0; done < ticks; frame++ {
		con.Frame()
		due := int(math.Round(float64(frame+1) * rate / hardware.FrameRate))
		due = min(due, ticks)
		con.Step(due - done)
		done = due

		for con.Stream.Buffered() > 0 {
			n := con.Stream.ReadSamples(buf)
			wv.Write(buf[:n])
		}
	}

	return done, nil
}

// WriteFile renders to the named file.
func WriteFile(con *hardware.Console, filename string, seconds float64) (int, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}

	n, err := Render(con, f, seconds)
	if err != nil {
		_ = f.Close()
		return n, err
	}

	err = f.Close()
	if err != nil {
		return n, fmt.Errorf("render: %w", err)
	}
	return n, nil
}
