package clocks_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/acpmix/hardware/clocks"
	"github.com/jetsetilly/acpmix/test"
)

func TestSampleRate(t *testing.T) {
	test.ExpectApproximate(t, clocks.DefaultSampleRate, 7990.06, 0.01)
	test.ExpectApproximate(t, clocks.SampleRate(256), 13982.6, 0.1)
}

func TestManual(t *testing.T) {
	var m clocks.Manual

	// no handler
	m.Step(10)
	test.ExpectEquality(t, m.Ticks(), 0)

	var ct int
	m.Attach(func() {
		ct++
	})
	m.Step(10)
	m.Tick()
	test.ExpectEquality(t, ct, 11)
	test.ExpectEquality(t, m.Ticks(), 11)
}

func TestRealtime(t *testing.T) {
	r := clocks.NewRealtime(8000)
	test.ExpectEquality(t, r.Rate(), 8000.0)

	stop := make(chan bool)
	done := make(chan error)

	var ct int
	go func() {
		done <- r.Run(stop, func() {
			ct++
		})
	}()

	time.Sleep(100 * time.Millisecond)
	r.Nudge()
	time.Sleep(20 * time.Millisecond)
	close(stop)
	test.ExpectSuccess(t, <-done)

	// the tick function is called on the goroutine running Run() so reading
	// ct is safe after Run() has returned
	test.ExpectEquality(t, uint64(ct), r.Ticks())
	test.ExpectSuccess(t, ct > 0)
}
