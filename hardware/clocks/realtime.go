package clocks

import (
	"sync/atomic"
	"time"
)

// Realtime is a tick source paced against the wall clock. A goroutine cannot
// wake up once per sample period so ticks are fired in batches. Each time the
// source wakes it fires the number of ticks that are due since it last woke.
type Realtime struct {
	rate float64

	// interval between wake-ups
	interval time.Duration

	// a nudge causes the source to fire a batch immediately without waiting
	// for the next wake-up. used when the audio player is running low
	nudge chan bool

	// the maximum number of ticks to fire on any one wake-up. if the source
	// falls behind by more than this then the excess is abandoned
	maxBatch int

	ticks atomic.Uint64
}

// NewRealtime creates a tick source for the sample rate.
func NewRealtime(rate float64) *Realtime {
	return &Realtime{
		rate:     rate,
		interval: time.Millisecond * 5,
		nudge:    make(chan bool, 1),
		maxBatch: int(rate / 10),
	}
}

// Rate returns the sample rate in Hz
func (r *Realtime) Rate() float64 {
	return r.rate
}

// Ticks returns the number of ticks fired.
func (r *Realtime) Ticks() uint64 {
	return r.ticks.Load()
}

// Nudge the source so that it fires the next batch of ticks early. A nudge
// also lets the source run ahead of the wall clock by a short while.
func (r *Realtime) Nudge() {
	select {
	case r.nudge <- true:
	default:
	}
}

// Run fires ticks until stop is closed or receives a value. The tick function
// is called from the goroutine that calls Run().
func (r *Realtime) Run(stop <-chan bool, tick func()) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	start := time.Now()
	var fired uint64

	// number of ticks the source is allowed to be ahead of the wall clock.
	// increased by a nudge and reduced as the wall clock catches up
	var lead uint64

	batch := func() {
		due := uint64(time.Now().Sub(start).Seconds()*r.rate) + lead
		if due <= fired {
			return
		}

		n := due - fired
		if n > uint64(r.maxBatch) {
			// abandon the ticks that are too late to be useful
			fired = due - uint64(r.maxBatch)
			n = uint64(r.maxBatch)
		}

		for range n {
			tick()
		}
		fired += n
		r.ticks.Add(n)
	}

	for {
		select {
		case <-stop:
			return nil
		case <-t.C:
			if lead > 0 {
				lead -= min(lead, uint64(r.rate*r.interval.Seconds())/2)
			}
			batch()
		case <-r.nudge:
			lead += uint64(r.rate * r.interval.Seconds())
			batch()
		}
	}
}
