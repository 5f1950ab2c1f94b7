package dac

import (
	"sync"

	"github.com/arl/blip"
)

// Ticker is the source of register writes. Each call to Tick() must result in
// exactly one write to the register that the Stream is attached to.
type Ticker interface {
	Tick()
}

// Rates of the clock driving the register and of the audio player reading the
// stream.
type Rates struct {
	// the clock rate of the ACP in Hz
	Clock float64

	// the number of ACP clocks between register writes
	Period int

	// the sample rate of the reader in Hz
	Output int
}

// the delta buffer works with 16bit amplitudes. a change from one extreme of
// the register to the other is larger than that so levels are halved going
// into the buffer and doubled coming out
const levelShift = 1

// Stream is an io.Reader implementation that forwards output register values
// as signed 16bit little-endian mono PCM. It is suitable for the oto audio
// library.
//
// Register values are treated as a series of steps at the ACP clock time of
// each write. The steps are band-limited and resampled to the output rate.
type Stream struct {
	crit  sync.Mutex
	rates Rates
	gain  float64

	buf  *blip.Buffer
	size int

	// the current level in the delta buffer
	level int32

	// maximum number of samples a single register write can make available
	perTick int

	// buffer used by Read() and for discarding stale samples
	scratch []int16

	// called when the reader needs more data than is buffered
	nudge func()
}

// NewStream creates a Stream with the gain applied to every sample. The
// nudge function is called by Read() when the buffer is empty. It can be nil.
func NewStream(rates Rates, gain float64, nudge func()) *Stream {
	s := &Stream{
		rates: rates,
		gain:  gain,
		nudge: nudge,
	}
	s.perTick = int(float64(rates.Output)*float64(rates.Period)/rates.Clock) + 2

	// a tenth of a second of output and never less than a few ticks worth
	s.size = max(rates.Output/10, s.perTick*16)
	s.reset()
	return s
}

func (s *Stream) reset() {
	s.buf = blip.NewBuffer(s.size)
	s.buf.SetRates(s.rates.Clock, float64(s.rates.Output))
	s.level = 0
}

// Reset discards buffered samples and returns the output level to silence.
func (s *Stream) Reset() {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.reset()
}

// Sample implements the Sink interface.
func (s *Stream) Sample(v uint8) {
	l := int32(PCM(v, s.gain)) >> levelShift

	s.crit.Lock()
	defer s.crit.Unlock()

	// the reader has fallen behind. the oldest samples are discarded to make
	// room for the next write
	if int(s.buf.SamplesAvailable())+s.perTick >= s.size {
		s.discard(s.size / 2)
	}

	if d := l - s.level; d != 0 {
		s.buf.AddDelta(0, d)
		s.level = l
	}
	s.buf.EndFrame(s.rates.Period)
}

func (s *Stream) discard(n int) {
	if len(s.scratch) < n {
		s.scratch = make([]int16, n)
	}
	s.buf.ReadSamples(s.scratch, n, blip.Mono)
}

// Prefetch makes sure that the stream has at least n samples buffered by
// ticking the Ticker.
func (s *Stream) Prefetch(t Ticker, n int) {
	n = min(n, s.size-s.perTick)
	for s.Buffered() < n {
		t.Tick()
	}
}

// Buffered returns the number of samples waiting to be read.
func (s *Stream) Buffered() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return int(s.buf.SamplesAvailable())
}

// ReadSamples fills buf with as many samples as are available. Returns the
// number of samples.
func (s *Stream) ReadSamples(buf []int16) int {
	s.crit.Lock()
	defer s.crit.Unlock()

	n := int(s.buf.ReadSamples(buf, len(buf), blip.Mono))
	for i := range n {
		buf[i] = double(buf[i])
	}
	return n
}

func double(v int16) int16 {
	return int16(max(min(int32(v)<<levelShift, 32767), -32768))
}

func (s *Stream) Read(buf []uint8) (int, error) {
	if s.Buffered() == 0 && s.nudge != nil {
		s.nudge()
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	// the number of bytes returned must be a multiple of two because of the
	// sample format (1 channel, 16bit little-endian)
	n := len(buf) / 2
	if len(s.scratch) < n {
		s.scratch = make([]int16, n)
	}
	n = int(s.buf.ReadSamples(s.scratch, n, blip.Mono))

	for i, v := range s.scratch[:n] {
		v = double(v)
		buf[i*2] = uint8(v)
		buf[i*2+1] = uint8(v >> 8)
	}

	return n * 2, nil
}

// Nudge the tick source. Called by an audio player that is running low on
// buffered data.
func (s *Stream) Nudge() {
	if s.nudge != nil {
		s.nudge()
	}
}
