package hardware

import (
	"sync"

	"github.com/jetsetilly/acpmix/hardware/acp/dac"
)

// the number of register values kept for the oscilloscope. at the default
// sample rate this is a little more than one frame
const scopeLen = 256

// scope sits between the output register and the audio stream and keeps the
// most recent register values
type scope struct {
	crit sync.Mutex
	ring [scopeLen]uint8
	idx  int
	next dac.Sink
}

func (s *scope) reset() {
	s.crit.Lock()
	defer s.crit.Unlock()
	for i := range s.ring {
		s.ring[i] = dac.Midpoint
	}
	s.idx = 0
}

func (s *scope) Sample(v uint8) {
	s.crit.Lock()
	s.ring[s.idx] = v
	s.idx = (s.idx + 1) % scopeLen
	s.crit.Unlock()

	if s.next != nil {
		s.next.Sample(v)
	}
}

// snapshot returns the ring with the oldest value first
func (s *scope) snapshot() []uint8 {
	s.crit.Lock()
	defer s.crit.Unlock()

	b := make([]uint8, 0, scopeLen)
	b = append(b, s.ring[s.idx:]...)
	b = append(b, s.ring[:s.idx]...)
	return b
}
