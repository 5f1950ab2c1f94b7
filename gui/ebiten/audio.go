package ebiten

import (
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/acpmix/gui"
)

type audioPlayer struct {
	p *oto.Player
	r gui.AudioReader

	// the state field is accessed by the Read() function via the audio
	// engine, and by the GUI which is in another goroutine. access to the state
	// field therefore, is proctected by a mutex
	crit  sync.Mutex
	state gui.State
}

// the oto player holds its own lock while calling Read() so the player must
// not be paused or resumed while crit is held
func (a *audioPlayer) setState(state gui.State) {
	a.crit.Lock()
	a.state = state
	a.crit.Unlock()

	if a.p != nil {
		if state == gui.StatePaused {
			a.p.Pause()
		} else {
			a.p.Play()
		}
	}
}

// the amount of data in bytes the player should have buffered. any less and
// the tick clock is nudged
const prefetch = 2048

// check the amount of buffered data. called once per GUI update
func (a *audioPlayer) check() {
	if a.p == nil || a.r == nil {
		return
	}
	if a.p.BufferedSize() < prefetch {
		a.r.Nudge()
	}
}

func (a *audioPlayer) Read(buf []uint8) (int, error) {
	a.crit.Lock()
	defer a.crit.Unlock()
	if a.state != gui.StateRunning {
		return 0, nil
	}
	return a.r.Read(buf)
}
