package hardware

import (
	"github.com/jetsetilly/acpmix/gui"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
	"github.com/jetsetilly/acpmix/logger"
)

// the piano plays a single voice from the keyboard
type piano struct {
	slot   int
	octave int
	wave   int
	level  uint8

	// the key currently held. releasing any other key does nothing
	held gui.Action
}

const (
	minOctave = -1
	maxOctave = 8
)

func newPiano(slot int) piano {
	return piano{
		slot:   slot,
		octave: 4,
		wave:   wavetable.Sine,
		level:  12,
	}
}

// the note for the key in the current octave. the C in octave -1 is MIDI
// note zero
func (p piano) note(semitone int) voice.Note {
	n := (p.octave+1)*12 + semitone
	return voice.Note(min(n, int(voice.MaxNote)))
}

func (con *Console) handleInput() {
	if con.g == nil {
		return
	}

	var drained bool
	for !drained {
		select {
		default:
			drained = true
		case inp := <-con.g.UserInput:
			con.Input(inp)
		}
	}
}

// Input applies a single user input to the piano voice.
func (con *Console) Input(inp gui.Input) {
	p := &con.piano

	s, err := con.ACP.Voices.Slot(p.slot)
	if err != nil {
		logger.Log(con.ctx, "piano", err)
		return
	}

	pressed, _ := inp.Data.(bool)

	if semitone, ok := inp.Action.Semitone(); ok {
		if pressed {
			p.held = inp.Action
			s.SetWaveSlot(p.wave)
			s.SetNote(p.note(semitone), con.SampleRate())
			s.SetVolume(p.level)
		} else if p.held == inp.Action {
			p.held = gui.Nothing
			s.Mute()
		}
		return
	}

	if !pressed {
		return
	}

	switch inp.Action {
	case gui.OctaveDown:
		p.octave = max(p.octave-1, minOctave)
		logger.Logf(con.ctx, "piano", "octave %d", p.octave)
	case gui.OctaveUp:
		p.octave = min(p.octave+1, maxOctave)
		logger.Logf(con.ctx, "piano", "octave %d", p.octave)
	case gui.NextWave:
		p.wave = (p.wave + 1) % wavetable.Count
		logger.Logf(con.ctx, "piano", "waveform %s", wavetable.Name(p.wave))
	case gui.VolumeDown:
		p.level = max(p.level-1, 1)
		logger.Logf(con.ctx, "piano", "volume %d", p.level)
	case gui.VolumeUp:
		p.level = min(p.level+1, volume.MaxLevel)
		logger.Logf(con.ctx, "piano", "volume %d", p.level)
	case gui.Panic:
		p.held = gui.Nothing
		con.ACP.Voices.Silence()
		logger.Log(con.ctx, "piano", "all voices silenced")
	}
}
