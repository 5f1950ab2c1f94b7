// Package sequencer contains frame driven writers for the voice bank. They
// run on the host and only communicate with the mixer through the voice
// records.
package sequencer

import (
	"fmt"

	"github.com/jetsetilly/acpmix/hardware"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
)

// the number of frames in each step of the demo
const framesPerStep = hardware.FrameRate

// fade intervals in frames. each interval lowers the volume by one level
const (
	backgroundFade = 14
	melodyFade     = 15
)

// the voice used for the melody
const melodyVoice = 5

// the final step of the demo
const lastStep = 26

// the chord is built up one note per step, starting with step 1
var chord = []voice.Note{
	voice.C4,      // C4
	voice.C4 + 4,  // E4
	voice.C4 + 7,  // G4
	voice.C4 + 11, // B4
	voice.C4 + 14, // D5
}

// the arpeggio is played on step 8
var arpeggio = map[int]voice.Note{
	0:  voice.C4 + 16, // E5
	20: voice.C4 + 11, // B4
	40: voice.C4 + 7,  // G4
}

// Demo builds a Cmaj9 chord over five seconds, plays a short arpeggio on the
// melody voice while the chord fades and then fades the melody.
type Demo struct {
	bank       *voice.Bank
	sampleRate float64

	frame int
	step  int

	bgLevel     uint8
	melodyLevel uint8
	bgFade      int
	melodyFade  int
}

// NewDemo prepares the bank for the demo. Every slot is set to the sine
// waveform and silenced.
//
// The voices argument is the number of voices being mixed. The bank always
// has the full number of slots but slots beyond the mixed voices are never
// heard.
func NewDemo(bank *voice.Bank, voices int, sampleRate float64) (*Demo, error) {
	if voices <= melodyVoice || bank.Len() <= melodyVoice {
		return nil, fmt.Errorf("demo: needs %d mixed voices, have %d", melodyVoice+1, voices)
	}

	for i := range bank.Len() {
		s, err := bank.Slot(i)
		if err != nil {
			return nil, fmt.Errorf("demo: %w", err)
		}
		s.SetWavetable(wavetable.Address(wavetable.Sine))
		s.SetVolume(0)
	}

	return &Demo{
		bank:        bank,
		sampleRate:  sampleRate,
		bgLevel:     volume.MaxLevel,
		melodyLevel: volume.MaxLevel,
	}, nil
}

// Label implements the hardware.Writer interface.
func (d *Demo) Label() string {
	return "demo"
}

func (d *Demo) String() string {
	return fmt.Sprintf("step=%d frame=%d background=%d melody=%d", d.step, d.frame, d.bgLevel, d.melodyLevel)
}

// Step returns the current step of the demo
func (d *Demo) Step() int {
	return d.step
}

func (d *Demo) slot(i int) voice.Slot {
	// the slot number has been checked in NewDemo()
	s, _ := d.bank.Slot(i)
	return s
}

// Frame implements the hardware.Writer interface. The frame argument is
// ignored because the demo keeps its own count.
func (d *Demo) Frame(_ int) error {
	if d.step > lastStep {
		return hardware.ErrFinished
	}

	switch {
	case d.step >= 1 && d.step <= len(chord):
		if d.frame == 0 {
			s := d.slot(d.step - 1)
			s.SetNote(chord[d.step-1], d.sampleRate)
			s.SetVolume(d.bgLevel)
		}

	case d.step >= 6 && d.step <= 9:
		if d.step == 6 && d.frame == 0 {
			d.slot(melodyVoice).SetVolume(d.melodyLevel)
		}

		if d.step == 8 {
			if n, ok := arpeggio[d.frame]; ok {
				d.slot(melodyVoice).SetNote(n, d.sampleRate)
			}
		}

		d.bgFade++
		if d.bgFade >= backgroundFade {
			d.bgFade = 0
			if d.bgLevel > 0 {
				d.bgLevel--
				for i := range chord {
					d.slot(i).SetVolume(d.bgLevel)
				}
			}
		}

	case d.step >= 10 && d.step <= lastStep:
		d.melodyFade++
		if d.melodyFade >= melodyFade {
			d.melodyFade = 0
			if d.melodyLevel > 0 {
				d.melodyLevel--
				d.slot(melodyVoice).SetVolume(d.melodyLevel)
			}
		}
	}

	d.frame++
	if d.frame >= framesPerStep {
		d.frame = 0
		d.step++
	}

	return nil
}
