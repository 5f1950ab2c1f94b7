package voice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Note is a MIDI note number. Middle C (C4) is 60 and concert A (A4) is 69.
type Note uint8

// Some useful note values
const (
	C4 Note = 60
	A4 Note = 69
)

// MaxNote is the highest MIDI note
const MaxNote Note = 127

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (n Note) String() string {
	return fmt.Sprintf("%s%d", noteNames[n%12], int(n)/12-1)
}

// Hz returns the frequency of the note in equal temperament.
func (n Note) Hz() float64 {
	return 440 * math.Pow(2, (float64(n)-69)/12)
}

// Increment returns the phase increment required to play the note at the
// sample rate. The result is clamped to the range of a 16bit phase increment.
func Increment(n Note, sampleRate float64) uint16 {
	return FrequencyIncrement(n.Hz(), sampleRate)
}

// FrequencyIncrement returns the phase increment for a frequency in Hz at the
// sample rate.
func FrequencyIncrement(hz float64, sampleRate float64) uint16 {
	if sampleRate <= 0 || hz <= 0 {
		return 0
	}
	inc := math.Round(hz * 65536 / sampleRate)
	return uint16(min(inc, math.MaxUint16))
}

// ParseNote converts a string such as "C4", "c#3" or "A-1" into a Note. A
// plain number is accepted as a MIDI note number.
func ParseNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("note: empty string")
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > int(MaxNote) {
			return 0, fmt.Errorf("note: %d out of range", n)
		}
		return Note(n), nil
	}

	u := strings.ToUpper(s)

	var name string
	if len(u) > 1 && u[1] == '#' {
		name = u[:2]
	} else {
		name = u[:1]
	}

	idx := -1
	for i, nn := range noteNames {
		if nn == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, fmt.Errorf("note: unrecognised note name in %s", s)
	}

	octave, err := strconv.Atoi(u[len(name):])
	if err != nil {
		return 0, fmt.Errorf("note: unrecognised octave in %s", s)
	}

	n := (octave+1)*12 + idx
	if n < 0 || n > int(MaxNote) {
		return 0, fmt.Errorf("note: %s out of range", s)
	}
	return Note(n), nil
}
