package gui

// Action is a user request made through the GUI.
type Action int

// Input is sent over the UserInput channel. For the piano keys the Data field
// is a bool indicating whether the key is pressed.
type Input struct {
	Action Action
	Data   any
}

// List of valid Action values
const (
	Nothing Action = iota

	// the piano keys cover thirteen semitones starting from the C of the
	// current octave
	PianoC
	PianoCs
	PianoD
	PianoDs
	PianoE
	PianoF
	PianoFs
	PianoG
	PianoGs
	PianoA
	PianoAs
	PianoB
	PianoC2

	OctaveDown
	OctaveUp
	NextWave
	VolumeDown
	VolumeUp
	Panic
)

// Semitone returns the number of semitones above the C of the current octave
// for a piano key. The bool is false if the action is not a piano key.
func (a Action) Semitone() (int, bool) {
	if a >= PianoC && a <= PianoC2 {
		return int(a - PianoC), true
	}
	return 0, false
}
