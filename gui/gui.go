// Package gui defines the channels and types shared by the emulation and
// whichever GUI implementation is being used. The ebiten implementation is in
// the gui/ebiten package.
package gui

import (
	"io"
)

// State of the emulation as the GUI understands it
type State int

// List of valid State values
const (
	StateRunning State = iota
	StatePaused
)

// AudioReader is implemented by the source of audio data. Nudge() is called
// by the audio player when it is running low on data.
type AudioReader interface {
	io.Reader
	Nudge()
}

// AudioSetup is sent to the GUI when the audio source has been created or has
// changed.
type AudioSetup struct {
	Freq int
	Read AudioReader
}

// Scope is a snapshot of the most recent output register values along with a
// status line describing the voices.
type Scope struct {
	Samples []uint8
	Voices  []string
	Status  string
}

// GUI is the bridge between the emulation and the GUI.
type GUI struct {
	State      chan State
	AudioSetup chan AudioSetup
	SetScope   chan Scope
	UserInput  chan Input
	Commands   chan []string

	// called by the GUI once per frame, from the GUI goroutine. can be nil
	UpdateGUI func() error
}

// NewGUI creates the channels for a GUI.
func NewGUI() *GUI {
	return &GUI{
		State:      make(chan State, 1),
		AudioSetup: make(chan AudioSetup, 1),
		SetScope:   make(chan Scope, 1),
		UserInput:  make(chan Input, 10),
		Commands:   make(chan []string, 1),
	}
}
