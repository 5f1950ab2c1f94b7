package main

import (
	"fmt"
	"os"

	"github.com/jetsetilly/acpmix/debugger"
	"github.com/jetsetilly/acpmix/gui"
	guiebiten "github.com/jetsetilly/acpmix/gui/ebiten"
)

func main() {
	var endGui chan bool
	var endDebugger chan bool
	var resultGui chan error
	var resultDebugger chan error

	// buffered channels. this means we don't have to worry about the gui closing
	// before the debugger and vice versa
	endGui = make(chan bool, 1)
	endDebugger = make(chan bool, 1)

	// similarly, the result channels are buffered because we don't know the
	// order in which the gui and debugger will end
	resultGui = make(chan error, 1)
	resultDebugger = make(chan error, 1)

	g := gui.NewGUI()

	go func() {
		resultDebugger <- debugger.Launch(endDebugger, g, os.Args[1:])
		endGui <- true
	}()

	// ebiten must run on the main thread
	resultGui <- guiebiten.Launch(endGui, g)
	endDebugger <- true

	if err := <-resultGui; err != nil {
		fmt.Printf("*** %s\n", err)
	}
	if err := <-resultDebugger; err != nil {
		fmt.Printf("*** %s\n", err)
	}
}
