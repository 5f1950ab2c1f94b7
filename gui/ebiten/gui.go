// Package ebiten is the GUI implementation using the ebiten game engine. It
// draws an oscilloscope of the output register, plays the audio stream
// through oto and turns the computer keyboard into a piano.
package ebiten

import (
	"fmt"
	"image/color"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jetsetilly/acpmix/gui"
	"github.com/jetsetilly/acpmix/logger"
	"github.com/jetsetilly/acpmix/version"
	input "github.com/quasilyte/ebitengine-input"
)

type windowGeometry struct {
	x, y int
	w, h int
}

func (g windowGeometry) valid() bool {
	return g.x >= 0 && g.y >= 0 && g.w > 0 && g.h > 0
}

// logical size of the screen
const (
	screenWidth  = 640
	screenHeight = 360
)

// area of the screen used by the oscilloscope
const (
	scopeTop    = 16
	scopeHeight = 256
)

var (
	scopeBackground = color.RGBA{R: 16, G: 24, B: 16, A: 255}
	scopeMidline    = color.RGBA{R: 40, G: 72, B: 40, A: 255}
	scopeTrace      = color.RGBA{R: 96, G: 255, B: 96, A: 255}
)

type guiEbiten struct {
	g    *gui.GUI
	geom windowGeometry

	endGui chan bool
	state  gui.State

	// the oto context can only be created once. the player is recreated if
	// the audio source changes
	otoCtx  *oto.Context
	otoFreq int
	audio   audioPlayer

	// the most recent scope data from the emulation
	scope gui.Scope

	inputSystem  input.System
	inputHandler *input.Handler
}

func (eg *guiEbiten) setupAudio(s gui.AudioSetup) error {
	if s.Read == nil {
		return nil
	}

	if eg.otoCtx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   s.Freq,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return fmt.Errorf("ebiten: %w", err)
		}

		select {
		case <-ready:
		case <-eg.endGui:
			return ebiten.Termination
		}

		eg.otoCtx = ctx
		eg.otoFreq = s.Freq
	} else if s.Freq != eg.otoFreq {
		logger.Logf(logger.Allow, "gui", "audio is %dHz but the player is fixed at %dHz", s.Freq, eg.otoFreq)
	}

	if eg.audio.p != nil {
		err := eg.audio.p.Close()
		if err != nil {
			return fmt.Errorf("ebiten: %w", err)
		}
	}

	eg.audio.crit.Lock()
	eg.audio.r = s.Read
	eg.audio.crit.Unlock()

	eg.audio.p = eg.otoCtx.NewPlayer(&eg.audio)
	eg.audio.p.Play()

	return nil
}

func (eg *guiEbiten) Update() error {
	// deal with quit condition
	select {
	case <-eg.endGui:
		if eg.audio.p != nil {
			eg.audio.p.Close()
		}
		return ebiten.Termination
	default:
	}

	// handle user input
	err := eg.inputKeyboard()
	if err != nil {
		return err
	}

	// drag and drop of files is a special type of input
	err = eg.inputDragAndDrop()
	if err != nil {
		logger.Log(logger.Allow, "gui", err.Error())
	}

	// change state if necessary
	select {
	case eg.state = <-eg.g.State:
		eg.audio.setState(eg.state)
	default:
	}

	// create audio if necessary
	select {
	case s := <-eg.g.AudioSetup:
		err := eg.setupAudio(s)
		if err != nil {
			return err
		}
	default:
	}

	// keep the audio player fed
	if eg.state == gui.StateRunning {
		eg.audio.check()
	}

	// run option update function
	if eg.g.UpdateGUI != nil {
		err := eg.g.UpdateGUI()
		if err != nil {
			return fmt.Errorf("ebiten: %w", err)
		}
	}

	// retrieve any pending scope data
	select {
	case eg.scope = <-eg.g.SetScope:
	default:
	}

	return nil
}

func (eg *guiEbiten) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, scopeTop, screenWidth, scopeHeight, scopeBackground, false)

	// the midpoint of the output register is the zero line
	mid := float32(scopeTop + scopeHeight/2)
	vector.StrokeLine(screen, 0, mid, screenWidth, mid, 1, scopeMidline, false)

	// the register is an unsigned byte and so maps directly onto the height
	// of the scope
	if n := len(eg.scope.Samples); n > 1 {
		dx := float32(screenWidth) / float32(n-1)
		y := func(v uint8) float32 {
			return float32(scopeTop+scopeHeight-1) - float32(v)
		}
		for i := 1; i < n; i++ {
			x0 := float32(i-1) * dx
			x1 := float32(i) * dx
			vector.StrokeLine(screen, x0, y(eg.scope.Samples[i-1]), x1, y(eg.scope.Samples[i]), 1, scopeTrace, true)
		}
	}

	ebitenutil.DebugPrintAt(screen, eg.scope.Status, 4, 0)
	for i, v := range eg.scope.Voices {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d %s", i, v), 4+(i%2)*320, scopeTop+scopeHeight+4+(i/2)*16)
	}

	if eg.state == gui.StatePaused {
		ebitenutil.DebugPrintAt(screen, "halted", screenWidth-48, 0)
	}

	eg.geom.x, eg.geom.y = ebiten.WindowPosition()
	eg.geom.w, eg.geom.h = ebiten.WindowSize()
}

func (eg *guiEbiten) Layout(width, height int) (int, int) {
	return screenWidth, screenHeight
}

// Launch the GUI. Returns when the window is closed or when endGui receives a
// value.
func Launch(endGui chan bool, g *gui.GUI) error {
	ebiten.SetWindowTitle(version.Title())
	ebiten.SetVsyncEnabled(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowPosition(10, 10)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	eg := &guiEbiten{
		endGui: endGui,
		g:      g,
		state:  gui.StateRunning,
		audio: audioPlayer{
			state: gui.StateRunning,
		},
	}

	eg.inputSystem.Init(input.SystemConfig{
		DevicesEnabled: input.AnyDevice,
	})
	eg.inputHandler = eg.inputSystem.NewHandler(0, keymap)

	var err error

	eg.geom, err = onWindowOpen()
	if err != nil {
		logger.Log(logger.Allow, "gui", err.Error())
	}
	if eg.geom.valid() {
		ebiten.SetWindowPosition(eg.geom.x, eg.geom.y)
		ebiten.SetWindowSize(eg.geom.w, eg.geom.h)
	}

	defer func() {
		err := onWindowClose(eg.geom)
		if err != nil {
			logger.Log(logger.Allow, "gui", err.Error())
			return
		}
	}()

	return ebiten.RunGame(eg)
}
