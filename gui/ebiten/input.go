package ebiten

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jetsetilly/acpmix/gui"
	"github.com/jetsetilly/acpmix/resources"
	input "github.com/quasilyte/ebitengine-input"
)

// the piano uses the tracker layout. the middle row of the keyboard is the
// white keys and the row above is the black keys
var keymap = input.Keymap{
	input.Action(gui.PianoC):  {input.KeyA},
	input.Action(gui.PianoCs): {input.KeyW},
	input.Action(gui.PianoD):  {input.KeyS},
	input.Action(gui.PianoDs): {input.KeyE},
	input.Action(gui.PianoE):  {input.KeyD},
	input.Action(gui.PianoF):  {input.KeyF},
	input.Action(gui.PianoFs): {input.KeyT},
	input.Action(gui.PianoG):  {input.KeyG},
	input.Action(gui.PianoGs): {input.KeyY},
	input.Action(gui.PianoA):  {input.KeyH},
	input.Action(gui.PianoAs): {input.KeyU},
	input.Action(gui.PianoB):  {input.KeyJ},
	input.Action(gui.PianoC2): {input.KeyK},

	input.Action(gui.OctaveDown): {input.KeyZ, input.KeyGamepadLeft},
	input.Action(gui.OctaveUp):   {input.KeyX, input.KeyGamepadRight},
	input.Action(gui.NextWave):   {input.KeySpace, input.KeyGamepadA},
	input.Action(gui.VolumeDown): {input.KeyDown, input.KeyGamepadDown},
	input.Action(gui.VolumeUp):   {input.KeyUp, input.KeyGamepadUp},
	input.Action(gui.Panic):      {input.KeyP, input.KeyGamepadB},
}

// dropped scripts are copied here, relative to the resources path
const scriptsDir = "scripts"

// the order in which actions are checked. the order of a map is not fixed and
// when a key is released and another pressed in the same frame the release
// must be sent first
var actions = []gui.Action{
	gui.PianoC, gui.PianoCs, gui.PianoD, gui.PianoDs, gui.PianoE, gui.PianoF,
	gui.PianoFs, gui.PianoG, gui.PianoGs, gui.PianoA, gui.PianoAs, gui.PianoB,
	gui.PianoC2, gui.OctaveDown, gui.OctaveUp, gui.NextWave, gui.VolumeDown,
	gui.VolumeUp, gui.Panic,
}

func (eg *guiEbiten) sendInput(inp gui.Input) bool {
	select {
	case eg.g.UserInput <- inp:
		return true
	default:
		return false
	}
}

func (eg *guiEbiten) inputKeyboard() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	eg.inputSystem.Update()

	for _, a := range actions {
		if eg.inputHandler.ActionIsJustReleased(input.Action(a)) {
			if !eg.sendInput(gui.Input{Action: a, Data: false}) {
				return nil
			}
		}
	}

	for _, a := range actions {
		if eg.inputHandler.ActionIsJustPressed(input.Action(a)) {
			if !eg.sendInput(gui.Input{Action: a, Data: true}) {
				return nil
			}
		}
	}

	return nil
}

// dropping a Lua file onto the window attaches it as a script. the dropped
// file is copied to the scripts directory in the resources path first because
// the names in the dropped filesystem are not real paths
func (eg *guiEbiten) inputDragAndDrop() error {
	df := ebiten.DroppedFiles()
	if df == nil {
		return nil
	}

	entries, err := fs.ReadDir(df, ".")
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".lua") {
			continue
		}

		b, err := fs.ReadFile(df, e.Name())
		if err != nil {
			return err
		}

		pth, err := resources.JoinPath(scriptsDir, e.Name())
		if err != nil {
			return err
		}

		err = resources.WriteBytes(pth, b)
		if err != nil {
			return err
		}

		select {
		case eg.g.Commands <- []string{"SCRIPT", pth}:
		default:
		}
	}

	return nil
}
