package debugger

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jetsetilly/acpmix/gui"
	"github.com/jetsetilly/acpmix/hardware"
	"github.com/jetsetilly/acpmix/hardware/acp/firmware"
	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/mixer"
	"github.com/jetsetilly/acpmix/hardware/clocks"
	"github.com/jetsetilly/acpmix/logger"
	"github.com/jetsetilly/acpmix/render"
	"github.com/jetsetilly/acpmix/script"
	"github.com/jetsetilly/acpmix/sequencer"
	"github.com/jetsetilly/acpmix/version"
	"golang.org/x/term"
)

type input struct {
	s   string
	err error
}

type debugger struct {
	ctx context

	// g is nil when the debugger is running without a GUI
	g       *gui.GUI
	guiQuit chan bool
	sig     chan os.Signal
	input   chan input

	console *hardware.Console
	host    memory.Host
	watches map[uint16]watch

	// the realtime clock runs in its own goroutine between RUN and HALT
	running bool
	stopRun chan bool
	runDone chan error

	// whether stdin is a terminal. the prompt is not printed if it is not
	interactive bool

	// printing styles
	styles styles
}

func newDebugger(g *gui.GUI, guiQuit chan bool, cfg hardware.Config) (*debugger, error) {
	m := &debugger{
		ctx: context{
			logging: true,
		},
		g:       g,
		guiQuit: guiQuit,
		sig:     make(chan os.Signal, 1),
		input:   make(chan input, 1),
		watches: make(map[uint16]watch),
		styles:  newStyles(),
	}

	var err error
	m.console, err = hardware.Create(&m.ctx, g, cfg)
	if err != nil {
		return nil, err
	}
	m.host = memory.NewHost(m.console.ACP.Mem)

	return m, nil
}

func (m *debugger) startClock() {
	if m.running {
		return
	}
	m.stopRun = make(chan bool, 1)
	m.runDone = make(chan error, 1)
	go func() {
		m.runDone <- m.console.Run(m.stopRun)
	}()
	m.running = true
	fmt.Println(m.styles.debugger.Render(
		fmt.Sprintf("running at %.1fHz", m.console.SampleRate()),
	))
}

func (m *debugger) haltClock() {
	if !m.running {
		return
	}
	m.stopRun <- true
	err := <-m.runDone
	m.running = false
	if err != nil {
		fmt.Println(m.styles.err.Render(err.Error()))
	}
	fmt.Println(m.styles.debugger.Render(
		fmt.Sprintf("halted after %d ticks", m.console.ACP.Ticks()),
	))
}

func (m *debugger) reset() {
	wasRunning := m.running
	m.haltClock()

	err := m.console.Reset()
	if err != nil {
		fmt.Println(m.styles.err.Render(err.Error()))
	} else {
		fmt.Println(m.styles.debugger.Render("console reset"))
	}
	fmt.Println(m.styles.state.Render(m.console.Status()))

	if wasRunning {
		m.startClock()
	}
}

func (m *debugger) printWatches(changed []watch) {
	for _, w := range changed {
		fmt.Println(m.styles.watch.Render(
			fmt.Sprintf("watch %s = %02x -> %02x", w.ma, w.prev, w.data),
		))
	}
}

func (m *debugger) prompt() {
	if !m.interactive {
		return
	}
	st := "halted"
	if m.running {
		st = "running"
	}
	fmt.Print(m.styles.prompt.Render(fmt.Sprintf("%s %s", m.console.ACP.State(), st)))
	fmt.Print("> ")
}

func (m *debugger) loop() {
	// watches are checked periodically while the clock is running
	watchCheck := time.NewTicker(100 * time.Millisecond)
	defer watchCheck.Stop()

	var commands chan []string
	if m.g != nil {
		commands = m.g.Commands
	}

	inputs := m.input

	m.prompt()

	for {
		var cmd []string

		select {
		case input := <-inputs:
			if input.err != nil {
				if m.interactive {
					fmt.Println(m.styles.err.Render(input.err.Error()))
				}

				// when stdin is not a terminal the GUI is the only way to quit
				if m.interactive || m.g == nil {
					return
				}
				inputs = nil
				continue // for loop
			}
			cmd = strings.Fields(input.s)
			if len(cmd) == 0 {
				m.prompt()
				continue // for loop
			}
		case cmd = <-commands:
			fmt.Print("\r")
		case <-watchCheck.C:
			if m.running && len(m.watches) > 0 {
				m.printWatches(m.checkWatches())
			}
			continue // for loop
		case <-m.sig:
			fmt.Print("\r")
			if !m.running {
				return
			}
			m.haltClock()
			m.prompt()
			continue // for loop
		case <-m.guiQuit:
			fmt.Print("\n")
			return
		}

		if m.commands(cmd) {
			return
		}

		m.prompt()
	}
}

const programName = "acpmix"

// Launch parses the arguments and runs the monitor until the user quits or the
// GUI is closed. The GUI argument can be nil.
func Launch(guiQuit chan bool, g *gui.GUI, args []string) error {
	var voices int
	var period int
	var gain float64
	var demo bool
	var scriptFile string
	var renderFile string
	var seconds float64
	var profile bool
	var echo bool
	var ver bool

	flgs := flag.NewFlagSet(programName, flag.ExitOnError)
	flgs.IntVar(&voices, "voices", mixer.DefaultVoices, "number of voice slots visited by the mixer")
	flgs.IntVar(&period, "period", clocks.DefaultPeriod, "ACP cycles between ticks")
	flgs.Float64Var(&gain, "gain", 1.0, "gain applied to audio output")
	flgs.BoolVar(&demo, "demo", false, "play the demo sequence on startup")
	flgs.StringVar(&scriptFile, "script", "", "Lua script to attach on startup")
	flgs.StringVar(&renderFile, "render", "", "render to WAV file and exit")
	flgs.Float64Var(&seconds, "seconds", 30, "duration of render in seconds")
	flgs.BoolVar(&profile, "profile", false, "create CPU profile")
	flgs.BoolVar(&echo, "log", false, "echo log entries to stdout")
	flgs.BoolVar(&ver, "version", false, "print version and exit")
	err := flgs.Parse(args)
	if err != nil {
		return err
	}
	if len(flgs.Args()) > 0 {
		return fmt.Errorf("too many arguments to debugger")
	}

	if ver {
		v, rev, _ := version.Version()
		fmt.Printf("%s %s (%s)\n", version.ApplicationName, v, rev)
		return nil
	}

	if echo {
		logger.SetEcho(os.Stdout, true)
		defer logger.SetEcho(nil, false)
	}

	cfg := hardware.DefaultConfig
	cfg.Firmware = firmware.Config{
		Voices: voices,
		Period: period,
	}
	cfg.Gain = gain

	if renderFile != "" {
		cfg.OutputRate = 0
		g = nil
	}

	m, err := newDebugger(g, guiQuit, cfg)
	if err != nil {
		return err
	}

	if demo {
		m.attachDemo()
	}
	if scriptFile != "" {
		m.attachScript(scriptFile)
	}

	if renderFile != "" {
		m.ctx.logging = false
		n, err := render.WriteFile(m.console, renderFile, seconds)
		if err != nil {
			return err
		}
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("%d ticks rendered to %s", n, renderFile),
		))
		return nil
	}

	if profile {
		f, err := os.Create("cpu.profile")
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer func() {
			err := f.Close()
			if err != nil {
				logger.Log(logger.Allow, "performance", err)
			}
		}()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	m.interactive = term.IsTerminal(int(os.Stdin.Fd()))

	signal.Notify(m.sig, syscall.SIGINT)
	defer signal.Stop(m.sig)

	go func() {
		r := bufio.NewReader(os.Stdin)
		for {
			s, err := r.ReadString('\n')
			m.input <- input{
				s:   strings.TrimSpace(s),
				err: err,
			}
			if err != nil {
				return
			}
		}
	}()

	fmt.Println(m.styles.debugger.Render(version.Title()))
	fmt.Println(m.styles.state.Render(m.console.ACP.Mixer()))
	m.startClock()
	defer m.haltClock()

	m.loop()

	return nil
}

// sortedWatches returns the watched addresses in order
func (m *debugger) sortedWatches() []uint16 {
	var a []uint16
	for k := range m.watches {
		a = append(a, k)
	}
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	return a
}

func (m *debugger) attachDemo() {
	d, err := sequencer.NewDemo(m.console.Voices(), m.console.ACP.Config().Voices, m.console.SampleRate())
	if err != nil {
		fmt.Println(m.styles.err.Render(err.Error()))
		return
	}
	m.console.Detach(d.Label())
	m.console.Attach(d)
	fmt.Println(m.styles.writer.Render("demo attached"))
}

func (m *debugger) attachScript(filename string) {
	scr, err := script.LoadFile(&m.ctx, m.console.Voices(), m.console.SampleRate(), filename)
	if err != nil {
		fmt.Println(m.styles.err.Render(err.Error()))
		return
	}
	m.console.Detach(scr.Label())
	m.console.Attach(scr)
	fmt.Println(m.styles.writer.Render(fmt.Sprintf("%s attached", scr.Label())))
}
