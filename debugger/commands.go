package debugger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/acpmix/hardware"
	"github.com/jetsetilly/acpmix/hardware/acp/memory"
	"github.com/jetsetilly/acpmix/hardware/acp/mixer"
	"github.com/jetsetilly/acpmix/hardware/acp/voice"
	"github.com/jetsetilly/acpmix/hardware/acp/volume"
	"github.com/jetsetilly/acpmix/hardware/acp/wavetable"
	"github.com/jetsetilly/acpmix/logger"
)

const help = `RUN                  start the tick clock
HALT                 stop the tick clock
TICK [n]             fire n ticks (clock must be halted)
FRAME [n]            run n frames of writers and ticks (clock must be halted)
STATE                summary of the firmware state
VOICES               all voice records
VOICE v              a single voice record
NOTE v n             set voice v to MIDI note n (eg. 60 or C4)
FREQ v inc           set the phase increment of voice v
VOL v l              set voice v to volume level l (0 to 16)
WAVE v w             set voice v to waveform slot w
MUTE v|ALL           silence voice v or all voices
SYNC v               reset the phase of voice v
PEEK addr            read ACP memory. host addresses ($3000 to $3fff) are mapped
POKE addr val        write ACP memory
DUMP from to         hex dump of ACP memory
REGIONS              the ACP memory map
WAVES                the waveform and volume curve slots
BUDGET               cycle budget of the mixer
DEMO                 attach the demo sequence
SCRIPT file          attach a Lua script
DETACH label         detach a writer
WATCH addr           watch an address for changes
WATCH DROP addr|ALL  remove a watch
LIST                 list watches and writers
RESET                reboot the firmware
LOG                  show the log
QUIT                 quit`

// voiceArg parses the voice number argument and returns the slot
func (m *debugger) voiceArg(arg string) (voice.Slot, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("voice number is not valid: %s", arg),
		))
		return voice.Slot{}, false
	}
	s, err := m.console.Voices().Slot(n)
	if err != nil {
		fmt.Println(m.styles.err.Render(err.Error()))
		return voice.Slot{}, false
	}
	return s, true
}

// countArg parses an optional count argument. the default is one
func (m *debugger) countArg(cmd []string) (int, bool) {
	if len(cmd) < 2 {
		return 1, true
	}
	n, err := strconv.Atoi(cmd[1])
	if err != nil || n < 1 {
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("%s count is not valid: %s", cmd[0], cmd[1]),
		))
		return 0, false
	}
	return n, true
}

func (m *debugger) printVoice(i int) {
	s, err := m.console.Voices().Slot(i)
	if err != nil {
		fmt.Println(m.styles.err.Render(err.Error()))
		return
	}

	v := s.Read()
	var mixed string
	if i >= m.console.ACP.Config().Voices {
		mixed = " (not mixed)"
	}
	l := fmt.Sprintf("%d: %s vol=%d%s", i, v.String(), s.Volume(), mixed)

	if v.IsSilent() {
		fmt.Println(m.styles.silent.Render(l))
	} else {
		fmt.Println(m.styles.voice.Render(l))
	}
}

// returns true if debugger is to quit
func (m *debugger) commands(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}

	switch strings.ToUpper(cmd[0]) {
	case "HELP":
		fmt.Println(help)

	case "R", "RUN":
		m.startClock()

	case "H", "HALT":
		m.haltClock()

	case "T", "TICK":
		if m.running {
			fmt.Println(m.styles.err.Render("TICK requires the clock to be halted"))
			break // switch
		}
		n, ok := m.countArg(cmd)
		if !ok {
			break // switch
		}
		m.console.Step(n)
		m.printWatches(m.checkWatches())
		fmt.Println(m.styles.state.Render(m.console.ACP.Out.String()))

	case "FRAME":
		if m.running {
			fmt.Println(m.styles.err.Render("FRAME requires the clock to be halted"))
			break // switch
		}
		n, ok := m.countArg(cmd)
		if !ok {
			break // switch
		}
		perFrame := int(m.console.SampleRate() / hardware.FrameRate)
		for range n {
			m.console.Frame()
			m.console.Step(perFrame)
		}
		m.printWatches(m.checkWatches())
		fmt.Println(m.styles.state.Render(m.console.Status()))

	case "STATE":
		fmt.Println(m.styles.state.Render(m.console.Status()))
		fmt.Println(m.styles.state.Render(m.console.ACP.Mixer()))
		fmt.Println(m.styles.state.Render(m.console.ACP.Vectors().String()))

	case "VOICES":
		for i := range m.console.Voices().Len() {
			m.printVoice(i)
		}

	case "VOICE":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render("VOICE requires a voice number"))
			break // switch
		}
		if s, ok := m.voiceArg(cmd[1]); ok {
			m.printVoice(s.Number())
		}

	case "NOTE":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render("NOTE requires a voice number and a note"))
			break // switch
		}
		s, ok := m.voiceArg(cmd[1])
		if !ok {
			break // switch
		}
		var n voice.Note
		if v, err := strconv.Atoi(cmd[2]); err == nil {
			if v < 0 || v > int(voice.MaxNote) {
				fmt.Println(m.styles.err.Render(fmt.Sprintf("note out of range: %d", v)))
				break // switch
			}
			n = voice.Note(v)
		} else {
			n, err = voice.ParseNote(cmd[2])
			if err != nil {
				fmt.Println(m.styles.err.Render(err.Error()))
				break // switch
			}
		}
		s.SetNote(n, m.console.SampleRate())
		fmt.Println(m.styles.voice.Render(
			fmt.Sprintf("voice %d: %s (%.2fHz)", s.Number(), n, n.Hz()),
		))

	case "FREQ":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render("FREQ requires a voice number and a phase increment"))
			break // switch
		}
		s, ok := m.voiceArg(cmd[1])
		if !ok {
			break // switch
		}
		arg := cmd[2]
		if strings.HasPrefix(arg, "$") {
			arg = fmt.Sprintf("0x%s", arg[1:])
		}
		inc, err := strconv.ParseUint(arg, 0, 16)
		if err != nil {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("phase increment is not valid: %s", cmd[2])))
			break // switch
		}
		s.SetFrequency(uint16(inc))

	case "VOL", "VOLUME":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render("VOL requires a voice number and a volume level"))
			break // switch
		}
		s, ok := m.voiceArg(cmd[1])
		if !ok {
			break // switch
		}
		l, err := strconv.Atoi(cmd[2])
		if err != nil || l < 0 || l > volume.MaxLevel {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("volume level must be between 0 and %d", volume.MaxLevel),
			))
			break // switch
		}
		s.SetVolume(uint8(l))

	case "WAVE":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render("WAVE requires a voice number and a waveform slot"))
			break // switch
		}
		s, ok := m.voiceArg(cmd[1])
		if !ok {
			break // switch
		}
		w, err := strconv.Atoi(cmd[2])
		if err != nil {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("waveform slot is not valid: %s", cmd[2])))
			break // switch
		}
		err = s.SetWaveSlot(w)
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
		}

	case "MUTE":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render("MUTE requires a voice number or ALL"))
			break // switch
		}
		if strings.ToUpper(cmd[1]) == "ALL" {
			m.console.Voices().Silence()
			break // switch
		}
		if s, ok := m.voiceArg(cmd[1]); ok {
			s.Mute()
		}

	case "SYNC":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render("SYNC requires a voice number"))
			break // switch
		}
		if s, ok := m.voiceArg(cmd[1]); ok {
			s.ResetPhase()
		}

	case "PEEK":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render("PEEK requires an address"))
			break // switch
		}
		ma, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("peek: %s", err.Error())))
			break // switch
		}
		data := m.console.ACP.Mem.Read(ma.idx)
		fmt.Println(m.styles.mem.Render(
			fmt.Sprintf("%s = %02x (%s)", ma, data, memory.RegionOf(ma.idx).Name),
		))

	case "POKE":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render("POKE requires an address and a value"))
			break // switch
		}
		ma, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("poke: %s", err.Error())))
			break // switch
		}
		data, err := parseByte(cmd[2])
		if err != nil {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("poke: %s", err.Error())))
			break // switch
		}
		if ma.host {
			err = m.host.Write(ma.address, data)
			if err != nil {
				fmt.Println(m.styles.err.Render(err.Error()))
				break // switch
			}
		} else {
			m.console.ACP.Mem.Write(ma.idx, data)
		}

	case "DUMP":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render("DUMP requires a 'from' and a 'to' address"))
			break // switch
		}
		from, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("dump: %s", err.Error())))
			break // switch
		}
		to, err := m.parseAddress(cmd[2])
		if err != nil {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("dump: %s", err.Error())))
			break // switch
		}
		if to.idx < from.idx {
			fmt.Println(m.styles.err.Render("dump: the 'to' address is less than the 'from' address"))
			break // switch
		}
		fmt.Print(m.styles.mem.Render(m.console.ACP.Mem.Dump(from.idx, to.idx)))
		fmt.Println()

	case "REGIONS":
		for _, r := range memory.Regions() {
			fmt.Println(m.styles.mem.Render(r.String()))
		}

	case "WAVES":
		for i := range wavetable.Count {
			fmt.Println(m.styles.mem.Render(
				fmt.Sprintf("wave %d: $%04x %s", i, wavetable.Address(i), wavetable.Name(i)),
			))
		}
		for i := range volume.Count {
			b := volume.DocumentedBounds(i)
			fmt.Println(m.styles.mem.Render(
				fmt.Sprintf("curve %d: $%04x %s (%02x-%02x)", i, volume.Address(i), volume.Scale(i), b.Min, b.Max),
			))
		}

	case "BUDGET":
		cfg := m.console.ACP.Config()
		b := mixer.Budget{Period: cfg.Period}
		fmt.Println(m.styles.state.Render(
			fmt.Sprintf("period %d cycles, %d voices, worst case %d, best case %d, headroom %d",
				cfg.Period, cfg.Voices, mixer.WorstCase(cfg.Voices), mixer.BestCase(cfg.Voices), b.Headroom(cfg.Voices)),
		))
		fmt.Println(m.styles.state.Render(
			fmt.Sprintf("at most %d voices fit the period", b.MaxVoices()),
		))

	case "DEMO":
		m.attachDemo()

	case "SCRIPT":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render("SCRIPT requires a filename"))
			break // switch
		}
		m.attachScript(strings.Join(cmd[1:], " "))

	case "DETACH":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render("DETACH requires a writer label"))
			break // switch
		}
		if !m.console.Detach(cmd[1]) {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("no writer labelled %s", cmd[1])))
			break // switch
		}
		fmt.Println(m.styles.writer.Render(fmt.Sprintf("%s detached", cmd[1])))

	case "WATCH":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render("WATCH requires an address"))
			break // switch
		}

		// we check the first argument for special keywords before assuming
		// it is an address. the keywords are case insensitive
		if strings.ToUpper(cmd[1]) == "DROP" {
			if len(cmd) < 3 {
				fmt.Println(m.styles.err.Render("WATCH DROP requires an address"))
				break // switch
			}
			if strings.ToUpper(cmd[2]) == "ALL" {
				clear(m.watches)
				break // switch
			}
			ma, err := m.parseAddress(cmd[2])
			if err != nil {
				fmt.Println(m.styles.err.Render(fmt.Sprintf("watch: %s", err.Error())))
				break // switch
			}
			if _, ok := m.watches[ma.idx]; !ok {
				fmt.Println(m.styles.debugger.Render(fmt.Sprintf("watch for %s not present", ma)))
				break // switch
			}
			delete(m.watches, ma.idx)
			fmt.Println(m.styles.debugger.Render(fmt.Sprintf("watch %s has been removed", ma)))
			break // switch
		}

		ma, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("watch: %s", err.Error())))
			break // switch
		}
		if _, ok := m.watches[ma.idx]; ok {
			fmt.Println(m.styles.err.Render(fmt.Sprintf("watch for %s already present", ma)))
			break // switch
		}
		m.watches[ma.idx] = watch{
			ma:   ma,
			data: m.console.ACP.Mem.Read(ma.idx),
		}
		fmt.Println(m.styles.debugger.Render(fmt.Sprintf("added watch for %s", ma)))

	case "LIST":
		fmt.Println(m.styles.debugger.Render("watches"))
		if len(m.watches) == 0 {
			fmt.Println("none")
		} else {
			for _, a := range m.sortedWatches() {
				w := m.watches[a]
				fmt.Printf("%s = %02x\n", w.ma, w.data)
			}
		}
		fmt.Println(m.styles.debugger.Render("writers"))
		if w := m.console.Writers(); len(w) == 0 {
			fmt.Println("none")
		} else {
			for _, l := range w {
				fmt.Println(l)
			}
		}

	case "RESET":
		m.reset()

	case "LOG":
		logger.Tail(os.Stdout, -1)

	case "QUIT", "Q":
		return true

	default:
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("unrecognised command: %s", strings.Join(cmd, " ")),
		))
	}

	return false
}
