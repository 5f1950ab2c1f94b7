package volume

// SilenceShift is the lowest shift value that silences a voice. Any shift
// value at or above this is treated as silence by the mixer
const SilenceShift = 4

// MaxLevel is the loudest volume level
const MaxLevel = 16

// Level is the combination of curve and shift that produces one of the linear
// volume steps
type Level struct {
	Curve uint16
	Shift uint8
}

// the 17 volume levels. the shift value has the most effect on the output and
// so the levels are ordered by shift first and by curve second
var levels [MaxLevel + 1]Level

func init() {
	levels[0] = Level{Curve: Address(Quietest), Shift: SilenceShift}

	l := 1
	for shift := SilenceShift - 1; shift >= 0; shift-- {
		for slot := Quietest; slot >= Full; slot-- {
			levels[l] = Level{Curve: Address(slot), Shift: uint8(shift)}
			l++
		}
	}
}

// ForLevel returns the curve and shift for the volume level. Values above
// MaxLevel are clamped.
func ForLevel(level uint8) Level {
	return levels[min(level, MaxLevel)]
}

// LevelOf is the reverse of ForLevel. A curve and shift combination that does
// not correspond to a volume level returns zero, as does any silent shift.
func LevelOf(curve uint16, shift uint8) uint8 {
	if shift >= SilenceShift {
		return 0
	}
	for i, l := range levels {
		if l.Curve == curve && l.Shift == shift {
			return uint8(i)
		}
	}
	return 0
}
