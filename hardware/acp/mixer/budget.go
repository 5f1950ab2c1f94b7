package mixer

import (
	"errors"
	"fmt"
)

// Estimated ACP cycle costs of the tick handler. These are counts for the 6502
// code paths of the firmware and are used to check a configuration before the
// tick interrupt is enabled.
//
// Overhead covers the interrupt entry and RTI, saving and restoring registers,
// adding the global bias and writing the output register.
const (
	CyclesOverhead = 35
	CyclesSilent   = 12
	CyclesActive   = 66
)

// ErrBudget is returned when the worst case cost of a tick exceeds the tick
// period.
var ErrBudget = errors.New("tick exceeds cycle budget")

// Budget is the number of ACP cycles between ticks.
type Budget struct {
	Period int
}

// WorstCase returns the cost of a tick when every visited voice is active.
func WorstCase(voices int) int {
	return CyclesOverhead + voices*CyclesActive
}

// BestCase returns the cost of a tick when every visited voice is silent.
func BestCase(voices int) int {
	return CyclesOverhead + voices*CyclesSilent
}

// Check returns ErrBudget if the mixer visiting the number of voices cannot
// be guaranteed to finish within the period.
func (b Budget) Check(voices int) error {
	w := WorstCase(voices)
	if w > b.Period {
		return fmt.Errorf("%w: %d voices need %d cycles, period is %d", ErrBudget, voices, w, b.Period)
	}
	return nil
}

// Headroom is the number of cycles left over in the worst case.
func (b Budget) Headroom(voices int) int {
	return b.Period - WorstCase(voices)
}

// MaxVoices returns the largest number of voices that fit the budget.
func (b Budget) MaxVoices() int {
	return max(0, (b.Period-CyclesOverhead)/CyclesActive)
}
