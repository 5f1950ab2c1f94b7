package clocks

const Mhz = 1000000

// The ACP is clocked from the same colourburst derived crystal as the main
// CPU
const ACP = 3.579545 * Mhz

// DefaultPeriod is the number of ACP cycles between ticks of the sample timer
const DefaultPeriod = 448

// MinPeriod and MaxPeriod are the limits of the sample timer
const (
	MinPeriod = 64
	MaxPeriod = 65535
)

// SampleRate returns the rate of ticks in Hz for the period
func SampleRate(period int) float64 {
	return ACP / float64(period)
}

// DefaultSampleRate is the sample rate for the default period. About 7990Hz
var DefaultSampleRate = SampleRate(DefaultPeriod)
