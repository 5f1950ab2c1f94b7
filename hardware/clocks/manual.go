package clocks

// Manual is a tick source that only ticks when told to. It is used by tests
// and by any tool that needs exactly repeatable output.
type Manual struct {
	handler func()
	ticks   uint64
}

// Attach the tick handler. Replaces any handler that has already been
// attached.
func (m *Manual) Attach(handler func()) {
	m.handler = handler
}

// Step fires n ticks. Nothing happens if there is no handler attached.
func (m *Manual) Step(n int) {
	if m.handler == nil {
		return
	}
	for range n {
		m.handler()
		m.ticks++
	}
}

// Tick fires a single tick. Implements the dac.Ticker interface.
func (m *Manual) Tick() {
	m.Step(1)
}

// Ticks returns the number of ticks fired.
func (m *Manual) Ticks() uint64 {
	return m.ticks
}
