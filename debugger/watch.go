package debugger

type watch struct {
	ma   mappedAddress
	data uint8
	prev uint8
}

// checkWatches returns every watch that has changed since the last check
func (m *debugger) checkWatches() []watch {
	var changed []watch
	for i, w := range m.watches {
		d := m.console.ACP.Mem.Read(w.ma.idx)
		if d != w.data {
			w.prev = w.data
			w.data = d
			m.watches[i] = w
			changed = append(changed, w)
		}
	}
	return changed
}
