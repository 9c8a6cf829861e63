package chat

// PanelSet bounds how many conversation panels are open at once. Opening
// beyond capacity evicts the oldest-opened panel, not the least recently
// active one: eviction is FIFO by design.
type PanelSet struct {
	capacity int
	open     []string
}

func NewPanelSet(capacity int) *PanelSet {
	if capacity < 1 {
		capacity = 1
	}
	return &PanelSet{capacity: capacity}
}

// Open admits a panel. It returns the evicted panel id, if any, and
// whether the set changed (re-opening an open panel does not).
func (p *PanelSet) Open(id string) (evicted string, changed bool) {
	for _, open := range p.open {
		if open == id {
			return "", false
		}
	}
	if len(p.open) >= p.capacity {
		evicted = p.open[0]
		p.open = p.open[1:]
	}
	p.open = append(p.open, id)
	return evicted, true
}

// Close removes a panel from the set.
func (p *PanelSet) Close(id string) {
	for i, open := range p.open {
		if open == id {
			p.open = append(p.open[:i], p.open[i+1:]...)
			return
		}
	}
}

// Replace re-keys an open panel, keeping its position. Used when a draft
// conversation gets its concrete id.
func (p *PanelSet) Replace(oldID, newID string) {
	for i, open := range p.open {
		if open == oldID {
			p.open[i] = newID
			return
		}
	}
}

// IsOpen reports whether the panel is in the set.
func (p *PanelSet) IsOpen(id string) bool {
	for _, open := range p.open {
		if open == id {
			return true
		}
	}
	return false
}

// IDs returns the open panels in opening order.
func (p *PanelSet) IDs() []string {
	out := make([]string, len(p.open))
	copy(out, p.open)
	return out
}
