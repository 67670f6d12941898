// Package tui provides a Bubble Tea viewer that steps through a replay
// report, showing reconstructed and recorded screens and RNG traces.
package tui

// History remembers the steps visited by jumps so the viewer can go back.
// Stepping one at a time does not record anything.
type History struct {
	visits []int
	max    int
}

// NewHistory creates a history holding at most max visits.
func NewHistory(max int) *History {
	return &History{visits: make([]int, 0, max), max: max}
}

// Visit records leaving step from for a jump. Repeats of the latest entry
// are skipped.
func (h *History) Visit(from int) {
	if n := len(h.visits); n > 0 && h.visits[n-1] == from {
		return
	}
	h.visits = append(h.visits, from)
	if len(h.visits) > h.max {
		h.visits = h.visits[1:]
	}
}

// Back pops the most recent visit. Returns (0, false) when empty.
func (h *History) Back() (int, bool) {
	n := len(h.visits)
	if n == 0 {
		return 0, false
	}
	i := h.visits[n-1]
	h.visits = h.visits[:n-1]
	return i, true
}

// Len returns the number of remembered visits.
func (h *History) Len() int {
	return len(h.visits)
}
