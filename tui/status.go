package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// verdictLabel summarizes a step report in a few words.
func (m Model) verdictLabel() string {
	_, _, rep := m.current()
	if rep == nil {
		return "not compared"
	}
	parts := []string{"rng ok"}
	if !rep.RngMatch {
		parts[0] = "rng " + rep.Mismatch.Verdict.String()
	}
	if rep.ScreenCompared {
		if rep.ScreenMatch {
			parts = append(parts, "screen ok")
		} else {
			parts = append(parts, fmt.Sprintf("screen %d row(s)", len(rep.ScreenDiff.Rows)))
		}
	}
	if rep.GridCompared {
		if rep.GridDiff.Count == 0 {
			parts = append(parts, "grid ok")
		} else {
			parts = append(parts, fmt.Sprintf("grid %d cell(s)", rep.GridDiff.Count))
		}
	}
	return strings.Join(parts, ", ")
}

// renderStatusBar produces a full-width inverted status line showing the
// step position, its key and verdict, and the run's match percentage.
func (m Model) renderStatusBar() string {
	want, got, _ := m.current()

	pos := "startup"
	if m.cur != startupIndex {
		pos = fmt.Sprintf("step %d/%d", m.cur, len(m.result.Steps)-1)
	}
	key := fmt.Sprintf("%q", want.Key)
	if want.Action != "" {
		key += " (" + want.Action + ")"
	}
	side := "actual"
	if m.expected {
		side = "expected"
	}

	left := fmt.Sprintf(" %s | %s | %s | %s", pos, key, got.Kind, m.verdictLabel())
	right := fmt.Sprintf("%s | %.1f%% ", side, m.report.Percent())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
