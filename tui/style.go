package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the viewer.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleScreen = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleScreenDiff = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleMatch = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleMismatch = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of a trace pane line for styling.
type lineKind int

const (
	kindMatch lineKind = iota
	kindMismatch
	kindSkipped
	kindSystem
	kindPlain
)

// Trace pane line prefixes.
const (
	prefixMatch    = "  = "
	prefixMismatch = "  ! "
	prefixSkipped  = "  ~ "
)

// classifyLine determines what kind of trace pane line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, prefixMatch):
		return kindMatch
	case strings.HasPrefix(line, prefixMismatch):
		return kindMismatch
	case strings.HasPrefix(line, prefixSkipped):
		return kindSkipped
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	default:
		return kindPlain
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindMatch:
		return styleMatch.Render(line)
	case kindMismatch:
		return styleMismatch.Render(line)
	case kindSkipped:
		return styleTrace.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	default:
		return line
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
