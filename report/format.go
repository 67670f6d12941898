package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/replaycore/compare"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	styleFail   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleDetail = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// FormatOptions controls the text report.
type FormatOptions struct {
	Color bool
	// Failures prints only the steps that did not match.
	Failures bool
	// Detail adds screen and grid diffs under failing steps.
	Detail bool
}

type painter bool

func (p painter) paint(s lipgloss.Style, text string) string {
	if !p {
		return text
	}
	return s.Render(text)
}

// Format writes the report as text.
func Format(w io.Writer, r *Report, opts FormatOptions) error {
	p := painter(opts.Color)
	var b strings.Builder

	src := r.Source
	if src == "" {
		src = "session"
	}
	fmt.Fprintln(&b, p.paint(styleHeader, fmt.Sprintf("replay of %s (seed %d, %s)", src, r.Seed, r.Role)))

	if r.Startup != nil {
		writeStep(&b, p, "startup", *r.Startup, opts)
	}
	for _, s := range r.Steps {
		if opts.Failures && s.Match() {
			continue
		}
		writeStep(&b, p, fmt.Sprintf("step %4d", s.Index), s, opts)
	}

	summary := fmt.Sprintf("%d/%d steps matched (%.1f%%)", r.Matched, len(r.Steps), r.Percent())
	if d := r.FirstDivergence(); d >= 0 {
		summary += fmt.Sprintf(", first divergence at step %d", d)
	}
	fmt.Fprintln(&b, p.paint(styleHeader, summary))
	fmt.Fprintf(&b, "keys: %d recorded, %d fed, %d injected", r.Keys.Recorded, r.Keys.Fed, r.Keys.Injected)
	if r.Deferrals > 0 {
		fmt.Fprintf(&b, "; %d deferral(s) past --More--", r.Deferrals)
	}
	b.WriteByte('\n')
	if !r.Conserved {
		fmt.Fprintln(&b, p.paint(styleWarn, "warning: key conservation violated"))
	}
	if r.Cancelled {
		fmt.Fprintln(&b, p.paint(styleWarn, "warning: a command was still pending at the end and was cancelled"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeStep(b *strings.Builder, p painter, label string, s StepReport, opts FormatOptions) {
	key := s.Key
	if s.Action != "" {
		key += " (" + s.Action + ")"
	}
	if s.Match() {
		fmt.Fprintf(b, "%s  %-20q %s\n", label, key, p.paint(styleOK, "ok"))
		return
	}

	fmt.Fprintf(b, "%s  %-20q %s", label, key, p.paint(styleFail, "FAIL"))
	if !s.RngMatch {
		fmt.Fprintf(b, "  %s", compare.FormatMismatch(s.Mismatch))
	}
	b.WriteByte('\n')
	if !opts.Detail {
		return
	}
	if s.ScreenCompared && !s.ScreenMatch {
		fmt.Fprintln(b, indent(p.paint(styleDetail, compare.FormatScreenDiff(s.ScreenDiff))))
	}
	if s.GridCompared && s.GridDiff.Count > 0 {
		fmt.Fprintln(b, indent(p.paint(styleDetail, compare.FormatGridDiff(s.GridDiff))))
	}
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}
