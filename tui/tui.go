package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/replaycore/compare"
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/replay"
	"github.com/nathoo/replaycore/report"
	"github.com/nathoo/replaycore/types"
)

// startupIndex is the position of the startup pseudo-step.
const startupIndex = -1

// Model is the Bubble Tea model for the replay viewer.
type Model struct {
	session *types.Session
	result  *replay.Result
	report  *report.Report

	viewport viewport.Model
	input    textinput.Model
	history  *History

	cur      int  // step on display, startupIndex for the startup step
	expected bool // show the recorded screen instead of the reconstruction
	notice   []string

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a viewer positioned on the first step.
func New(s *types.Session, res *replay.Result, r *report.Report) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 64
	ti.PromptStyle = styleInputPrompt

	cur := 0
	if len(res.Steps) == 0 {
		cur = startupIndex
	}
	return Model{
		session: s,
		result:  res,
		report:  r,
		input:   ti,
		history: NewHistory(100),
		cur:     cur,
	}
}

// Run starts the Bubble Tea program.
func Run(s *types.Session, res *replay.Result, r *report.Report) error {
	m := New(s, res, r)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages (key presses, window resize).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - types.ScreenRows - 2 // status bar + input line
		if vpHeight < 3 {
			vpHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "right":
			m = m.goTo(m.cur+1, false)
			return m, nil

		case "left":
			m = m.goTo(m.cur-1, false)
			return m, nil

		case "tab":
			m.expected = !m.expected
			return m, nil

		case "ctrl+f":
			m = m.nextFailure()
			return m, nil

		case "ctrl+b":
			m = m.back()
			return m, nil

		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, inputCmd
}

// handleEnter processes the submitted input line: a step number or a
// meta-command.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}

	if n, err := strconv.Atoi(input); err == nil {
		m = m.goTo(n, true)
		return m, nil
	}

	var quit bool
	m.notice, quit = m.handleMeta(input)
	m.refreshViewport()
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleMeta dispatches meta-commands. Returns notice lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/fail":
		*m = m.nextFailure()
		return m.notice, false

	case "/back":
		*m = m.back()
		return m.notice, false

	case "/startup":
		*m = m.goTo(startupIndex, true)
		return nil, false

	case "/expected":
		m.expected = true
		return []string{"Showing the recorded screen."}, false

	case "/actual":
		m.expected = false
		return []string{"Showing the reconstructed screen."}, false

	case "/help":
		return m.cmdHelp(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"Navigation:",
		"  Left/Right    Previous/next step",
		"  <number>      Jump to a step",
		"  Ctrl+F /fail  Next failing step",
		"  Ctrl+B /back  Return to where the last jump started",
		"  Tab           Toggle recorded/reconstructed screen",
		"  PgUp/PgDn     Scroll the trace pane",
		"",
		"Commands: /startup /expected /actual /help /quit",
	}
}

// goTo moves to step i if it exists. Jumps are remembered for /back.
func (m Model) goTo(i int, jump bool) Model {
	if i < startupIndex || i >= len(m.result.Steps) {
		m.notice = []string{fmt.Sprintf("No step %d.", i)}
		m.refreshViewport()
		return m
	}
	if jump && i != m.cur {
		m.history.Visit(m.cur)
	}
	m.cur = i
	m.notice = nil
	m.refreshViewport()
	return m
}

func (m Model) nextFailure() Model {
	for i := m.cur + 1; i < len(m.report.Steps); i++ {
		if !m.report.Steps[i].Match() {
			return m.goTo(i, true)
		}
	}
	m.notice = []string{"No failing step after this one."}
	m.refreshViewport()
	return m
}

func (m Model) back() Model {
	i, ok := m.history.Back()
	if !ok {
		m.notice = []string{"Nothing to go back to."}
		m.refreshViewport()
		return m
	}
	m.cur = i
	m.notice = nil
	m.refreshViewport()
	return m
}

// current returns the recording, reconstruction and verdict on display.
func (m Model) current() (types.SessionStep, types.ReplayStepResult, *report.StepReport) {
	if m.cur == startupIndex {
		var want types.SessionStep
		if m.session.Startup != nil {
			want = *m.session.Startup
		}
		return want, m.result.Startup, m.report.Startup
	}
	var rep *report.StepReport
	if m.cur < len(m.report.Steps) {
		rep = &m.report.Steps[m.cur]
	}
	return m.session.Steps[m.cur], m.result.Steps[m.cur], rep
}

// refreshViewport rebuilds the trace pane for the current step.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	want, got, _ := m.current()

	var styled []string
	for _, n := range m.notice {
		styled = append(styled, styledSystemMsg(n))
	}
	for _, line := range traceLines(got.Rng, want.Rng) {
		styled = append(styled, renderLineKind(line, classifyLine(line)))
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoTop()
}

// traceLines pairs the primitive draws of both traces the way the
// comparator aligns them. Markers and composites get lines of their own.
func traceLines(actual, expected []types.RngLogEntry) []string {
	lines := []string{fmt.Sprintf("    %-28s %s", "actual", "expected")}
	i, j := 0, 0
	for i < len(actual) || j < len(expected) {
		switch {
		case i < len(actual) && compare.Skippable(actual[i]):
			lines = append(lines, prefixSkipped+rng.Format(actual[i]))
			i++
		case j < len(expected) && compare.Skippable(expected[j]):
			lines = append(lines, prefixSkipped+fmt.Sprintf("%-28s %s", "", rng.Format(expected[j])))
			j++
		default:
			var a, e string
			if i < len(actual) {
				a = rng.Payload(actual[i])
				i++
			}
			if j < len(expected) {
				e = rng.Payload(expected[j])
				j++
			}
			prefix := prefixMismatch
			if a == e {
				prefix = prefixMatch
			}
			lines = append(lines, prefix+fmt.Sprintf("%-28s %s", a, e))
		}
	}
	if len(lines) == 1 {
		lines = append(lines, "[no draws on either side]")
	}
	return lines
}

// renderScreen draws the selected screen, highlighting rows that differ.
func (m Model) renderScreen() string {
	want, got, _ := m.current()
	shown := got.Screen
	if m.expected {
		shown = want.Screen
	}
	if shown == nil {
		return styledSystemMsg("no screen recorded for this step") + strings.Repeat("\n", types.ScreenRows-1)
	}

	differs := map[int]bool{}
	if want.Screen != nil && got.Screen != nil {
		for _, r := range compare.CompareScreens(got.Screen, want.Screen).Rows {
			differs[r] = true
		}
	}
	out := make([]string, types.ScreenRows)
	for y := range out {
		var line string
		if y < len(shown) {
			line = strings.TrimRight(shown[y], " ")
		}
		if differs[y] {
			out[y] = styleScreenDiff.Render(line)
		} else {
			out[y] = styleScreen.Render(line)
		}
	}
	return strings.Join(out, "\n")
}

// View renders the full layout: status bar, screen, trace pane, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.renderStatusBar() + "\n" + m.renderScreen() + "\n" + m.viewport.View() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled so the
// arrows stay free for the input line.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
