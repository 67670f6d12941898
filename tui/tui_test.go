package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/replay"
	"github.com/nathoo/replaycore/report"
	"github.com/nathoo/replaycore/types"
)

func trace(t *testing.T, lines ...string) []types.RngLogEntry {
	t.Helper()
	out, err := rng.ParseTrace(lines)
	if err != nil {
		t.Fatalf("ParseTrace: %v", err)
	}
	return out
}

// newTestModel builds a sized viewer over three steps; step 1 diverges.
func newTestModel(t *testing.T) Model {
	t.Helper()
	s := &types.Session{
		Seed:      42,
		Character: types.Character{Role: "Valkyrie"},
		Startup:   &types.SessionStep{},
		Steps: []types.SessionStep{
			{Key: ".", Rng: trace(t, "rn2(20)=3")},
			{Key: "s", Rng: trace(t, ">dosearch", "rn2(20)=7", "<dosearch"), Screen: []string{"You search."}},
			{Key: "l", Rng: trace(t, "rn2(20)=1")},
		},
	}
	res := &replay.Result{Steps: []types.ReplayStepResult{
		{Kind: types.StepCommand, Rng: trace(t, "rn2(20)=3")},
		{Kind: types.StepCommand, Rng: trace(t, "rn2(20)=8"), Screen: []string{"You search."}},
		{Kind: types.StepCommand, Rng: trace(t, "rn2(20)=1")},
	}}
	r, err := report.Build(s, res, report.DefaultOptions())
	if err != nil {
		t.Fatalf("report.Build: %v", err)
	}
	m := New(s, res, r)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func press(m Model, k tea.KeyType) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model)
}

func submit(m Model, input string) (Model, tea.Cmd) {
	m.input.SetValue(input)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{prefixMatch + "rn2(20)=3", kindMatch},
		{prefixMismatch + "rn2(20)=8", kindMismatch},
		{prefixSkipped + ">dosearch", kindSkipped},
		{"[No step 9.]", kindSystem},
		{"    actual   expected", kindPlain},
		{"", kindPlain},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestTraceLines(t *testing.T) {
	lines := traceLines(
		trace(t, "rn2(20)=8", "rnd(4)=2"),
		trace(t, ">dosearch", "rn2(20)=7", "<dosearch"),
	)
	var kinds []lineKind
	for _, l := range lines[1:] {
		kinds = append(kinds, classifyLine(l))
	}
	want := []lineKind{kindSkipped, kindMismatch, kindSkipped, kindMismatch}
	if len(kinds) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("line %d = %q, want kind %v", i+1, lines[i+1], want[i])
		}
	}
	if !strings.Contains(lines[2], "rn2(20)=8") || !strings.Contains(lines[2], "rn2(20)=7") {
		t.Errorf("pair line = %q", lines[2])
	}

	empty := traceLines(nil, nil)
	if len(empty) != 2 || classifyLine(empty[1]) != kindSystem {
		t.Errorf("empty trace lines = %q", empty)
	}
}

func TestNavigation(t *testing.T) {
	m := newTestModel(t)
	if m.cur != 0 {
		t.Fatalf("start = %d, want 0", m.cur)
	}
	m = press(m, tea.KeyRight)
	m = press(m, tea.KeyRight)
	if m.cur != 2 {
		t.Errorf("after two rights = %d", m.cur)
	}
	m = press(m, tea.KeyRight)
	if m.cur != 2 || len(m.notice) != 1 {
		t.Errorf("moved past the end: cur %d notice %v", m.cur, m.notice)
	}
	for i := 0; i < 3; i++ {
		m = press(m, tea.KeyLeft)
	}
	if m.cur != startupIndex {
		t.Errorf("cur = %d, want startup", m.cur)
	}
	if !strings.Contains(m.renderStatusBar(), "startup") {
		t.Error("status bar does not name the startup step")
	}
}

func TestJumpAndBack(t *testing.T) {
	m := newTestModel(t)
	m, _ = submit(m, "2")
	if m.cur != 2 {
		t.Fatalf("jump landed on %d", m.cur)
	}
	m = press(m, tea.KeyCtrlB)
	if m.cur != 0 {
		t.Errorf("back landed on %d, want 0", m.cur)
	}
	m = press(m, tea.KeyCtrlB)
	if m.cur != 0 || len(m.notice) == 0 {
		t.Errorf("empty back moved to %d", m.cur)
	}
}

func TestNextFailure(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyCtrlF)
	if m.cur != 1 {
		t.Fatalf("next failure = %d, want 1", m.cur)
	}
	if !strings.Contains(m.renderStatusBar(), "rng diverged") {
		t.Errorf("status bar = %q", m.renderStatusBar())
	}
	m, _ = submit(m, "/fail")
	if m.cur != 1 || len(m.notice) == 0 {
		t.Errorf("no later failure but moved to %d", m.cur)
	}
}

func TestToggleScreen(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.renderScreen(), "no screen recorded") {
		t.Error("step 0 has no screen on either side")
	}
	m = press(m, tea.KeyRight)
	if !strings.Contains(m.renderScreen(), "You search.") {
		t.Error("reconstructed screen not shown")
	}
	m = press(m, tea.KeyTab)
	if !m.expected || !strings.Contains(m.renderStatusBar(), "expected") {
		t.Error("tab did not switch to the recorded screen")
	}
	m, _ = submit(m, "/actual")
	if m.expected {
		t.Error("/actual did not switch back")
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)
	m, cmd := submit(m, "/quit")
	if !m.quitting || cmd == nil {
		t.Error("expected quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)
	out, quit := m.handleMeta("/frobnicate")
	if quit || len(out) != 1 || !strings.Contains(out[0], "Unknown command") {
		t.Errorf("out = %v quit = %v", out, quit)
	}
	help, _ := m.handleMeta("/help")
	if len(help) == 0 {
		t.Error("empty help")
	}
}

func TestView(t *testing.T) {
	m := New(&types.Session{}, &replay.Result{}, &report.Report{})
	if m.View() != "Loading..." {
		t.Errorf("unsized view = %q", m.View())
	}
	sized := newTestModel(t)
	if !strings.Contains(sized.View(), "step 0/2") {
		t.Error("status bar missing from view")
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(2)
	if _, ok := h.Back(); ok {
		t.Error("Back on empty history")
	}
	h.Visit(1)
	h.Visit(1)
	h.Visit(5)
	h.Visit(9)
	if h.Len() != 2 {
		t.Fatalf("len = %d, want 2", h.Len())
	}
	if i, _ := h.Back(); i != 9 {
		t.Errorf("back = %d, want 9", i)
	}
	if i, _ := h.Back(); i != 5 {
		t.Errorf("back = %d, want 5", i)
	}
}
