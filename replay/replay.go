// Package replay re-segments a recorded session onto the harness. Each
// recorded keypress becomes exactly one ReplayStepResult, whatever number
// of harness commands and turns it actually stood for.
package replay

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nathoo/replaycore/compare"
	"github.com/nathoo/replaycore/engine"
	"github.com/nathoo/replaycore/engine/parser"
	"github.com/nathoo/replaycore/engine/prompt"
	"github.com/nathoo/replaycore/types"
)

// Options configures a replay run.
type Options struct {
	Harness engine.Options

	// ReconcileStatus copies HP, Pw and attributes from each recorded
	// status line onto the hero after the step has run.
	ReconcileStatus bool
	// DeferMore moves draws past a recorded --More-- boundary to the
	// later step whose expected trace starts with them.
	DeferMore bool

	Logger *log.Logger
}

// DefaultOptions turns both heuristics on.
func DefaultOptions() Options {
	return Options{ReconcileStatus: true, DeferMore: true}
}

// Result is a complete run.
type Result struct {
	Startup   types.ReplayStepResult
	Steps     []types.ReplayStepResult
	Keys      types.KeyStats
	Deferrals int
	// Cancelled is set when a command was still waiting for input at the
	// end of the session and had to be aborted.
	Cancelled bool

	harnessKeys int
}

// Conserved reports whether every recorded key reached the harness exactly
// once and the harness saw nothing else besides the injected bytes.
func (r *Result) Conserved() bool {
	return r.Keys.Recorded == r.Keys.Fed && r.harnessKeys == r.Keys.Fed+r.Keys.Injected
}

// Engine replays one session step by step.
type Engine struct {
	session *types.Session
	opts    Options
	h       *engine.Harness
	logger  *log.Logger

	keys      types.KeyStats
	carry     map[int][]types.RngLogEntry // deferred draws, by target step
	captured  []string                    // screen captured from a menu this step
	deferrals int
	next      int
	done      bool
	cancelled bool
	startup   types.ReplayStepResult
}

// New checks the session and builds its harness. Malformed grids are
// fatal here, before anything runs.
func New(s *types.Session, opts Options) (*Engine, error) {
	for i, st := range s.Steps {
		if st.Grid == nil {
			continue
		}
		if err := compare.CheckGrid(fmt.Sprintf("step %d expected", i), st.Grid); err != nil {
			return nil, err
		}
	}
	if s.Startup != nil && s.Startup.Grid != nil {
		if err := compare.CheckGrid("startup expected", s.Startup.Grid); err != nil {
			return nil, err
		}
	}

	h, err := engine.New(s.Seed, s.Character, opts.Harness)
	if err != nil {
		return nil, fmt.Errorf("building harness: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e := &Engine{
		session: s,
		opts:    opts,
		h:       h,
		logger:  logger,
		carry:   map[int][]types.RngLogEntry{},
	}

	grid, screen := h.Render()
	e.startup = types.ReplayStepResult{Kind: types.StepStartup, Rng: h.StartupRng(), Screen: screen}
	if s.Startup != nil && s.Startup.Grid != nil {
		e.startup.Grid = grid
	}
	return e, nil
}

// Harness exposes the simulation for inspection. Callers must not drive it.
func (e *Engine) Harness() *engine.Harness {
	return e.h
}

// Startup returns the pseudo-step for harness creation.
func (e *Engine) Startup() types.ReplayStepResult {
	return e.startup
}

// Done reports whether every recorded step has been replayed.
func (e *Engine) Done() bool {
	return e.next >= len(e.session.Steps)
}

// Next replays the next recorded step.
func (e *Engine) Next() (types.ReplayStepResult, bool) {
	if e.Done() {
		return types.ReplayStepResult{}, false
	}
	i := e.next
	e.next++
	return e.step(i), true
}

// Finish cancels anything still pending and returns the key accounting.
// It is safe to call more than once.
func (e *Engine) Finish() Result {
	if !e.done {
		e.done = true
		if p := e.h.Pending(); p != nil {
			e.logger.Warn("cancelling command still pending at session end",
				"command", p.Kind, "prompt", p.Prompt.Kind)
			p.Cancel()
			e.keys.Injected++
			e.cancelled = true
		}
		e.h.TakeRng()
	}
	return Result{
		Startup:     e.startup,
		Keys:        e.keys,
		Deferrals:   e.deferrals,
		Cancelled:   e.cancelled,
		harnessKeys: e.h.KeysFed(),
	}
}

// Run replays a whole session. Cancelling ctx stops between steps and
// returns what was replayed so far along with the context error.
func Run(ctx context.Context, s *types.Session, opts Options) (*Result, error) {
	e, err := New(s, opts)
	if err != nil {
		return nil, err
	}
	e.logger.Info("replay starting", "seed", s.Seed, "role", s.Character.Role, "steps", len(s.Steps))

	steps := make([]types.ReplayStepResult, 0, len(s.Steps))
	for !e.Done() {
		if err := ctx.Err(); err != nil {
			res := e.Finish()
			res.Steps = steps
			return &res, err
		}
		out, _ := e.Next()
		steps = append(steps, out)
	}

	res := e.Finish()
	res.Steps = steps
	if !res.Conserved() {
		e.logger.Error("key conservation violated",
			"recorded", res.Keys.Recorded, "fed", res.Keys.Fed,
			"injected", res.Keys.Injected, "harness", res.harnessKeys)
	}
	e.logger.Info("replay finished", "steps", len(steps), "deferrals", res.Deferrals)
	return &res, nil
}

// step classifies one recorded step and runs it. The order of the checks
// matters: a pending command swallows everything, then count digits, then
// pure acknowledgement frames, and only then a fresh command.
func (e *Engine) step(i int) types.ReplayStepResult {
	st := e.session.Steps[i]
	keys := parser.ParseKey(st.Key)
	e.keys.Recorded += len(keys)
	e.captured = nil

	var kind types.StepKind
	var before []string
	switch {
	case e.h.Pending() != nil:
		kind = types.StepPendingFeed
		e.feedPending(keys)
	case len(keys) == 1 && parser.IsDigit(keys[0]):
		kind = types.StepCount
		_, before = e.h.Render()
		e.press(keys[0])
	case e.isAcknowledgement(i, keys):
		kind = types.StepAcknowledge
		for _, b := range keys {
			e.h.Acknowledge(b)
			e.keys.Fed++
		}
	default:
		kind = types.StepCommand
		for _, b := range keys {
			e.press(b)
		}
	}

	out := types.ReplayStepResult{Kind: kind}
	out.Rng = append(e.takeCarry(i), e.h.TakeRng()...)

	// Count digits and acknowledgement frames only do bookkeeping.
	reconcilable := kind == types.StepCommand || kind == types.StepPendingFeed
	if e.opts.ReconcileStatus && reconcilable && st.Screen != nil {
		e.reconcile(st.Screen)
	}

	grid, screen := e.h.Render()
	switch {
	case kind == types.StepAcknowledge:
		out.Screen = append([]string(nil), st.Screen...)
	case kind == types.StepCount:
		out.Screen = before
	case e.captured != nil:
		out.Screen = e.captured
	default:
		out.Screen = screen
	}
	if st.Grid != nil {
		out.Grid = grid
	}

	if e.opts.DeferMore {
		e.deferSuffix(i, &out)
	}
	return out
}

// press hands one recorded byte to the harness, to the pending command
// when there is one, and follows up on whatever the command did.
func (e *Engine) press(b byte) {
	e.keys.Fed++
	if p := e.h.Pending(); p != nil {
		e.after(p.Feed(b))
		return
	}
	e.after(e.h.ApplyInput(b))
}

// inject hands the harness a byte that is not in the recording.
func (e *Engine) inject(p *engine.Pending, b byte) {
	e.keys.Injected++
	e.after(p.Feed(b))
}

// after completes a command: menus are captured and dismissed, and a
// command that took time gets its turn plus any occupation or repeat.
func (e *Engine) after(res engine.CommandResult) {
	if p := res.Suspended; p != nil && !p.Settled() {
		if p.Prompt.Kind == prompt.Menu {
			e.captured = res.Screen
			e.inject(p, parser.Escape)
		}
		return
	}
	if res.TookTime {
		e.h.AdvanceTurnEffects()
		e.h.Drain()
	}
}

// feedPending delivers a step to a suspended command. An extended command
// given a whole name in one step is finished with an injected Enter.
func (e *Engine) feedPending(keys []byte) {
	p := e.h.Pending()
	for _, b := range keys {
		e.press(b)
	}
	if p.Class == engine.PendingExtended && len(keys) > 1 && !p.Settled() {
		e.inject(p, parser.Enter)
	}
}

// isAcknowledgement reports whether a recorded step only dismissed a
// --More--: it drew nothing, its screen still shows --More--, and either
// the key is a dismissal key or the previous screen was already waiting.
func (e *Engine) isAcknowledgement(i int, keys []byte) bool {
	st := e.session.Steps[i]
	if len(compare.Primitives(st.Rng)) != 0 || !ShowsMore(st.Screen) {
		return false
	}
	if len(keys) == 1 && parser.IsAckKey(keys[0]) {
		return true
	}
	return i > 0 && ShowsMore(e.session.Steps[i-1].Screen)
}

// ShowsMore reports whether a screen is waiting on --More--.
func ShowsMore(screen []string) bool {
	for _, line := range screen {
		if strings.Contains(line, "--More--") {
			return true
		}
	}
	return false
}

func (e *Engine) takeCarry(i int) []types.RngLogEntry {
	c := e.carry[i]
	delete(e.carry, i)
	return c
}
