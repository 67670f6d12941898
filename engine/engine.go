// Package engine provides the headless harness: it owns one world and one
// RNG, applies input bytes as commands, runs the end-of-turn pipeline and
// renders the result. It never reads a clock and never logs.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/replaycore/engine/display"
	"github.com/nathoo/replaycore/engine/effects"
	"github.com/nathoo/replaycore/engine/events"
	"github.com/nathoo/replaycore/engine/levelgen"
	"github.com/nathoo/replaycore/engine/monsters"
	"github.com/nathoo/replaycore/engine/parser"
	"github.com/nathoo/replaycore/engine/prompt"
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// Largest count prefix accepted.
const maxCount = 32767

// ErrBusy is returned when an operation needs an idle harness.
var ErrBusy = errors.New("harness is busy: a command is pending or repeating")

// Options configures a harness.
type Options struct {
	// Generator builds levels. Nil selects levelgen.Default.
	Generator levelgen.Generator
	// TraceComposites logs composite draws as their own tagged entries.
	TraceComposites bool
}

// Harness is the headless simulation.
type Harness struct {
	World *types.World
	RNG   *rng.RNG

	gen levelgen.Generator

	count     int  // count prefix being typed
	multi     int  // repeats left of repeatKey
	repeatKey byte // command being repeated
	occ       *occupation
	pending   *Pending

	page        int  // message page being shown
	interrupted bool // something happened that stops repeats and occupations
	hpMark      int  // hero HP when the current activity started

	keysFed int
	startup []types.RngLogEntry
}

// New seeds an RNG, builds the hero from the character block and generates
// the first level. The draws made here are available from StartupRng.
func New(seed int64, ch types.Character, opts Options) (*Harness, error) {
	w, err := state.NewWorld(ch)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}
	r := rng.New(seed)
	r.SetTraceComposites(opts.TraceComposites)
	r.SetLuck(w.Player.Luck)
	r.EnableLog()

	h := newHarness(w, r, opts)
	if err := h.enterLevel(1, true); err != nil {
		return nil, fmt.Errorf("generating first level: %w", err)
	}
	h.startup = r.TakeLog()

	h.message(welcome(w.Player))
	return h, nil
}

func welcome(p types.Player) string {
	var words []string
	for _, w := range []string{p.Alignment, strings.ToLower(p.Gender), p.Race, p.Role} {
		if w != "" {
			words = append(words, w)
		}
	}
	desc := strings.Join(words, " ")
	return fmt.Sprintf("Hello %s, welcome to NetHack!  You are %s %s.", p.Name, display.Article(desc), desc)
}

func newHarness(w *types.World, r *rng.RNG, opts Options) *Harness {
	gen := opts.Generator
	if gen == nil {
		gen = levelgen.Default{}
	}
	return &Harness{World: w, RNG: r, gen: gen, hpMark: w.Player.HP}
}

// StartupRng returns the draws made while the harness was created.
func (h *Harness) StartupRng() []types.RngLogEntry {
	out := make([]types.RngLogEntry, len(h.startup))
	copy(out, h.startup)
	return out
}

// TakeRng drains the RNG trace recorded since the last call.
func (h *Harness) TakeRng() []types.RngLogEntry {
	return h.RNG.TakeLog()
}

// KeysFed returns how many bytes have been handed to the harness.
func (h *Harness) KeysFed() int {
	return h.keysFed
}

// Pending returns the suspended command, or nil.
func (h *Harness) Pending() *Pending {
	return h.pending
}

// Count returns the count prefix typed so far.
func (h *Harness) Count() int {
	return h.count
}

// Busy reports whether an occupation or a count repeat is still running.
func (h *Harness) Busy() bool {
	return h.occ != nil || h.multi > 0
}

// MorePending reports whether the message row is showing --More--.
func (h *Harness) MorePending() bool {
	return h.page < len(display.Paginate(h.World.Messages))-1
}

// ApplyInput handles one input byte: it feeds a suspended command,
// acknowledges a --More--, accumulates a count digit, or dispatches a
// command. Unknown bytes are a no-op result, never an error.
func (h *Harness) ApplyInput(b byte) CommandResult {
	h.keysFed++
	return h.input(b)
}

func (h *Harness) input(b byte) CommandResult {
	if h.pending != nil {
		return h.pending.feed(b)
	}

	if h.MorePending() && parser.IsAckKey(b) {
		h.page++
		return CommandResult{Kind: types.CmdNone, Acknowledged: true}
	}
	h.clearMessages()

	if parser.IsDigit(b) {
		h.count = h.count*10 + int(b-'0')
		if h.count > maxCount {
			h.count = maxCount
		}
		return CommandResult{Kind: types.CmdCount}
	}

	kind := parser.Classify(b)
	count := h.count
	h.count = 0
	h.multi = 0
	h.interrupted = false
	h.hpMark = h.World.Player.HP

	res := h.dispatch(kind, b)
	if res.TookTime && res.Suspended == nil && count > 1 && repeatable(kind) {
		h.multi = count - 1
		h.repeatKey = b
	}
	display.UpdateVision(h.World)
	return res
}

// Acknowledge consumes a pagination key without running a command. It
// advances the message row when --More-- is showing and never draws.
func (h *Harness) Acknowledge(b byte) {
	h.keysFed++
	if h.MorePending() {
		h.page++
	}
}

// AdvanceTurnEffects runs the end-of-turn pipeline. Call it only after a
// command reported TookTime. The sub-steps run in this fixed order.
func (h *Harness) AdvanceTurnEffects() {
	w, r := h.World, h.RNG
	p := &w.Player
	var evts []types.Event

	// 1. Turn counter, hero track and timers that never draw.
	w.Turn++
	state.SetTrack(w)
	if p.PrayerTimeout > 0 {
		p.PrayerTimeout--
	}

	// 2. Monster movement.
	evts = append(evts, monsters.Move(w, r)...)

	// 3. Monster speed accrual.
	monsters.Accrue(w, r)

	// 4. Flee timers.
	monsters.DecayFlee(w)

	// 5. Ambient monster generation.
	evts = append(evts, monsters.Spawn(w, r)...)

	// 6. Hit point regeneration.
	evts = append(evts, effects.Regenerate(w, r)...)

	// 7. Ambient sounds.
	evts = append(evts, effects.Sounds(w, r)...)

	// 8. Hunger.
	evts = append(evts, effects.Hunger(w, r)...)

	// 9. Periodic exercise.
	evts = append(evts, effects.Exercise(w, r)...)

	// 10. Wounded legs.
	evts = append(evts, effects.WoundedLegs(w, r)...)

	// 11. Engraving erosion.
	evts = append(evts, effects.ErodeEngraving(w, r)...)

	// 12. Seer timer.
	effects.Seer(w, r)

	out := events.Dispatch(evts)
	w.Messages = append(w.Messages, out.Messages...)
	if out.Interrupt || p.HP < h.hpMark {
		h.interrupted = true
	}
	display.UpdateVision(w)
}

// Render projects the world onto the terrain grid and the text screen.
// It never draws and may be called any number of times.
func (h *Harness) Render() ([][]int, []string) {
	w := h.World
	msg := display.MessageLine(display.Paginate(w.Messages), h.page)
	var overlay []string
	if h.pending != nil {
		if h.pending.Prompt.Kind == prompt.Menu {
			msg = ""
			overlay = h.pending.Prompt.Lines
		} else {
			msg = h.pending.Prompt.MessageLine()
		}
	}
	return display.Grid(w.Level), display.Screen(w, msg, overlay)
}

// Step applies one byte the way an interactive player would: the command,
// its turn, and any occupation or repeat it started.
func (h *Harness) Step(b byte) CommandResult {
	res := h.ApplyInput(b)
	if res.TookTime {
		h.AdvanceTurnEffects()
		h.Drain()
	}
	return res
}

func (h *Harness) message(msg string) {
	h.World.Messages = append(h.World.Messages, msg)
}

func (h *Harness) clearMessages() {
	h.World.Messages = nil
	h.page = 0
}

// rnl draws a luck-adjusted value with the hero's current luck.
func (h *Harness) rnl(x int) int {
	h.RNG.SetLuck(h.World.Player.Luck)
	return h.RNG.Rnl(x)
}
