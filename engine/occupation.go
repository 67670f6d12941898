package engine

import (
	"fmt"

	"github.com/nathoo/replaycore/engine/parser"
	"github.com/nathoo/replaycore/engine/resolve"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// occupation is a multi-turn activity. fn runs once per turn and reports
// whether more turns remain; stop runs when the activity is interrupted.
type occupation struct {
	kind types.CommandKind
	fn   func(h *Harness) bool
	stop func(h *Harness)
}

// Continue runs one more turn of the current occupation or count repeat.
// The result has TookTime set when the caller owes an AdvanceTurnEffects.
func (h *Harness) Continue() CommandResult {
	w := h.World
	if h.occ != nil {
		if h.interrupted || state.HostileAdjacent(w) {
			h.stopOccupation()
			return CommandResult{Kind: types.CmdNone}
		}
		occ := h.occ
		if !occ.fn(h) {
			h.occ = nil
		}
		return CommandResult{Kind: occ.kind, TookTime: true}
	}

	if h.multi > 0 {
		if h.interrupted || w.Player.HP < h.hpMark || state.HostileAdjacent(w) {
			h.multi = 0
			return CommandResult{Kind: types.CmdNone}
		}
		h.multi--
		res := h.dispatch(parser.Classify(h.repeatKey), h.repeatKey)
		if !res.TookTime || res.Suspended != nil {
			h.multi = 0
		}
		return res
	}
	return CommandResult{Kind: types.CmdNone}
}

// Drain runs the occupation or repeat to completion, one turn at a time.
// It stops early when something interrupts or a prompt comes up.
func (h *Harness) Drain() {
	for h.Busy() && h.pending == nil {
		res := h.Continue()
		if !res.TookTime {
			return
		}
		h.AdvanceTurnEffects()
	}
}

func (h *Harness) stopOccupation() {
	if h.occ == nil {
		return
	}
	if h.occ.stop != nil {
		h.occ.stop(h)
	}
	h.occ = nil
}

// eat consumes one item of a stack. Quick food is eaten at once; anything
// else becomes an occupation that pays out nutrition when finished.
func (h *Harness) eat(letter byte) CommandResult {
	res := CommandResult{Kind: types.CmdEat}
	p := &h.World.Player
	o, err := resolve.Item(p, letter, "eat", isEdible)
	if err != nil {
		h.message(err.Error())
		return res
	}

	food := *o
	food.Quantity = 1
	if o.Quantity > 1 {
		o.Quantity--
	} else {
		state.RemoveInventory(p, o)
	}
	res.TookTime = true

	if food.Delay <= 1 {
		h.nourish(food.Nutrition)
		h.message(fmt.Sprintf("This %s is delicious!", food.Name))
		return res
	}

	h.message(fmt.Sprintf("You begin eating the %s.", food.Name))
	eaten := 1
	h.occ = &occupation{
		kind: types.CmdEat,
		fn: func(h *Harness) bool {
			eaten++
			if eaten < food.Delay {
				return true
			}
			h.nourish(food.Nutrition)
			h.message(fmt.Sprintf("You finish eating the %s.", food.Name))
			return false
		},
		stop: func(h *Harness) {
			h.nourish(food.Nutrition * eaten / food.Delay)
			h.message(fmt.Sprintf("You stop eating the %s.", food.Name))
		},
	}
	return res
}

func (h *Harness) nourish(n int) {
	p := &h.World.Player
	p.Hunger += n
	p.HungerState = state.HungerBand(p.Hunger)
}
