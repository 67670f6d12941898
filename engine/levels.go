package engine

import (
	"fmt"

	"github.com/nathoo/replaycore/engine/display"
	"github.com/nathoo/replaycore/engine/prompt"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// enterLevel makes depth the current level, generating it on first visit,
// and puts the hero on the staircase leading back the way they came.
func (h *Harness) enterLevel(depth int, down bool) error {
	w := h.World
	l, ok := w.Levels[depth]
	if !ok {
		var err error
		l, err = h.gen.Generate(h.RNG, depth)
		if err != nil {
			return fmt.Errorf("level %d: %w", depth, err)
		}
		if l == nil {
			return fmt.Errorf("level %d: generator returned no level", depth)
		}
		l.Depth = depth
		state.Adopt(w, l)
		w.Levels[depth] = l
	}
	w.Level = l

	at := arrival(l, down)
	p := &w.Player
	p.X, p.Y = at.X, at.Y
	p.PrevX, p.PrevY = at.X, at.Y
	w.Track = nil
	display.UpdateVision(w)
	return nil
}

// arrival picks where the hero lands: the up stairs when going down, the
// down stairs when going up, else the middle of the first room, else the
// first walkable square.
func arrival(l *types.Level, down bool) types.Coord {
	if down && l.UpStairs != nil {
		return *l.UpStairs
	}
	if !down && l.DownStairs != nil {
		return *l.DownStairs
	}
	if len(l.Rooms) > 0 {
		rm := l.Rooms[0]
		return types.Coord{X: (rm.LX + rm.HX) / 2, Y: (rm.LY + rm.HY) / 2}
	}
	for y := 0; y < types.MapRows; y++ {
		for x := 0; x < types.MapCols; x++ {
			if state.Walkable(l, x, y) {
				return types.Coord{X: x, Y: y}
			}
		}
	}
	return types.Coord{}
}

func (h *Harness) onStairs(up bool) bool {
	p := h.World.Player
	c := state.CellAt(h.World.Level, p.X, p.Y)
	return c != nil && c.Typ == types.Stairs && c.StairsUp == up
}

func (h *Harness) descend() CommandResult {
	res := CommandResult{Kind: types.CmdDown}
	if !h.onStairs(false) {
		h.message("You can't go down here.")
		return res
	}
	return h.changeLevel(res, h.World.Level.Depth+1, true)
}

func (h *Harness) climb() CommandResult {
	res := CommandResult{Kind: types.CmdUp}
	if !h.onStairs(true) {
		h.message("You can't go up here.")
		return res
	}
	if h.World.Level.Depth <= 1 {
		pr := &prompt.Prompt{Kind: prompt.YesNo, Question: "Beware, there will be no return!  Still climb?"}
		return h.suspend(types.CmdUp, pr, PendingPlain, func(prompt.Answer) CommandResult {
			// Leaving the dungeon ends the game, which a replay never does.
			return CommandResult{Kind: types.CmdUp}
		})
	}
	return h.changeLevel(res, h.World.Level.Depth-1, false)
}

func (h *Harness) changeLevel(res CommandResult, depth int, down bool) CommandResult {
	if err := h.enterLevel(depth, down); err != nil {
		h.message(fmt.Sprintf("The stairs are blocked (%v).", err))
		return res
	}
	h.lookHere(false)
	res.Moved = true
	res.TookTime = true
	return res
}
