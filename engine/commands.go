package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/replaycore/engine/display"
	"github.com/nathoo/replaycore/engine/effects"
	"github.com/nathoo/replaycore/engine/prompt"
	"github.com/nathoo/replaycore/engine/resolve"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// repeatable reports whether a count prefix repeats the command.
func repeatable(kind types.CommandKind) bool {
	switch kind {
	case types.CmdMove, types.CmdRest, types.CmdSearch:
		return true
	default:
		return false
	}
}

// dispatch runs one command. The command table is closed: every kind is
// handled here and anything else is a no-op.
func (h *Harness) dispatch(kind types.CommandKind, b byte) CommandResult {
	switch kind {
	case types.CmdMove:
		return h.move(b)
	case types.CmdFight:
		return h.askDirection(kind, func(d resolve.Delta) CommandResult { return h.fight(d) })
	case types.CmdRest:
		return CommandResult{Kind: kind, TookTime: true}
	case types.CmdSearch:
		h.search()
		return CommandResult{Kind: kind, TookTime: true}
	case types.CmdInventory:
		menu := display.InventoryMenu(&h.World.Player)
		if menu == nil {
			h.message("Not carrying anything.")
			return CommandResult{Kind: kind}
		}
		return h.showMenu(kind, menu)
	case types.CmdEat:
		return h.askLetter(kind, "eat", isEdible, func(letter byte) CommandResult { return h.eat(letter) })
	case types.CmdDrop:
		return h.askLetter(kind, "drop", nil, func(letter byte) CommandResult { return h.drop(letter) })
	case types.CmdPickup:
		return h.pickup()
	case types.CmdOpen:
		return h.askDirection(kind, func(d resolve.Delta) CommandResult { return h.open(d) })
	case types.CmdClose:
		return h.askDirection(kind, func(d resolve.Delta) CommandResult { return h.close(d) })
	case types.CmdLook:
		h.lookHere(true)
		return CommandResult{Kind: kind}
	case types.CmdUp:
		return h.climb()
	case types.CmdDown:
		return h.descend()
	case types.CmdExtended:
		pr := &prompt.Prompt{Kind: prompt.Text, Question: "#"}
		return h.suspend(kind, pr, PendingExtended, func(a prompt.Answer) CommandResult { return h.extended(a.Text) })
	case types.CmdAttributes:
		return h.showMenu(kind, display.AttributesMenu(h.World))
	case types.CmdEscape:
		return CommandResult{Kind: kind}
	default:
		return CommandResult{Kind: types.CmdNone}
	}
}

func isEdible(o *types.Object) bool {
	return o.Edible
}

func (h *Harness) showMenu(kind types.CommandKind, lines []string) CommandResult {
	pr := &prompt.Prompt{Kind: prompt.Menu, Lines: lines}
	return h.suspend(kind, pr, PendingPlain, func(prompt.Answer) CommandResult {
		return CommandResult{Kind: kind}
	})
}

func (h *Harness) askDirection(kind types.CommandKind, then func(resolve.Delta) CommandResult) CommandResult {
	pr := &prompt.Prompt{Kind: prompt.Direction, Question: "In what direction?"}
	return h.suspend(kind, pr, PendingPlain, func(a prompt.Answer) CommandResult {
		d, ok := resolve.Direction(a.Key, pr.AllowSelf)
		if !ok {
			return CommandResult{Kind: kind}
		}
		return then(d)
	})
}

func (h *Harness) askLetter(kind types.CommandKind, verb string, accept func(*types.Object) bool, then func(byte) CommandResult) CommandResult {
	letters := resolve.Letters(&h.World.Player, accept)
	if letters == "" {
		h.message(fmt.Sprintf("You don't have anything to %s.", verb))
		return CommandResult{Kind: kind}
	}
	pr := &prompt.Prompt{Kind: prompt.Letter, Question: fmt.Sprintf("What do you want to %s?", verb), Choices: letters}
	return h.suspend(kind, pr, PendingPlain, func(a prompt.Answer) CommandResult {
		return then(a.Key)
	})
}

// move steps the hero one square, attacking whatever is in the way.
// Closed doors are opened instead of walked into.
func (h *Harness) move(b byte) CommandResult {
	res := CommandResult{Kind: types.CmdMove}
	d, ok := resolve.Direction(b, false)
	if !ok {
		return res
	}
	w := h.World
	p := &w.Player
	l := w.Level
	nx, ny := p.X+d.DX, p.Y+d.DY
	if !state.InBounds(nx, ny) {
		return res
	}

	if m := state.MonsterAt(l, nx, ny); m != nil {
		return h.attackOrConfirm(types.CmdMove, m)
	}

	c := state.CellAt(l, nx, ny)
	if c.Typ == types.Door && c.Door&(types.DoorClosed|types.DoorLocked) != 0 && d.DX != 0 && d.DY != 0 {
		return res
	}
	if c.Typ == types.Door && c.Door&(types.DoorClosed|types.DoorLocked) != 0 {
		return h.openDoorAt(types.CmdMove, nx, ny)
	}
	if !state.CanStep(l, p.X, p.Y, nx, ny) {
		return res
	}

	p.PrevX, p.PrevY = p.X, p.Y
	p.X, p.Y = nx, ny
	if h.lookHere(false) {
		h.interrupted = true
	}
	res.Moved = true
	res.TookTime = true
	return res
}

// lookHere describes the hero's square. Reports whether anything was there.
// When explicit is false, an empty square stays silent.
func (h *Harness) lookHere(explicit bool) bool {
	w := h.World
	p := w.Player
	l := w.Level
	found := false

	if i := state.EngravingAt(l, p.X, p.Y); i >= 0 {
		h.message("Something is written here in the dust.")
		h.message(fmt.Sprintf("You read: \"%s\".", l.Engravings[i].Text))
		found = true
	}
	if explicit {
		c := l.Cells[p.Y][p.X]
		switch c.Typ {
		case types.Stairs:
			dir := "down"
			if c.StairsUp {
				dir = "up"
			}
			h.message(fmt.Sprintf("There is a staircase %s here.", dir))
			found = true
		case types.Fountain:
			h.message("There is a fountain here.")
			found = true
		}
	}

	objs := state.ObjectsAt(l, p.X, p.Y)
	switch {
	case len(objs) == 1:
		h.message(fmt.Sprintf("You see here %s.", display.Describe(objs[0])))
		found = true
	case len(objs) > 1:
		h.message("There are several objects here.")
		found = true
	case explicit && !found:
		h.message("You see no objects here.")
	}
	return found
}

// search looks for hidden doors and corridors around the hero.
func (h *Harness) search() {
	w := h.World
	p := &w.Player
	l := w.Level
	for x := p.X - 1; x <= p.X+1; x++ {
		for y := p.Y - 1; y <= p.Y+1; y++ {
			if x == p.X && y == p.Y {
				continue
			}
			c := state.CellAt(l, x, y)
			if c == nil {
				continue
			}
			switch c.Typ {
			case types.SDoor:
				if h.rnl(7) != 0 {
					continue
				}
				c.Typ = types.Door
				h.found("door")
			case types.SCorr:
				if h.rnl(7) != 0 {
					continue
				}
				c.Typ = types.Corr
				h.found("passage")
			}
		}
	}
}

func (h *Harness) found(what string) {
	effects.Exert(&h.World.Player, h.RNG, types.AWis, true)
	h.message(fmt.Sprintf("You find a hidden %s.", what))
	h.interrupted = true
}

func (h *Harness) fight(d resolve.Delta) CommandResult {
	w := h.World
	p := w.Player
	x, y := p.X+d.DX, p.Y+d.DY
	if m := state.MonsterAt(w.Level, x, y); m != nil {
		return h.attackOrConfirm(types.CmdFight, m)
	}
	h.message("You harmlessly attack thin air.")
	return CommandResult{Kind: types.CmdFight, TookTime: true}
}

// attackOrConfirm attacks a hostile monster outright and asks first for a
// peaceful one.
func (h *Harness) attackOrConfirm(kind types.CommandKind, m *types.Monster) CommandResult {
	if !m.Peaceful {
		h.attack(m)
		return CommandResult{Kind: kind, TookTime: true}
	}
	pr := &prompt.Prompt{Kind: prompt.YesNo, Question: fmt.Sprintf("Really attack the %s?", m.Name)}
	return h.suspend(kind, pr, PendingPlain, func(a prompt.Answer) CommandResult {
		if a.Key != 'y' {
			return CommandResult{Kind: kind}
		}
		m.Peaceful = false
		h.attack(m)
		return CommandResult{Kind: kind, TookTime: true}
	})
}

// doorRoll is the strength-based threshold for forcing doors.
func doorRoll(p *types.Player) int {
	return (p.Attrs[types.AStr] + p.Attrs[types.ADex] + p.Attrs[types.ACon]) / 3
}

func (h *Harness) open(d resolve.Delta) CommandResult {
	p := h.World.Player
	return h.openDoorAt(types.CmdOpen, p.X+d.DX, p.Y+d.DY)
}

func (h *Harness) openDoorAt(kind types.CommandKind, x, y int) CommandResult {
	res := CommandResult{Kind: kind}
	c := state.CellAt(h.World.Level, x, y)
	if c == nil || c.Typ != types.Door {
		h.message("You see no door there.")
		return res
	}
	switch {
	case c.Door&types.DoorLocked != 0:
		h.message("This door is locked.")
		return res
	case c.Door&types.DoorOpen != 0:
		h.message("This door is already open.")
		return res
	case c.Door&types.DoorClosed == 0:
		h.message("This doorway has no door.")
		return res
	}

	p := &h.World.Player
	if h.rnl(20) < doorRoll(p) {
		h.message("The door opens.")
		c.Door = types.DoorOpen
	} else {
		effects.Exert(p, h.RNG, types.AStr, true)
		h.message("The door is stuck.")
	}
	res.TookTime = true
	return res
}

func (h *Harness) close(d resolve.Delta) CommandResult {
	res := CommandResult{Kind: types.CmdClose}
	w := h.World
	p := &w.Player
	x, y := p.X+d.DX, p.Y+d.DY
	c := state.CellAt(w.Level, x, y)
	if c == nil || c.Typ != types.Door {
		h.message("You see no door there.")
		return res
	}
	switch {
	case c.Door&(types.DoorClosed|types.DoorLocked) != 0:
		h.message("This door is already closed.")
		return res
	case c.Door&types.DoorOpen == 0:
		h.message("This doorway has no door.")
		return res
	}
	if state.MonsterAt(w.Level, x, y) != nil || len(state.ObjectsAt(w.Level, x, y)) > 0 {
		h.message("Something's in the way.")
		return res
	}

	if h.RNG.Rn2(25) < doorRoll(p) {
		h.message("The door closes.")
		c.Door = types.DoorClosed
	} else {
		effects.Exert(p, h.RNG, types.AStr, true)
		h.message("The door resists!")
	}
	res.TookTime = true
	return res
}

func (h *Harness) pickup() CommandResult {
	res := CommandResult{Kind: types.CmdPickup}
	w := h.World
	p := &w.Player
	objs := state.ObjectsAt(w.Level, p.X, p.Y)
	if len(objs) == 0 {
		h.message("There is nothing here to pick up.")
		return res
	}
	for _, o := range objs {
		state.RemoveObject(w.Level, o)
		if o.Symbol == '$' {
			p.Gold += o.Quantity
			h.message(fmt.Sprintf("%d gold piece%s.", o.Quantity, plural(o.Quantity)))
			continue
		}
		state.AddInventory(w, o)
		h.message(fmt.Sprintf("%c - %s.", o.Letter, display.Describe(o)))
	}
	res.TookTime = true
	return res
}

func (h *Harness) drop(letter byte) CommandResult {
	res := CommandResult{Kind: types.CmdDrop}
	w := h.World
	p := &w.Player
	o, err := resolve.Item(p, letter, "drop", nil)
	if err != nil {
		h.message(err.Error())
		return res
	}
	state.RemoveInventory(p, o)
	o.X, o.Y = p.X, p.Y
	state.AddObject(w, o)
	h.message(fmt.Sprintf("You drop %s.", display.Describe(o)))
	res.TookTime = true
	return res
}

func (h *Harness) extended(text string) CommandResult {
	res := CommandResult{Kind: types.CmdExtended}
	name := strings.ToLower(strings.TrimSpace(text))
	if name == "" {
		return res
	}
	switch matchExtended(name) {
	case "pray":
		h.pray()
		res.TookTime = true
	case "sit":
		h.message("Having fun sitting on the floor?")
		res.TookTime = true
	default:
		h.message(fmt.Sprintf("#%s: unknown extended command.", name))
	}
	return res
}

var extendedCommands = []string{"pray", "sit"}

// matchExtended resolves a typed name or unique prefix to a command name.
func matchExtended(name string) string {
	match := ""
	for _, c := range extendedCommands {
		if c == name {
			return c
		}
		if strings.HasPrefix(c, name) {
			if match != "" {
				return ""
			}
			match = c
		}
	}
	return match
}

func (h *Harness) pray() {
	p := &h.World.Player
	god := "the gods"
	if role, ok := state.LookupRole(p.Role); ok {
		god = role.God
	}
	h.message(fmt.Sprintf("You begin praying to %s.", god))
	if p.PrayerTimeout < 100 && p.Luck >= 0 {
		if p.HP < p.MaxHP/7 || p.HP < 6 {
			p.HP = p.MaxHP
			h.message("You feel much better.")
		} else {
			h.message("You feel a hopeful feeling.")
		}
	} else {
		h.message(fmt.Sprintf("You feel that %s is displeased.", god))
	}
	p.PrayerTimeout = h.RNG.Rnz(350, p.Level)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
