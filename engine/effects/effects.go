// Package effects implements the end-of-turn pass. Each function is one
// numbered sub-step of a turn and draws only from the RNG it is given.
// The harness calls them in a fixed order; reordering them changes the trace.
package effects

import (
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// Exercise accumulators saturate at this magnitude.
const exerciseCap = 50

var attrNames = [types.NumAttrs]string{"Str", "Int", "Wis", "Dex", "Con", "Cha"}

// AttrName returns the status-line abbreviation of an attribute.
func AttrName(a types.Attribute) string {
	return attrNames[a]
}

// Regenerate heals one hit point with probability (level+Con)/100.
// Nothing is drawn while the hero is at full health.
func Regenerate(w *types.World, r *rng.RNG) []types.Event {
	p := &w.Player
	if p.HP >= p.MaxHP {
		return nil
	}
	if p.Level+p.Attrs[types.ACon] > r.Rn2(100) {
		p.HP++
		return []types.Event{{Type: types.EvRegenerated, Amount: 1}}
	}
	return nil
}

// Hunger burns one point of nutrition. The leading draw is made on every
// call and its value is never used.
func Hunger(w *types.World, r *rng.RNG) []types.Event {
	p := &w.Player
	_ = r.Rn2(20)
	p.Hunger--

	band := state.HungerBand(p.Hunger)
	if band == p.HungerState {
		return nil
	}
	p.HungerState = band
	return []types.Event{{Type: types.EvHungerChanged, Amount: int(band)}}
}

// Exert exercises (up) or abuses an attribute. Int and Cha cannot be
// exercised and never draw.
func Exert(p *types.Player, r *rng.RNG, a types.Attribute, up bool) {
	if a == types.AInt || a == types.ACha {
		return
	}
	if abs(p.Exercise[a]) >= exerciseCap {
		return
	}
	if up {
		if r.Rn2(19) > p.Attrs[a] {
			p.Exercise[a]++
		}
		return
	}
	p.Exercise[a] -= r.Rn2(2)
}

// Exercise applies the periodic hunger-band exercise every tenth turn and,
// once the scheduled check turn arrives, converts accumulated exercise into
// attribute changes.
func Exercise(w *types.World, r *rng.RNG) []types.Event {
	p := &w.Player
	if w.Turn%10 == 0 {
		switch p.HungerState {
		case types.Satiated:
			Exert(p, r, types.ADex, false)
		case types.NotHungry:
			Exert(p, r, types.ACon, true)
		case types.Weak:
			Exert(p, r, types.AStr, false)
		case types.Fainting:
			Exert(p, r, types.ACon, false)
		}
	}

	if w.Turn < w.NextAttrCheck {
		return nil
	}
	var evts []types.Event
	for i := types.Attribute(0); i < types.NumAttrs; i++ {
		ax := p.Exercise[i]
		if ax == 0 || i == types.AInt || i == types.ACha {
			continue
		}
		lim := abs(ax) * 2 / 3
		if i == types.AWis {
			lim = abs(ax)
		}
		if r.Rn2(exerciseCap) > lim {
			continue
		}
		mod := sign(ax)
		if adjust(p, i, mod) {
			p.Exercise[i] = 0
			evts = append(evts, types.Event{Type: types.EvAttrChanged, Subject: attrNames[i], Amount: mod})
		}
	}
	w.NextAttrCheck += r.Rn1(200, 800)
	return evts
}

func adjust(p *types.Player, a types.Attribute, delta int) bool {
	v := p.Attrs[a] + delta
	if v < 3 || v > 18 {
		return false
	}
	p.Attrs[a] = v
	return true
}

// WoundedLegs abuses Dex every fifth turn while the legs are wounded and
// counts the wound down.
func WoundedLegs(w *types.World, r *rng.RNG) []types.Event {
	p := &w.Player
	if p.WoundedLegs <= 0 {
		return nil
	}
	if w.Turn%5 == 0 {
		Exert(p, r, types.ADex, false)
	}
	p.WoundedLegs--
	return nil
}

// ErodeEngraving rolls, every turn, for the hero's feet to scuff whatever
// is engraved underfoot.
func ErodeEngraving(w *types.World, r *rng.RNG) []types.Event {
	p := &w.Player
	if r.Rn2(40+p.Attrs[types.ADex]*3) != 0 {
		return nil
	}
	cnt := r.Rnd(3)
	l := w.Level
	if l == nil {
		return nil
	}
	idx := state.EngravingAt(l, p.X, p.Y)
	if idx < 0 {
		return nil
	}
	l.Engravings[idx].Text = wipeout(r, l.Engravings[idx].Text, cnt)
	evts := []types.Event{{Type: types.EvEngravingWiped, Amount: cnt}}
	if blank(l.Engravings[idx].Text) {
		l.Engravings = append(l.Engravings[:idx], l.Engravings[idx+1:]...)
	}
	return evts
}

func wipeout(r *rng.RNG, text string, cnt int) string {
	b := []byte(text)
	if len(b) == 0 {
		return text
	}
	for ; cnt > 0; cnt-- {
		pos := r.Rn2(len(b))
		rubout := r.Rn2(4)
		if b[pos] == ' ' {
			continue
		}
		if rubout != 0 {
			b[pos] = '?'
		} else {
			b[pos] = ' '
		}
	}
	return string(b)
}

func blank(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			return false
		}
	}
	return true
}

// Seer reschedules the periodic seer event once its turn has come.
func Seer(w *types.World, r *rng.RNG) {
	if w.Turn >= w.SeerTurn {
		w.SeerTurn = w.Turn + r.Rn1(31, 15)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
