package engine

import (
	"fmt"

	"github.com/nathoo/replaycore/engine/effects"
	"github.com/nathoo/replaycore/types"
)

// Damage die of the hero's bare attack when nothing better is wielded.
const (
	weaponSides = 8
	fleeOdds    = 25
)

// attack is one melee swing at m. Hit points and experience drift from
// the recorded game are corrected by the status override, so only the
// draws need to line up.
func (h *Harness) attack(m *types.Monster) {
	p := &h.World.Player
	r := h.RNG

	toHit := 1 + p.Luck + strHitBonus(p.Attrs[types.AStr]) + p.Level + 10 - m.Level
	if toHit <= r.Rnd(20) {
		h.message(fmt.Sprintf("You miss the %s.", m.Name))
		return
	}

	dmg := r.Rnd(weaponSides) + strDamageBonus(p.Attrs[types.AStr])
	if dmg < 1 {
		dmg = 1
	}
	m.HP -= dmg
	if m.HP <= 0 {
		m.Dead = true
		h.message(fmt.Sprintf("You kill the %s!", m.Name))
		h.gainExperience(experience(m))
		return
	}
	h.message(fmt.Sprintf("You hit the %s.", m.Name))
	if m.HP < m.MaxHP/2 && r.Rn2(fleeOdds) == 0 {
		m.Flee = true
		m.FleeTimer = r.Rnd(10)
	}
}

func strHitBonus(str int) int {
	switch {
	case str < 6:
		return -2
	case str < 8:
		return -1
	case str < 17:
		return 0
	default:
		return 1
	}
}

func strDamageBonus(str int) int {
	switch {
	case str < 6:
		return -1
	case str < 16:
		return 0
	case str < 18:
		return 1
	default:
		return 2
	}
}

func experience(m *types.Monster) int {
	return 1 + m.Level*m.Level
}

// levelThreshold is the experience needed to leave level lvl.
func levelThreshold(lvl int) int {
	if lvl < 10 {
		return 10 << uint(lvl)
	}
	return 10000 * (1 << uint(lvl-9))
}

func (h *Harness) gainExperience(n int) {
	p := &h.World.Player
	p.Exp += n
	for p.Level < 30 && p.Exp >= levelThreshold(p.Level) {
		p.Level++
		gain := h.RNG.Rnd(8)
		p.MaxHP += gain
		p.HP += gain
		effects.Exert(p, h.RNG, types.AStr, true)
		h.message(fmt.Sprintf("Welcome to experience level %d.", p.Level))
	}
}
