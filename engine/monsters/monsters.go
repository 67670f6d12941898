// Package monsters is the default monster collaborator: movement,
// speed accrual, flee timers and ambient generation. Every random
// decision draws from the RNG it is handed.
package monsters

import (
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/engine/state"
	"github.com/nathoo/replaycore/types"
)

// NormalSpeed is the movement cost of one action.
const NormalSpeed = 12

// Ambient generation odds per turn.
const spawnChance = 70

// Sight radius, squared, within which a monster heads straight for the hero.
const sightRange2 = 64

// Species is a monster template.
type Species struct {
	Name    string
	Symbol  rune
	Level   int
	Speed   int
	AttackN int
	AttackD int
}

var bestiary = []Species{
	{Name: "newt", Symbol: ':', Level: 0, Speed: 6, AttackN: 1, AttackD: 3},
	{Name: "jackal", Symbol: 'd', Level: 0, Speed: 12, AttackN: 1, AttackD: 2},
	{Name: "grid bug", Symbol: 'x', Level: 0, Speed: 12, AttackN: 1, AttackD: 1},
	{Name: "sewer rat", Symbol: 'r', Level: 0, Speed: 12, AttackN: 1, AttackD: 3},
	{Name: "kobold", Symbol: 'k', Level: 0, Speed: 6, AttackN: 1, AttackD: 4},
	{Name: "goblin", Symbol: 'o', Level: 0, Speed: 6, AttackN: 1, AttackD: 6},
	{Name: "gnome", Symbol: 'G', Level: 1, Speed: 6, AttackN: 1, AttackD: 6},
	{Name: "giant rat", Symbol: 'r', Level: 1, Speed: 10, AttackN: 1, AttackD: 3},
	{Name: "coyote", Symbol: 'd', Level: 1, Speed: 12, AttackN: 1, AttackD: 3},
	{Name: "fox", Symbol: 'd', Level: 1, Speed: 14, AttackN: 1, AttackD: 3},
	{Name: "hobbit", Symbol: 'h', Level: 1, Speed: 9, AttackN: 1, AttackD: 6},
	{Name: "hill orc", Symbol: 'o', Level: 1, Speed: 9, AttackN: 1, AttackD: 6},
}

// Spawnable returns the species that may be generated at a depth, in a fixed order.
func Spawnable(depth int) []Species {
	var out []Species
	for _, sp := range bestiary {
		if sp.Level <= depth {
			out = append(out, sp)
		}
	}
	return out
}

// Lookup finds a species by name.
func Lookup(name string) (Species, bool) {
	for _, sp := range bestiary {
		if sp.Name == name {
			return sp, true
		}
	}
	return Species{}, false
}

// Pick draws a random species for a depth.
func Pick(r *rng.RNG, depth int) Species {
	list := Spawnable(depth)
	return list[r.Rn2(len(list))]
}

// New creates a monster of the given species, drawing its hit points.
func New(r *rng.RNG, sp Species, x, y int) *types.Monster {
	var hp int
	if sp.Level == 0 {
		hp = r.Rnd(4)
	} else {
		hp = r.D(sp.Level, 8)
	}
	return &types.Monster{
		Name:    sp.Name,
		Symbol:  sp.Symbol,
		X:       x,
		Y:       y,
		HP:      hp,
		MaxHP:   hp,
		Level:   sp.Level,
		Speed:   sp.Speed,
		AttackN: sp.AttackN,
		AttackD: sp.AttackD,
	}
}

// Move runs the monster movement pass. Dead monsters are pruned first;
// monsters killed during the pass stay in the list until the next one.
func Move(w *types.World, r *rng.RNG) []types.Event {
	l := w.Level
	if l == nil {
		return nil
	}
	state.PruneDead(l)

	var evts []types.Event
	for _, m := range l.Monsters {
		for !m.Dead && m.Movement >= NormalSpeed {
			m.Movement -= NormalSpeed
			evts = append(evts, act(w, r, m)...)
		}
	}
	return evts
}

func act(w *types.World, r *rng.RNG, m *types.Monster) []types.Event {
	p := &w.Player
	if m.Peaceful {
		return nil
	}
	if !m.Flee && state.Adjacent(m.X, m.Y, p.X, p.Y) {
		return attack(p, r, m)
	}

	goal, ok := goalFor(w, m)
	if !ok {
		return nil
	}
	step(w, m, goal)
	return nil
}

// attack resolves one melee attack against the hero. Hero hit points
// never drop below one; the replay resynchronizes them from the screen.
func attack(p *types.Player, r *rng.RNG, m *types.Monster) []types.Event {
	toHit := 10 + p.AC + m.Level
	if toHit <= r.Rnd(20) {
		return []types.Event{{Type: types.EvMonsterMiss, Subject: m.Name}}
	}
	dmg := r.D(m.AttackN, m.AttackD)
	p.HP -= dmg
	if p.HP < 1 {
		p.HP = 1
	}
	return []types.Event{{Type: types.EvMonsterHit, Subject: m.Name, Amount: dmg}}
}

func goalFor(w *types.World, m *types.Monster) (types.Coord, bool) {
	p := w.Player
	if state.Distance2(m.X, m.Y, p.X, p.Y) <= sightRange2 {
		return types.Coord{X: p.X, Y: p.Y}, true
	}
	if c, ok := state.GetTrack(w, m.X, m.Y); ok {
		return c, true
	}
	return types.Coord{}, false
}

// step moves m one square toward goal, or away from it when fleeing.
// Candidates are scanned in a fixed order so ties resolve the same way
// every run.
func step(w *types.World, m *types.Monster, goal types.Coord) {
	l := w.Level
	p := w.Player
	best := state.Distance2(m.X, m.Y, goal.X, goal.Y)
	bx, by := m.X, m.Y
	for x := m.X - 1; x <= m.X+1; x++ {
		for y := m.Y - 1; y <= m.Y+1; y++ {
			if x == m.X && y == m.Y {
				continue
			}
			if x == p.X && y == p.Y {
				continue
			}
			if !state.CanStep(l, m.X, m.Y, x, y) || state.MonsterAt(l, x, y) != nil {
				continue
			}
			d := state.Distance2(x, y, goal.X, goal.Y)
			if (m.Flee && d > best) || (!m.Flee && d < best) {
				best, bx, by = d, x, y
			}
		}
	}
	m.X, m.Y = bx, by
}

// Accrue grants each live monster its movement for the coming turn.
// Speed that is not a multiple of NormalSpeed is rounded randomly.
func Accrue(w *types.World, r *rng.RNG) {
	if w.Level == nil {
		return
	}
	for _, m := range w.Level.Monsters {
		if m.Dead {
			continue
		}
		mmove := m.Speed
		if mmove > 0 {
			adj := mmove % NormalSpeed
			mmove -= adj
			if r.Rn2(NormalSpeed) < adj {
				mmove += NormalSpeed
			}
		}
		m.Movement += mmove
	}
}

// DecayFlee counts down flee timers. No draws.
func DecayFlee(w *types.World) {
	if w.Level == nil {
		return
	}
	for _, m := range w.Level.Monsters {
		if m.FleeTimer > 0 {
			m.FleeTimer--
			if m.FleeTimer == 0 {
				m.Flee = false
			}
		}
	}
}

// Spawn rolls for an ambient monster. Levels flagged NoMonsters never draw.
// The new monster is placed out of the hero's sight; after fifty failed
// placement attempts nothing is generated.
func Spawn(w *types.World, r *rng.RNG) []types.Event {
	l := w.Level
	if l == nil || l.Flags.NoMonsters {
		return nil
	}
	if r.Rn2(spawnChance) != 0 {
		return nil
	}
	sp := Pick(r, l.Depth)
	for tries := 0; tries < 50; tries++ {
		x := r.Rn1(types.MapCols-3, 2)
		y := r.Rn2(types.MapRows)
		if !goodPos(w, x, y) {
			continue
		}
		m := New(r, sp, x, y)
		state.AddMonster(w, m)
		return []types.Event{{Type: types.EvMonsterSpawned, Subject: m.Name}}
	}
	return nil
}

func goodPos(w *types.World, x, y int) bool {
	l := w.Level
	if !state.Walkable(l, x, y) || state.MonsterAt(l, x, y) != nil {
		return false
	}
	if x == w.Player.X && y == w.Player.Y {
		return false
	}
	return !state.CouldSee(w, x, y)
}
