package effects

import (
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/types"
)

type soundSource struct {
	present func(f types.LevelFlags) bool
	odds    int
	lines   []string
}

// Sources are checked in this order and each present one draws once.
var soundSources = []soundSource{
	{func(f types.LevelFlags) bool { return f.Fountains > 0 }, 400, []string{
		"You hear bubbling water.",
		"You hear water falling on coins.",
		"You hear the splashing of a naiad.",
	}},
	{func(f types.LevelFlags) bool { return f.Sinks > 0 }, 300, []string{
		"You hear a slow drip.",
		"You hear a gurgling noise.",
	}},
	{func(f types.LevelFlags) bool { return f.Court }, 200, []string{
		"You hear the tones of courtly conversation.",
		"You hear a sceptre pounded in judgment.",
		"Someone shouts \"Off with his head!\"",
	}},
	{func(f types.LevelFlags) bool { return f.Swamp }, 200, []string{
		"You hear mosquitoes!",
		"You smell marsh gas!",
	}},
	{func(f types.LevelFlags) bool { return f.Vault }, 200, []string{
		"You hear the footsteps of a guard on patrol.",
		"You hear someone counting money.",
	}},
	{func(f types.LevelFlags) bool { return f.Beehive }, 200, []string{
		"You hear a low buzzing.",
		"You hear an angry drone.",
	}},
	{func(f types.LevelFlags) bool { return f.Morgue }, 200, []string{
		"You suddenly realize it is unnaturally quiet.",
		"The hair on the back of your neck stands up.",
	}},
	{func(f types.LevelFlags) bool { return f.Zoo }, 200, []string{
		"You hear a sound reminiscent of an elephant stepping on a peanut.",
		"You hear a sound reminiscent of a seal barking.",
	}},
	{func(f types.LevelFlags) bool { return f.Oracle }, 400, []string{
		"You hear a strange wind.",
		"You hear convulsive ravings.",
		"You hear snoring snakes.",
	}},
	{func(f types.LevelFlags) bool { return f.Barracks }, 200, []string{
		"You hear blades being honed.",
		"You hear loud snoring.",
		"You hear dice being thrown.",
	}},
	{func(f types.LevelFlags) bool { return f.Temple }, 200, []string{
		"You hear a strident plea for donations.",
	}},
	{func(f types.LevelFlags) bool { return f.Shop }, 200, []string{
		"You hear someone cursing shoplifters.",
		"You hear the chime of a cash register.",
	}},
}

// Sounds rolls the ambient flavor messages of the current level.
func Sounds(w *types.World, r *rng.RNG) []types.Event {
	if w.Level == nil {
		return nil
	}
	var evts []types.Event
	for _, src := range soundSources {
		if !src.present(w.Level.Flags) {
			continue
		}
		if r.Rn2(src.odds) != 0 {
			continue
		}
		line := src.lines[r.Rn2(len(src.lines))]
		evts = append(evts, types.Event{Type: types.EvSound, Text: line})
	}
	return evts
}
