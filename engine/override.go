package engine

import "github.com/nathoo/replaycore/types"

// StatusOverride carries hero numbers read off a recorded status line.
type StatusOverride struct {
	HP, MaxHP int
	Pw, MaxPw int
	Attrs     [types.NumAttrs]int

	HasHP    bool
	HasPw    bool
	HasAttrs bool
}

// OverrideStatus is ground-truth reconciliation, not simulation: it copies
// values the recorded screen displayed onto the hero so that combat and
// attribute drift cannot leak into later draws. It never draws.
func (h *Harness) OverrideStatus(o StatusOverride) {
	p := &h.World.Player
	if o.HasHP {
		p.HP, p.MaxHP = o.HP, o.MaxHP
		h.hpMark = p.HP
	}
	if o.HasPw {
		p.Pw, p.MaxPw = o.Pw, o.MaxPw
	}
	if o.HasAttrs {
		p.Attrs = o.Attrs
	}
}
