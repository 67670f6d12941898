package replay

import (
	"regexp"
	"strconv"

	"github.com/nathoo/replaycore/compare"
	"github.com/nathoo/replaycore/engine"
	"github.com/nathoo/replaycore/types"
)

// Status rows of a 24-line screen.
const (
	statusRow1 = 22
	statusRow2 = 23
)

var (
	hpPattern = regexp.MustCompile(`HP:(\d+)\((\d+)\)`)
	pwPattern = regexp.MustCompile(`Pw:(\d+)\((\d+)\)`)

	attrPatterns = [types.NumAttrs]*regexp.Regexp{
		types.AStr: regexp.MustCompile(`St:(\d+)`),
		types.AInt: regexp.MustCompile(`In:(\d+)`),
		types.AWis: regexp.MustCompile(`Wi:(\d+)`),
		types.ADex: regexp.MustCompile(`Dx:(\d+)`),
		types.ACon: regexp.MustCompile(`Co:(\d+)`),
		types.ACha: regexp.MustCompile(`Ch:(\d+)`),
	}
)

// ParseStatus reads hit points, power and attributes off the status rows
// of a recorded screen. Fields that cannot be found are left unset.
func ParseStatus(screen []string) engine.StatusOverride {
	var o engine.StatusOverride
	if len(screen) <= statusRow2 {
		return o
	}
	line1, line2 := screen[statusRow1], screen[statusRow2]

	if m := hpPattern.FindStringSubmatch(line2); m != nil {
		o.HP, o.MaxHP, o.HasHP = atoi(m[1]), atoi(m[2]), true
	}
	if m := pwPattern.FindStringSubmatch(line2); m != nil {
		o.Pw, o.MaxPw, o.HasPw = atoi(m[1]), atoi(m[2]), true
	}

	found := 0
	for a, re := range attrPatterns {
		if m := re.FindStringSubmatch(line1); m != nil {
			o.Attrs[a] = atoi(m[1])
			found++
		}
	}
	o.HasAttrs = found == types.NumAttrs
	return o
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// reconcile overrides the hero's numbers with the recorded ones. This is a
// declared approximation: combat damage is not reproduced bit for bit, so
// the recording is taken as ground truth after every step.
func (e *Engine) reconcile(screen []string) {
	o := ParseStatus(screen)
	if o.HasHP && o.MaxHP <= 0 {
		o.HasHP = false
	}
	e.h.OverrideStatus(o)
}

// deferSuffix handles a reference that split one turn across two captured
// keys at a --More--. When this step drew everything it was expected to
// plus more, the extra draws move to the first later step that expects any
// draws, provided they are exactly a prefix of that step's expected trace.
// Otherwise the extra draws stay where they are.
func (e *Engine) deferSuffix(i int, out *types.ReplayStepResult) {
	st := e.session.Steps[i]
	if !ShowsMore(st.Screen) {
		return
	}
	m := compare.CompareRng(out.Rng, st.Rng)
	if m.Verdict != compare.ExpectedPrefix {
		return
	}

	suffix := out.Rng[m.ActualPos:]
	for j := i + 1; j < len(e.session.Steps); j++ {
		want := e.session.Steps[j].Rng
		if len(compare.Primitives(want)) == 0 {
			continue
		}
		if !compare.IsPrefix(suffix, want) {
			e.logger.Debug("leaving extra draws in place",
				"step", i, "draws", len(compare.Primitives(suffix)), "next", j)
			return
		}
		e.logger.Debug("deferring draws past --More--",
			"step", i, "to", j, "draws", len(compare.Primitives(suffix)))
		e.carry[j] = append(e.carry[j], suffix...)
		out.Rng = out.Rng[:m.ActualPos:m.ActualPos]
		e.deferrals++
		return
	}
}
