// Package compare holds the pure comparison functions: RNG traces aligned
// on primitive draws, terrain grids cell by cell, and screens line by line.
package compare

import (
	"fmt"
	"strings"

	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/types"
)

// Verdict is the outcome of an RNG trace comparison.
type Verdict int

const (
	Identical      Verdict = iota
	Diverged               // a primitive draw differs
	ExpectedPrefix         // expected ran out first: actual drew more
	ActualPrefix           // actual ran out first: expected drew more
)

func (v Verdict) String() string {
	switch v {
	case Identical:
		return "identical"
	case Diverged:
		return "diverged"
	case ExpectedPrefix:
		return "expected is a prefix of actual"
	case ActualPrefix:
		return "actual is a prefix of expected"
	default:
		return "unknown"
	}
}

// Mismatch describes where two traces part ways. Index counts primitive
// draws only; the raw positions locate the entries in the original slices
// and are -1 past the end.
type Mismatch struct {
	Verdict     Verdict
	Index       int
	Actual      string
	Expected    string
	ActualPos   int
	ExpectedPos int
}

// Match reports whether the traces were identical.
func (m Mismatch) Match() bool {
	return m.Verdict == Identical
}

// Skippable reports whether an entry is a scope marker or a composite
// wrapper, which neither side is required to log.
func Skippable(e types.RngLogEntry) bool {
	return e.Kind != types.EntryDraw || rng.IsComposite(e.Func)
}

// CompareRng walks both traces in lock-step over primitive draws, skipping
// markers and composites independently on each side.
func CompareRng(actual, expected []types.RngLogEntry) Mismatch {
	i, j, n := 0, 0, 0
	for {
		for i < len(actual) && Skippable(actual[i]) {
			i++
		}
		for j < len(expected) && Skippable(expected[j]) {
			j++
		}
		aDone, eDone := i >= len(actual), j >= len(expected)
		switch {
		case aDone && eDone:
			return Mismatch{Verdict: Identical, Index: n, ActualPos: -1, ExpectedPos: -1}
		case eDone:
			return Mismatch{Verdict: ExpectedPrefix, Index: n, Actual: rng.Payload(actual[i]), ActualPos: i, ExpectedPos: -1}
		case aDone:
			return Mismatch{Verdict: ActualPrefix, Index: n, Expected: rng.Payload(expected[j]), ActualPos: -1, ExpectedPos: j}
		}
		a, e := rng.Payload(actual[i]), rng.Payload(expected[j])
		if a != e {
			return Mismatch{Verdict: Diverged, Index: n, Actual: a, Expected: e, ActualPos: i, ExpectedPos: j}
		}
		i++
		j++
		n++
	}
}

// Primitives returns the entries a comparison actually looks at.
func Primitives(entries []types.RngLogEntry) []types.RngLogEntry {
	var out []types.RngLogEntry
	for _, e := range entries {
		if !Skippable(e) {
			out = append(out, e)
		}
	}
	return out
}

// IsPrefix reports whether prefix's primitive draws begin trace's.
func IsPrefix(prefix, trace []types.RngLogEntry) bool {
	m := CompareRng(trace, prefix)
	return m.Verdict == Identical || m.Verdict == ExpectedPrefix
}

// FormatMismatch renders a mismatch for a report line.
func FormatMismatch(m Mismatch) string {
	switch m.Verdict {
	case Identical:
		return "rng identical"
	case ExpectedPrefix:
		return fmt.Sprintf("rng: actual has extra draws from #%d: %s", m.Index, m.Actual)
	case ActualPrefix:
		return fmt.Sprintf("rng: actual stops at #%d, expected %s", m.Index, m.Expected)
	default:
		return fmt.Sprintf("rng diverged at #%d: got %s, want %s", m.Index, m.Actual, m.Expected)
	}
}

// ScreenDiff lists the rows where two screens differ after right-trimming.
type ScreenDiff struct {
	Rows     []int
	Actual   []string
	Expected []string
}

// Match reports whether the screens were equal.
func (d ScreenDiff) Match() bool {
	return len(d.Rows) == 0
}

// CompareScreens compares two screens row by row, ignoring trailing blanks
// and treating missing rows as empty.
func CompareScreens(actual, expected []string) ScreenDiff {
	var d ScreenDiff
	n := len(actual)
	if len(expected) > n {
		n = len(expected)
	}
	for i := 0; i < n; i++ {
		a, e := row(actual, i), row(expected, i)
		if a != e {
			d.Rows = append(d.Rows, i)
			d.Actual = append(d.Actual, a)
			d.Expected = append(d.Expected, e)
		}
	}
	return d
}

func row(lines []string, i int) string {
	if i >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[i], " ")
}

// FormatScreenDiff renders a screen diff, one row pair per differing row.
func FormatScreenDiff(d ScreenDiff) string {
	if d.Match() {
		return "screen identical"
	}
	var b strings.Builder
	for k, r := range d.Rows {
		fmt.Fprintf(&b, "row %2d  got: %q\n        want: %q\n", r, d.Actual[k], d.Expected[k])
	}
	return strings.TrimRight(b.String(), "\n")
}
