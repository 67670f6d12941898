// Package rng provides the seeded, call-counting generator that every
// drawing operation in the harness receives explicitly. There is no
// package-level generator: whoever draws holds an *RNG.
package rng

import (
	"github.com/dgryski/go-pcgr"

	"github.com/nathoo/replaycore/types"
)

// DefaultStream is the PCG stream selector used by New.
const DefaultStream int64 = 0x5eed

// RNG wraps a PCG generator with a call counter and an optional trace log.
// The call counter increments once per generator step, enabling
// snapshot/restore from (seed, calls) alone.
type RNG struct {
	seed   int64
	stream int64
	src    pcgr.Rand
	calls  int64
	luck   int

	logging         bool
	traceComposites bool
	log             []types.RngLogEntry
}

// New creates a deterministic RNG from a seed.
func New(seed int64) *RNG {
	return NewStream(seed, DefaultStream)
}

// NewStream creates a deterministic RNG from a seed and a stream selector.
func NewStream(seed, stream int64) *RNG {
	p := pcgr.New(seed, stream)
	return &RNG{
		seed:   seed,
		stream: stream,
		src:    pcgr.Rand{State: p.State, Inc: p.Inc},
	}
}

func (r *RNG) step() uint32 {
	r.calls++
	return r.src.Next()
}

// raw draws in [0, n). n <= 0 still consumes one step and yields 0.
// A single step carries 32 bits, so n beyond that range draws from
// [0, 2^32) without truncating n.
func (r *RNG) raw(n int) int {
	v := r.step()
	if n <= 0 {
		return 0
	}
	return int(uint64(v) % uint64(n))
}

// Rn2 returns an integer in [0, n). Degenerate n yields 0.
func (r *RNG) Rn2(n int) int {
	v := r.raw(n)
	r.record("rn2", v, n)
	return v
}

// Rnd returns an integer in [1, n]. Degenerate n yields 1.
func (r *RNG) Rnd(n int) int {
	v := r.raw(n) + 1
	r.record("rnd", v, n)
	return v
}

// Rn1 returns Rn2(n) + base, logged as one rn1 entry.
func (r *RNG) Rn1(n, base int) int {
	v := r.raw(n) + base
	r.record("rn1", v, n, base)
	return v
}

// D returns the sum of n dice with the given number of sides, logged as one entry.
func (r *RNG) D(n, sides int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += r.raw(sides) + 1
	}
	r.record("d", sum, n, sides)
	return sum
}

// Rnl returns a luck-adjusted value in [0, x), biased toward small values
// when luck is positive. It is composite: its Rn2 draws are logged, the
// wrapper only when composite tracing is on.
func (r *RNG) Rnl(x int) int {
	adjustment := r.luck
	if x <= 15 {
		adjustment = (abs(adjustment) + 1) / 3 * sign(adjustment)
	}
	i := r.Rn2(x)
	if adjustment != 0 && r.Rn2(37+abs(adjustment)) != 0 {
		i -= adjustment
		if i < 0 {
			i = 0
		} else if x > 0 && i >= x {
			i = x - 1
		}
	}
	r.recordComposite("rnl", i, x)
	return i
}

// Rne returns a small exponentially distributed value, capped by hero level.
func (r *RNG) Rne(x, heroLevel int) int {
	limit := 5
	if heroLevel >= 15 {
		limit = heroLevel / 3
	}
	tmp := 1
	for tmp < limit && r.Rn2(x) == 0 {
		tmp++
	}
	r.recordComposite("rne", tmp, x)
	return tmp
}

// Rnz returns a value spread logarithmically around i.
func (r *RNG) Rnz(i, heroLevel int) int {
	x := int64(i)
	tmp := int64(1000)
	tmp += int64(r.Rn2(1000))
	tmp *= int64(r.Rne(4, heroLevel))
	if r.Rn2(2) != 0 {
		x *= tmp
		x /= 1000
	} else {
		x *= 1000
		x /= tmp
	}
	r.recordComposite("rnz", int(x), i)
	return int(x)
}

// Calls returns the number of generator steps taken since seeding.
func (r *RNG) Calls() int64 {
	return r.calls
}

// Seed returns the seed the generator was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// SetLuck sets the luck value used by Rnl.
func (r *RNG) SetLuck(luck int) {
	r.luck = luck
}

// Luck returns the luck value used by Rnl.
func (r *RNG) Luck() int {
	return r.luck
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
