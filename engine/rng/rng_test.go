package rng

import (
	"testing"

	"github.com/matryer/is"

	"github.com/nathoo/replaycore/types"
)

// drawSequence exercises every draw function in a fixed order.
func drawSequence(r *RNG) []int {
	var out []int
	for i := 0; i < 10; i++ {
		out = append(out,
			r.Rn2(12),
			r.Rnd(20),
			r.Rn1(31, 15),
			r.D(2, 6),
			r.Rnl(7),
			r.Rnz(350, 1),
		)
	}
	return out
}

func TestRNG_Deterministic(t *testing.T) {
	is := is.New(t)

	r1 := New(42)
	r2 := New(42)
	r1.EnableLog()
	r2.EnableLog()

	is.Equal(drawSequence(r1), drawSequence(r2))
	is.Equal(FormatTrace(r1.Log()), FormatTrace(r2.Log()))
	is.Equal(r1.Calls(), r2.Calls())
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	r1 := New(1)
	r2 := New(2)

	differs := false
	for i := 0; i < 20; i++ {
		if r1.Rn2(100) != r2.Rn2(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}

func TestRNG_Ranges(t *testing.T) {
	r := New(99)
	for i := 0; i < 1000; i++ {
		if v := r.Rn2(6); v < 0 || v > 5 {
			t.Fatalf("rn2(6) out of range: %d", v)
		}
		if v := r.Rnd(6); v < 1 || v > 6 {
			t.Fatalf("rnd(6) out of range: %d", v)
		}
		if v := r.Rn1(31, 15); v < 15 || v > 45 {
			t.Fatalf("rn1(31,15) out of range: %d", v)
		}
		if v := r.D(3, 4); v < 3 || v > 12 {
			t.Fatalf("d(3,4) out of range: %d", v)
		}
		if v := r.Rnl(20); v < 0 || v > 19 {
			t.Fatalf("rnl(20) out of range: %d", v)
		}
	}
}

func TestRNG_Degenerate(t *testing.T) {
	is := is.New(t)
	r := New(7)

	is.Equal(r.Rn2(0), 0)
	is.Equal(r.Rn2(-3), 0)
	is.Equal(r.Rnd(0), 1)
	// Degenerate draws still advance the counter.
	is.Equal(r.Calls(), int64(3))
}

func TestRNG_CallsTracksDiceSteps(t *testing.T) {
	is := is.New(t)
	r := New(42)

	r.Rn2(10)
	is.Equal(r.Calls(), int64(1))
	r.D(3, 6)
	is.Equal(r.Calls(), int64(4))
	r.D(0, 6)
	is.Equal(r.Calls(), int64(4))
}

func TestRNG_SnapshotRestore(t *testing.T) {
	is := is.New(t)

	r := New(42)
	drawSequence(r)
	snap := r.Snapshot()

	want := drawSequence(r)
	restored := Restore(snap)
	is.Equal(restored.Calls(), snap.Calls)
	is.Equal(drawSequence(restored), want)
}

func TestRNG_RestoreAt_MatchesPosition(t *testing.T) {
	is := is.New(t)

	r := New(42)
	for i := 0; i < 10; i++ {
		r.Rn2(6)
	}
	var expected [5]int
	for i := range expected {
		expected[i] = r.Rn2(6)
	}

	restored := RestoreAt(42, 10)
	is.Equal(restored.Calls(), int64(10))
	for _, want := range expected {
		is.Equal(restored.Rn2(6), want)
	}
}

func TestRNG_RestoreStreamAt_KeepsStream(t *testing.T) {
	is := is.New(t)

	r := NewStream(42, 9)
	for i := 0; i < 10; i++ {
		r.Rn2(6)
	}
	var expected [5]int
	for i := range expected {
		expected[i] = r.Rn2(1000)
	}

	restored := RestoreStreamAt(42, 9, 10)
	is.Equal(restored.Snapshot().Stream, int64(9))
	for _, want := range expected {
		is.Equal(restored.Rn2(1000), want)
	}
}

func TestRNG_WideRange(t *testing.T) {
	r := New(11)
	wide := 1 << 32
	sawHigh := false
	for i := 0; i < 100; i++ {
		if v := r.Rn2(wide); v < 0 || v >= wide {
			t.Fatalf("rn2(2^32) out of range: %d", v)
		}
		v := r.Rn2(wide + 5)
		if v < 0 || v >= wide+5 {
			t.Fatalf("rn2(2^32+5) out of range: %d", v)
		}
		if v >= 5 {
			sawHigh = true
		}
	}
	if !sawHigh {
		t.Error("rn2(2^32+5) behaved like rn2(5)")
	}
}

func TestRNG_LogRecordsPrimitivesOnly(t *testing.T) {
	is := is.New(t)

	r := New(3)
	r.SetLuck(3)
	r.EnableLog()
	r.Rnl(7)

	for _, e := range r.Log() {
		is.Equal(e.Kind, types.EntryDraw)
		is.Equal(e.Func, "rn2")
	}
	is.True(len(r.Log()) >= 1)

	r.SetTraceComposites(true)
	r.TakeLog()
	r.Rnl(7)
	log := r.Log()
	last := log[len(log)-1]
	is.Equal(last.Kind, types.EntryComposite)
	is.Equal(last.Func, "rnl")
}

func TestRNG_DisabledLogIsEmpty(t *testing.T) {
	is := is.New(t)
	r := New(3)
	r.Rn2(5)
	r.Mark(true, "makemon")
	is.Equal(len(r.Log()), 0)
}

func TestRNG_TakeLogDrains(t *testing.T) {
	is := is.New(t)
	r := New(3)
	r.EnableLog()
	r.Rn2(5)
	r.Rnd(5)

	taken := r.TakeLog()
	is.Equal(len(taken), 2)
	is.Equal(len(r.Log()), 0)
	is.Equal(taken[0].Func, "rn2")
	is.Equal(taken[1].Func, "rnd")
}
