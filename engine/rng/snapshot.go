package rng

import "github.com/dgryski/go-pcgr"

// Snapshot is the complete generator state. It carries no trace log.
type Snapshot struct {
	Seed   int64  `json:"seed"`
	Stream int64  `json:"stream"`
	State  uint64 `json:"state"`
	Inc    uint64 `json:"inc"`
	Calls  int64  `json:"calls"`
	Luck   int    `json:"luck"`
}

// Snapshot captures the generator state.
func (r *RNG) Snapshot() Snapshot {
	return Snapshot{
		Seed:   r.seed,
		Stream: r.stream,
		State:  r.src.State,
		Inc:    r.src.Inc,
		Calls:  r.calls,
		Luck:   r.luck,
	}
}

// Restore creates an RNG that continues exactly where the snapshot left off.
func Restore(s Snapshot) *RNG {
	return &RNG{
		seed:   s.Seed,
		stream: s.Stream,
		src:    pcgr.Rand{State: s.State, Inc: s.Inc},
		calls:  s.Calls,
		luck:   s.Luck,
	}
}

// RestoreAt creates an RNG from a seed on the default stream and advances
// it by the given number of generator steps. Identical (seed, calls) yields
// an identical next draw.
func RestoreAt(seed int64, calls int64) *RNG {
	return RestoreStreamAt(seed, DefaultStream, calls)
}

// RestoreStreamAt is RestoreAt for a generator made with NewStream.
func RestoreStreamAt(seed, stream, calls int64) *RNG {
	r := NewStream(seed, stream)
	for i := int64(0); i < calls; i++ {
		r.step()
	}
	return r
}
