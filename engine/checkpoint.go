package engine

import (
	"fmt"

	"github.com/nathoo/replaycore/engine/save"
)

// Checkpoint serializes the world and generator. Only an idle harness can
// be checkpointed: no prompt, repeat, occupation or half-typed count.
func (h *Harness) Checkpoint() ([]byte, error) {
	if h.pending != nil || h.Busy() || h.count > 0 {
		return nil, ErrBusy
	}
	return save.Marshal(save.Capture(h.World, h.RNG))
}

// Resume builds a harness from a checkpoint. Its next draws are the ones
// the checkpointed harness would have made.
func Resume(data []byte, opts Options) (*Harness, error) {
	c, err := save.Load(data)
	if err != nil {
		return nil, fmt.Errorf("resuming: %w", err)
	}
	w, r := save.Apply(c)
	r.SetTraceComposites(opts.TraceComposites)
	r.EnableLog()
	return newHarness(w, r, opts), nil
}
