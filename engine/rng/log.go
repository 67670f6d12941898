package rng

import "github.com/nathoo/replaycore/types"

// EnableLog starts recording primitive draws.
func (r *RNG) EnableLog() {
	r.logging = true
}

// DisableLog stops recording. The existing log is kept.
func (r *RNG) DisableLog() {
	r.logging = false
}

// Logging reports whether draws are being recorded.
func (r *RNG) Logging() bool {
	return r.logging
}

// SetTraceComposites controls whether composite wrappers (rnl, rne, rnz)
// append their own tagged entry after their primitive draws.
func (r *RNG) SetTraceComposites(on bool) {
	r.traceComposites = on
}

// Log returns a copy of the recorded entries.
func (r *RNG) Log() []types.RngLogEntry {
	out := make([]types.RngLogEntry, len(r.log))
	copy(out, r.log)
	return out
}

// TakeLog returns the recorded entries and clears the log.
func (r *RNG) TakeLog() []types.RngLogEntry {
	out := r.log
	r.log = nil
	return out
}

// Mark appends a scope marker. Markers are skipped by the comparator.
func (r *RNG) Mark(enter bool, scope string) {
	if !r.logging {
		return
	}
	kind := types.EntryExit
	if enter {
		kind = types.EntryEnter
	}
	e := types.RngLogEntry{Kind: kind, Func: scope}
	e.Raw = Format(e)
	r.log = append(r.log, e)
}

func (r *RNG) record(fn string, result int, args ...int) {
	if !r.logging {
		return
	}
	r.log = append(r.log, types.RngLogEntry{
		Kind:   types.EntryDraw,
		Func:   fn,
		Args:   args,
		Result: result,
	})
}

func (r *RNG) recordComposite(fn string, result int, args ...int) {
	if !r.logging || !r.traceComposites {
		return
	}
	r.log = append(r.log, types.RngLogEntry{
		Kind:   types.EntryComposite,
		Func:   fn,
		Args:   args,
		Result: result,
	})
}
