// Package report turns a replay result into per-step verdicts against the
// recording, and persists or prints them.
package report

import (
	"fmt"

	"github.com/nathoo/replaycore/compare"
	"github.com/nathoo/replaycore/replay"
	"github.com/nathoo/replaycore/types"
)

// Options controls what a report compares.
type Options struct {
	// GridPreview bounds the differing cells kept per step.
	GridPreview int
	// CompareScreens compares screens whenever the recording has one.
	CompareScreens bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{GridPreview: 10, CompareScreens: true}
}

// StepReport is the verdict for one recorded step.
type StepReport struct {
	Index  int
	Key    string
	Action string
	Kind   types.StepKind

	RngMatch bool
	Mismatch compare.Mismatch
	// Draws counts primitive draws on each side.
	ActualDraws, ExpectedDraws int

	ScreenCompared bool
	ScreenMatch    bool
	ScreenDiff     compare.ScreenDiff

	GridCompared bool
	GridDiff     compare.GridDiff
}

// Match reports whether everything compared for the step agreed.
func (s StepReport) Match() bool {
	if !s.RngMatch {
		return false
	}
	if s.ScreenCompared && !s.ScreenMatch {
		return false
	}
	return !s.GridCompared || s.GridDiff.Count == 0
}

// Report aggregates a whole run.
type Report struct {
	Source string
	Seed   int64
	Role   string

	Startup *StepReport
	Steps   []StepReport
	Matched int

	Keys      types.KeyStats
	Conserved bool
	Cancelled bool
	Deferrals int
}

// Percent is the share of matching steps, 100 for an empty session.
func (r *Report) Percent() float64 {
	if len(r.Steps) == 0 {
		return 100
	}
	return 100 * float64(r.Matched) / float64(len(r.Steps))
}

// FirstDivergence returns the index of the first step that did not match,
// or -1.
func (r *Report) FirstDivergence() int {
	for _, s := range r.Steps {
		if !s.Match() {
			return s.Index
		}
	}
	return -1
}

// AllMatch reports whether the startup step and every recorded step matched.
func (r *Report) AllMatch() bool {
	if r.Startup != nil && !r.Startup.Match() {
		return false
	}
	return r.Matched == len(r.Steps)
}

// Build compares each reconstructed step with its recording.
func Build(s *types.Session, res *replay.Result, opts Options) (*Report, error) {
	if len(res.Steps) > len(s.Steps) {
		return nil, fmt.Errorf("result has %d steps, session only %d", len(res.Steps), len(s.Steps))
	}
	r := &Report{
		Source:    s.Source,
		Seed:      s.Seed,
		Role:      s.Character.Role,
		Keys:      res.Keys,
		Conserved: res.Conserved(),
		Cancelled: res.Cancelled,
		Deferrals: res.Deferrals,
	}

	if s.Startup != nil {
		sr, err := buildStep(-1, *s.Startup, res.Startup, opts)
		if err != nil {
			return nil, err
		}
		r.Startup = &sr
	}
	for i, out := range res.Steps {
		sr, err := buildStep(i, s.Steps[i], out, opts)
		if err != nil {
			return nil, err
		}
		if sr.Match() {
			r.Matched++
		}
		r.Steps = append(r.Steps, sr)
	}
	return r, nil
}

func buildStep(i int, want types.SessionStep, got types.ReplayStepResult, opts Options) (StepReport, error) {
	sr := StepReport{
		Index:         i,
		Key:           want.Key,
		Action:        want.Action,
		Kind:          got.Kind,
		Mismatch:      compare.CompareRng(got.Rng, want.Rng),
		ActualDraws:   len(compare.Primitives(got.Rng)),
		ExpectedDraws: len(compare.Primitives(want.Rng)),
	}
	sr.RngMatch = sr.Mismatch.Match()

	if opts.CompareScreens && want.Screen != nil && got.Screen != nil {
		sr.ScreenCompared = true
		sr.ScreenDiff = compare.CompareScreens(got.Screen, want.Screen)
		sr.ScreenMatch = sr.ScreenDiff.Match()
	}
	if want.Grid != nil {
		d, err := compare.CompareGrids(got.Grid, want.Grid, opts.GridPreview)
		if err != nil {
			return sr, fmt.Errorf("step %d: %w", i, err)
		}
		sr.GridCompared = true
		sr.GridDiff = d
	}
	return sr, nil
}
