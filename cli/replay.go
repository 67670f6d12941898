package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nathoo/replaycore/config"
	"github.com/nathoo/replaycore/engine"
	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/loader"
	"github.com/nathoo/replaycore/replay"
	"github.com/nathoo/replaycore/report"
	"github.com/nathoo/replaycore/session"
)

// Exit codes of the replay command.
const (
	ExitMatch      = 0
	ExitDivergence = 1
	ExitMalformed  = 2
)

// ReplayJob is one replay run from the command line.
type ReplayJob struct {
	SessionPath string
	Config      config.Config
	Trace       bool
	Color       bool
	Out         io.Writer
	Logger      *log.Logger
}

// HarnessOptions builds harness options from the configuration, loading
// the Lua level fixture when one is set.
func HarnessOptions(cfg config.Config, logger *log.Logger) (engine.Options, error) {
	opts := engine.Options{TraceComposites: cfg.TraceComposites}
	if cfg.LevelFixture == "" {
		return opts, nil
	}
	f, err := loader.Load(cfg.LevelFixture)
	if err != nil {
		return opts, fmt.Errorf("level fixture: %w", err)
	}
	for _, w := range f.Warnings {
		logger.Warn("level fixture", "path", cfg.LevelFixture, "warning", w)
	}
	opts.Generator = f
	return opts, nil
}

// RunReplay replays the session, prints the report and stores it where
// configured.
func RunReplay(ctx context.Context, job ReplayJob) (*report.Report, error) {
	logger := job.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := job.Config

	s, err := session.Load(job.SessionPath)
	if err != nil {
		return nil, err
	}
	hopts, err := HarnessOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	res, err := replay.Run(ctx, s, replay.Options{
		Harness:         hopts,
		ReconcileStatus: cfg.ReconcileStatus,
		DeferMore:       cfg.DeferMore,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	if job.Trace {
		for i, st := range res.Steps {
			fmt.Fprintf(job.Out, "[trace] step %d (%s, key %q)\n", i, st.Kind, s.Steps[i].Key)
			for _, line := range rng.FormatTrace(st.Rng) {
				fmt.Fprintf(job.Out, "[trace]   %s\n", line)
			}
		}
	}

	if cfg.ResultsOut != "" {
		if err := writeResults(cfg.ResultsOut, res); err != nil {
			return nil, fmt.Errorf("writing results: %w", err)
		}
	}

	r, err := report.Build(s, res, report.Options{
		GridPreview:    cfg.GridPreviewLimit,
		CompareScreens: cfg.CompareScreens,
	})
	if err != nil {
		return nil, err
	}
	if err := report.Format(job.Out, r, report.FormatOptions{Color: job.Color, Detail: true}); err != nil {
		return r, err
	}

	if cfg.ReportDB != "" {
		store, err := report.OpenStore(cfg.ReportDB)
		if err != nil {
			return r, err
		}
		defer store.Close()
		id, err := store.SaveRun(ctx, r, time.Now())
		if err != nil {
			return r, fmt.Errorf("storing run: %w", err)
		}
		logger.Info("run stored", "db", cfg.ReportDB, "id", id)
	}
	return r, nil
}

func writeResults(path string, res *replay.Result) error {
	w, err := report.NewResultWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(-1, res.Startup); err != nil {
		_ = w.Close()
		return err
	}
	for i, st := range res.Steps {
		if err := w.Write(i, st); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}

// ExitCode maps a replay outcome to the process exit status. Any error is
// structural: divergences are reported, never returned.
func ExitCode(r *report.Report, err error) int {
	switch {
	case err != nil:
		return ExitMalformed
	case r == nil || !r.AllMatch():
		return ExitDivergence
	default:
		return ExitMatch
	}
}
