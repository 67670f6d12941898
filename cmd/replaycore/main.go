// Replaycore verifies recorded game sessions against a headless,
// deterministic re-simulation.
//
// Usage:
//
//	replaycore replay [--config f] [--level f.lua] [--trace] [--db path] [--out path] [--plain] <session.json[.zst]>
//	replaycore play [--seed n] [--role r] [--name s] [--level f.lua] [--script file] [--trace]
//	replaycore view [--config f] [--level f.lua] <session.json[.zst]>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/nathoo/replaycore/cli"
	"github.com/nathoo/replaycore/config"
	"github.com/nathoo/replaycore/engine"
	"github.com/nathoo/replaycore/replay"
	"github.com/nathoo/replaycore/report"
	"github.com/nathoo/replaycore/session"
	"github.com/nathoo/replaycore/tui"
	"github.com/nathoo/replaycore/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `Usage:
  replaycore replay [--config f] [--level f.lua] [--trace] [--db path] [--out path] [--plain] <session>
  replaycore play [--seed n] [--role r] [--name s] [--level f.lua] [--script file] [--trace]
  replaycore view [--config f] [--level f.lua] <session>
  replaycore --version`

// flags holds everything any sub-command accepts.
type flags struct {
	configPath string
	level      string
	db         string
	out        string
	script     string
	trace      bool
	plain      bool
	seed       int64
	role       string
	name       string
	positional []string
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fail(usage)
	}
	if args[0] == "--version" {
		fmt.Printf("replaycore %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	f, err := parseFlags(args[1:])
	if err != nil {
		fail(err.Error())
	}

	switch args[0] {
	case "replay":
		os.Exit(runReplay(f))
	case "play":
		runPlay(f)
	case "view":
		runView(f)
	default:
		fail(usage)
	}
}

func parseFlags(args []string) (flags, error) {
	f := flags{seed: 42, role: "Valkyrie", name: "Agent"}
	value := func(i *int) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", args[*i])
		}
		*i++
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		var err error
		switch args[i] {
		case "--config":
			f.configPath, err = value(&i)
		case "--level":
			f.level, err = value(&i)
		case "--db":
			f.db, err = value(&i)
		case "--out":
			f.out, err = value(&i)
		case "--script":
			f.script, err = value(&i)
		case "--role":
			f.role, err = value(&i)
		case "--name":
			f.name, err = value(&i)
		case "--seed":
			var s string
			if s, err = value(&i); err == nil {
				f.seed, err = strconv.ParseInt(s, 10, 64)
			}
		case "--trace":
			f.trace = true
		case "--plain":
			f.plain = true
		default:
			f.positional = append(f.positional, args[i])
		}
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

// loadConfig layers the flags over the file and environment.
func loadConfig(f flags) (config.Config, *log.Logger) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		fail(fmt.Sprintf("Error loading config: %v", err))
	}
	if f.level != "" {
		cfg.LevelFixture = f.level
	}
	if f.db != "" {
		cfg.ReportDB = f.db
	}
	if f.out != "" {
		cfg.ResultsOut = f.out
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "replaycore"})
	if lvl, err := cfg.Level(); err == nil {
		logger.SetLevel(lvl)
	}
	return cfg, logger
}

func runReplay(f flags) int {
	if len(f.positional) != 1 {
		fail(usage)
	}
	cfg, logger := loadConfig(f)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := cli.RunReplay(ctx, cli.ReplayJob{
		SessionPath: f.positional[0],
		Config:      cfg,
		Trace:       f.trace,
		Color:       !f.plain && isTerminal(),
		Out:         os.Stdout,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("replay failed", "err", err)
	}
	return cli.ExitCode(r, err)
}

func runPlay(f flags) {
	cfg, logger := loadConfig(f)
	opts, err := cli.HarnessOptions(cfg, logger)
	if err != nil {
		fail(fmt.Sprintf("Error: %v", err))
	}

	h, err := engine.New(f.seed, types.Character{Name: f.name, Role: f.role}, opts)
	if err != nil {
		fail(fmt.Sprintf("Error starting game: %v", err))
	}

	c := cli.New(h, opts)
	c.Trace = f.trace
	if f.script != "" {
		file, err := os.Open(f.script)
		if err != nil {
			fail(fmt.Sprintf("Error opening script: %v", err))
		}
		defer file.Close()
		c.In = file
		c.EchoInput = true
	}
	c.Run()
}

func runView(f flags) {
	if len(f.positional) != 1 {
		fail(usage)
	}
	cfg, logger := loadConfig(f)

	s, err := session.Load(f.positional[0])
	if err != nil {
		fail(fmt.Sprintf("Error: %v", err))
	}
	opts, err := cli.HarnessOptions(cfg, logger)
	if err != nil {
		fail(fmt.Sprintf("Error: %v", err))
	}
	res, err := replay.Run(context.Background(), s, replay.Options{
		Harness:         opts,
		ReconcileStatus: cfg.ReconcileStatus,
		DeferMore:       cfg.DeferMore,
		Logger:          logger,
	})
	if err != nil {
		fail(fmt.Sprintf("Error: %v", err))
	}
	r, err := report.Build(s, res, report.Options{GridPreview: cfg.GridPreviewLimit, CompareScreens: cfg.CompareScreens})
	if err != nil {
		fail(fmt.Sprintf("Error: %v", err))
	}

	if err := tui.Run(s, res, r); err != nil {
		fail(fmt.Sprintf("Error: %v", err))
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(cli.ExitMalformed)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
