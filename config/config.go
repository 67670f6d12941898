// Package config loads replay settings. Later layers override earlier ones:
// built-in defaults, then an optional YAML file, then REPLAYCORE_*
// environment variables. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "replaycore.yaml"

// Config holds every tunable of a replay run.
type Config struct {
	GridPreviewLimit int    `yaml:"grid_preview_limit" env:"GRID_PREVIEW_LIMIT"`
	CompareScreens   bool   `yaml:"compare_screens" env:"COMPARE_SCREENS"`
	ReconcileStatus  bool   `yaml:"reconcile_status" env:"RECONCILE_STATUS"`
	DeferMore        bool   `yaml:"defer_more" env:"DEFER_MORE"`
	TraceComposites  bool   `yaml:"trace_composites" env:"TRACE_COMPOSITES"`
	LogLevel         string `yaml:"log_level" env:"LOG_LEVEL"`
	ReportDB         string `yaml:"report_db" env:"REPORT_DB"`
	ResultsOut       string `yaml:"results_out" env:"RESULTS_OUT"`
	LevelFixture     string `yaml:"level_fixture" env:"LEVEL_FIXTURE"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		GridPreviewLimit: 10,
		CompareScreens:   true,
		ReconcileStatus:  true,
		DeferMore:        true,
		LogLevel:         "info",
	}
}

// Load layers the file at path and the environment over the defaults. An
// empty path tries DefaultFile and skips it when absent; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ParseEnv overlays REPLAYCORE_* variables onto target.
func ParseEnv(target *Config) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: "REPLAYCORE_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	if c.GridPreviewLimit < 0 {
		return fmt.Errorf("grid_preview_limit must be >= 0, got %d", c.GridPreviewLimit)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
