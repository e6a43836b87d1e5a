// Package config loads the runcov tool configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/runcov/runcov/internal/expected"
)

// Config is the resolved tool configuration for one invocation.
type Config struct {
	// Runs lists explicit run-file paths. Used verbatim.
	Runs []string
	// SearchDirs lists directories scanned (non-recursively) for run files.
	SearchDirs []string
	// Expected and Excluded are source roots (files or directories) for the
	// completeness check.
	Expected []string
	Excluded []string
	// Extensions is the recognized-source extension set for directory roots.
	Extensions []string
	// Workers bounds concurrent run-file decoding; 1 means sequential.
	Workers int
	// LogLevel is the zerolog level name.
	LogLevel string
}

// Default returns the configuration used when no file and no flags are
// supplied.
func Default() Config {
	return Config{
		Extensions: expected.DefaultExtensions,
		Workers:    1,
		LogLevel:   "info",
	}
}

type fileConfig struct {
	Runs       []string `toml:"runs"`
	SearchDirs []string `toml:"search_dirs"`
	Expected   []string `toml:"expected"`
	Excluded   []string `toml:"excluded"`
	Extensions []string `toml:"extensions"`
	Workers    int      `toml:"workers"`
	LogLevel   string   `toml:"log_level"`
}

// Load reads a TOML config file over the defaults. Only keys present in
// the file override.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("runs") {
		cfg.Runs = raw.Runs
	}
	if meta.IsDefined("search_dirs") {
		cfg.SearchDirs = raw.SearchDirs
	}
	if meta.IsDefined("expected") {
		cfg.Expected = raw.Expected
	}
	if meta.IsDefined("excluded") {
		cfg.Excluded = raw.Excluded
	}
	if meta.IsDefined("extensions") {
		cfg.Extensions = normalizeExtensions(raw.Extensions)
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// Validate rejects configurations no invocation could use.
func Validate(cfg Config) error {
	if cfg.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", cfg.Workers)
	}
	if len(cfg.Extensions) == 0 {
		return fmt.Errorf("config: extensions must not be empty")
	}
	for _, e := range cfg.Extensions {
		if !strings.HasPrefix(e, ".") {
			return fmt.Errorf("config: extension %q missing leading dot", e)
		}
	}
	return nil
}
