package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/runcov/runcov/internal/config"
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (f *listFlag) String() string { return strings.Join(*f, ",") }

func (f *listFlag) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return fmt.Errorf("empty value")
	}
	*f = append(*f, v)
	return nil
}

// resolveConfig layers flags over the optional TOML file over defaults.
// It also returns the fixture output path when fixture mode is requested.
func resolveConfig(args []string) (config.Config, string, error) {
	fs := flag.NewFlagSet("runcov", flag.ContinueOnError)

	var (
		configPath = fs.String("config", "", "path to a runcov TOML config file")
		runs       listFlag
		searchDirs listFlag
		expectArgs listFlag
		exclude    listFlag
		workers    = fs.Int("workers", 0, "concurrent run-file decoders (0 keeps the configured value)")
		logLevel   = fs.String("log-level", "", "log level override")
		fixture    = fs.String("fixture", "", "write a synthetic run file to this path and exit")
	)
	fs.Var(&runs, "run", "run file to aggregate (repeatable)")
	fs.Var(&searchDirs, "search", "directory to scan for run files (repeatable)")
	fs.Var(&expectArgs, "expect", "source file or directory required to be covered (repeatable)")
	fs.Var(&exclude, "exclude", "source file or directory exempt from the coverage requirement (repeatable)")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, "", err
	}
	if fs.NArg() != 0 {
		return config.Config{}, "", fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, "", err
		}
		cfg = loaded
	}

	if len(runs) > 0 {
		cfg.Runs = append(cfg.Runs, runs...)
	}
	if len(searchDirs) > 0 {
		cfg.SearchDirs = append(cfg.SearchDirs, searchDirs...)
	}
	if len(expectArgs) > 0 {
		cfg.Expected = append(cfg.Expected, expectArgs...)
	}
	if len(exclude) > 0 {
		cfg.Excluded = append(cfg.Excluded, exclude...)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if lvl := strings.TrimSpace(*logLevel); lvl != "" {
		cfg.LogLevel = lvl
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, "", err
	}
	return cfg, strings.TrimSpace(*fixture), nil
}
