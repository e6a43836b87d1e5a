package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/runcov/runcov/internal/aggregate"
	"github.com/runcov/runcov/internal/config"
	"github.com/runcov/runcov/internal/counts"
	"github.com/runcov/runcov/internal/expected"
	"github.com/runcov/runcov/internal/locate"
	"github.com/runcov/runcov/internal/logging"
	"github.com/runcov/runcov/internal/runfile"
)

func main() {
	logging.ConfigureRuntime()
	cfg, fixturePath, err := resolveConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "runcov: %v\n", err)
		os.Exit(2)
	}
	logging.SetLevel(cfg.LogLevel)

	if fixturePath != "" {
		if err := writeFixture(fixturePath); err != nil {
			fmt.Fprintf(os.Stderr, "runcov: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "runcov: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	searchDirs := cfg.SearchDirs
	if len(cfg.Runs) == 0 && len(searchDirs) == 0 {
		searchDirs = locate.DefaultSearchDirs()
	}
	paths, err := locate.List(cfg.Runs, searchDirs)
	if err != nil {
		if errors.Is(err, locate.ErrNoInputFiles) {
			return fmt.Errorf("no run files to process")
		}
		return err
	}
	log.Info().Int("run_files", len(paths)).Msg("aggregating coverage")

	res, err := aggregate.Run(paths, aggregate.Options{Workers: cfg.Workers})
	if err != nil {
		return err
	}

	if len(cfg.Expected) > 0 {
		present := make(map[string]struct{}, len(res.Counters))
		for p := range res.Counters {
			present[p] = struct{}{}
		}
		if err := expected.Validate(present, cfg.Expected, cfg.Excluded, cfg.Extensions); err != nil {
			var me *expected.MissingError
			if errors.As(err, &me) {
				for _, p := range me.Paths {
					log.Error().Str("file", p).Msg("expected file not included in report")
				}
			}
			return err
		}
	}

	summarize(res)
	return nil
}

// summarize is the hand-off boundary to report rendering: per-file visit
// statistics over the merged counters.
func summarize(res *aggregate.Result) {
	files := make([]string, 0, len(res.Counters))
	for p := range res.Counters {
		files = append(files, p)
	}
	sort.Strings(files)

	var overall counts.Counts
	for _, p := range files {
		c := counts.FromVector(res.Counters[p])
		overall = counts.Add(overall, c)
		log.Info().
			Str("file", p).
			Int64("visited", c.Visited).
			Int64("points", c.Total).
			Msg("coverage")
	}
	log.Info().
		Int("files", len(files)).
		Int64("visited", overall.Visited).
		Int64("points", overall.Total).
		Msg("aggregate coverage")
}

// writeFixture emits a small synthetic run file, mostly useful for
// smoke-testing downstream tooling against the wire format.
func writeFixture(path string) error {
	entries := []runfile.Entry{
		{Path: "src/alpha.ml", Counters: []int64{1, 0, 4}, Points: []byte("p0")},
		{Path: "src/beta.ml", Counters: []int64{2}, Points: []byte("p1")},
		{Path: "src/gamma.ml", Counters: []int64{}, Points: []byte{}},
	}
	if err := runfile.WriteFile(path, entries); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	log.Info().Str("path", path).Int("entries", len(entries)).Msg("fixture written")
	return nil
}
