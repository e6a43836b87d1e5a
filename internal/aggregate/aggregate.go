// Package aggregate folds the entries of many run files into one coverage
// dataset.
package aggregate

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/runcov/runcov/internal/counts"
	"github.com/runcov/runcov/internal/runfile"
)

// Options tunes one aggregation pass.
type Options struct {
	// Workers bounds concurrent run-file decoding. Values below 2 keep the
	// fold fully sequential.
	Workers int
}

// Result is the merged coverage dataset for one reporting invocation.
type Result struct {
	// Counters maps source file identity to its merged counter vector.
	Counters map[string][]int64
	// Points maps source file identity to its metadata blob. Blobs are not
	// merged; the last run file processed wins.
	Points map[string][]byte
}

// Run loads every run file in order and folds its entries into one Result.
// The first decode or IO failure aborts the whole pass with no partial
// result. Counter merging is order-independent; blob selection is not and
// follows input order.
func Run(paths []string, opts Options) (*Result, error) {
	loaded, err := loadAll(paths, opts.Workers)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Counters: make(map[string][]int64),
		Points:   make(map[string][]byte),
	}
	for i, entries := range loaded {
		for _, e := range entries {
			res.fold(e)
		}
		log.Debug().Str("run_file", paths[i]).Int("entries", len(entries)).Msg("run file folded")
	}
	return res, nil
}

func (r *Result) fold(e runfile.Entry) {
	if existing, ok := r.Counters[e.Path]; ok {
		r.Counters[e.Path] = counts.SumVectors(existing, e.Counters)
	} else {
		r.Counters[e.Path] = e.Counters
	}
	r.Points[e.Path] = e.Points
}

// loadAll decodes every run file, keeping results in input order so the
// serialized fold preserves blob last-write-wins semantics.
func loadAll(paths []string, workers int) ([][]runfile.Entry, error) {
	if workers < 2 || len(paths) < 2 {
		out := make([][]runfile.Entry, 0, len(paths))
		for _, p := range paths {
			entries, err := runfile.Load(p)
			if err != nil {
				return nil, err
			}
			out = append(out, entries)
		}
		return out, nil
	}

	if workers > len(paths) {
		workers = len(paths)
	}
	out := make([][]runfile.Entry, len(paths))
	errs := make([]error, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i], errs[i] = runfile.Load(paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
