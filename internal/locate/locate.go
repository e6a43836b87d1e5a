// Package locate finds candidate run files on disk.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnvSearchDir overrides the default search directory.
const EnvSearchDir = "RUNCOV_DIR"

// RunFileSuffix is the extension search directories are filtered by.
// Explicitly listed files are never filtered.
const RunFileSuffix = ".runcov"

var ErrNoInputFiles = errors.New("locate: no input files")

// DefaultSearchDirs returns the search path used when the caller supplies
// none: the RUNCOV_DIR directory if set, else the working directory.
func DefaultSearchDirs() []string {
	if dir := strings.TrimSpace(os.Getenv(EnvSearchDir)); dir != "" {
		return []string{dir}
	}
	return []string{"."}
}

// List resolves explicit run-file paths plus the run files found directly
// inside each search directory (non-recursive), deduplicated, search
// results sorted. An empty overall result is ErrNoInputFiles.
func List(explicit, searchDirs []string) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(explicit))
	for _, p := range explicit {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	for _, dir := range searchDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("locate: read search dir %s: %w", dir, err)
		}
		found := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), RunFileSuffix) {
				continue
			}
			found = append(found, filepath.Join(dir, e.Name()))
		}
		sort.Strings(found)
		for _, p := range found {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrNoInputFiles
	}
	return out, nil
}
