// Package expected reconciles the source files present in an aggregate
// against the set the caller requires to be covered.
package expected

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions is the recognized-source extension set used when a
// directory root is expanded and no override is configured.
var DefaultExtensions = []string{".ml", ".mll", ".mly", ".re"}

// MissingError reports every expected source file absent from the
// aggregate, not just the first.
type MissingError struct {
	Paths []string
}

func (e *MissingError) Error() string {
	if len(e.Paths) == 1 {
		return fmt.Sprintf("expected file %q not included in report", e.Paths[0])
	}
	return fmt.Sprintf("%d expected files not included in report: %s",
		len(e.Paths), strings.Join(e.Paths, ", "))
}

// Expand resolves roots into a sorted, deduplicated file list. A root that
// names a file is used as-is, extension unchecked. A root that names a
// directory contributes every file beneath it with a recognized extension.
func Expand(roots []string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	seen := make(map[string]struct{})
	out := make([]string, 0, len(roots))
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("expected: resolve root %s: %w", root, err)
		}
		if !info.IsDir() {
			if _, ok := seen[root]; !ok {
				seen[root] = struct{}{}
				out = append(out, root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !recognized(path, exts) {
				return nil
			}
			if _, ok := seen[path]; !ok {
				seen[path] = struct{}{}
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("expected: walk root %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

func recognized(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// StripExtensions returns the path's identity with every `.`-delimited
// suffix removed: directory plus base name up to the first dot.
func StripExtensions(path string) string {
	dir, base := filepath.Split(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return dir + base
}

// Validate checks that every file under expectedRoots, minus every file
// under excludedRoots, has a matching identity in present. Matching is
// extension-agnostic. All missing files are collected into one
// *MissingError before failing.
func Validate(present map[string]struct{}, expectedRoots, excludedRoots, exts []string) error {
	expanded, err := Expand(expectedRoots, exts)
	if err != nil {
		return err
	}
	excluded, err := Expand(excludedRoots, exts)
	if err != nil {
		return err
	}
	drop := make(map[string]struct{}, len(excluded))
	for _, p := range excluded {
		drop[p] = struct{}{}
	}

	covered := make(map[string]struct{}, len(present))
	for p := range present {
		covered[StripExtensions(p)] = struct{}{}
	}

	var missing []string
	for _, p := range expanded {
		if _, ok := drop[p]; ok {
			continue
		}
		if _, ok := covered[StripExtensions(p)]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) != 0 {
		return &MissingError{Paths: missing}
	}
	return nil
}
