// Package runfile loads the per-source-file entries recorded in one
// coverage run file.
package runfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/runcov/runcov/internal/wire"
)

// Entry is one source file's visitation data within a single run.
type Entry struct {
	// Path is the source file identity, normalized to be relative to the
	// working directory when possible.
	Path string
	// Counters holds one visit count per instrumentation point.
	Counters []int64
	// Points is the opaque per-point metadata blob. It is carried through
	// untouched; its encoding is owned by the instrumentation runtime.
	Points []byte
}

// decoder is the composed wire shape of a run file payload:
// an array of (source path, (counter vector, points blob)).
var decoder = wire.Array(wire.PairOf(wire.String, wire.PairOf(wire.Array(wire.Int), wire.Bytes)))

// Load decodes one run file into its entries. Malformed or truncated data
// surfaces as *wire.DecodeError; a file that cannot be opened surfaces as
// a plain IO error.
func Load(path string) ([]Entry, error) {
	raw, err := wire.Read(path, decoder)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		entries = append(entries, Entry{
			Path:     NormalizePath(item.First),
			Counters: item.Second.First,
			Points:   item.Second.Second,
		})
	}
	return entries, nil
}

// NormalizePath rewrites an absolute path rooted at the working directory
// to its project-relative form. Anything else is left as-is. Purely
// cosmetic; never fails.
func NormalizePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	prefix := cwd + string(filepath.Separator)
	if strings.HasPrefix(path, prefix) {
		return path[len(prefix):]
	}
	return path
}

// Write encodes entries to w in run-file format, magic preamble included.
// It is the inverse of Load and exists for fixture generation and tests.
func Write(w io.Writer, entries []Entry) error {
	enc := wire.NewWriter(w)
	if err := enc.Magic(); err != nil {
		return err
	}
	if err := enc.Int(int64(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := enc.String(e.Path); err != nil {
			return err
		}
		if err := enc.Int(int64(len(e.Counters))); err != nil {
			return err
		}
		for _, n := range e.Counters {
			if err := enc.Int(n); err != nil {
				return err
			}
		}
		if err := enc.Bytes(e.Points); err != nil {
			return err
		}
	}
	return enc.Flush()
}

// WriteFile writes entries to path as one complete run file.
func WriteFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
