// Package archive models the canonical on-disk auxiliary archive:
// <root>/LADS/<year>/<product>.A<year><doy>.*.h5.
//
// File existence under that naming pattern is the sole source of truth for
// "already processed" — no manifest or database is consulted. The Index
// capability keeps that check swappable so scheduling logic can be tested
// without a real filesystem.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"ladsync/internal/fileutil"
	"ladsync/internal/resolver"
	"ladsync/internal/services"
)

// Index answers whether the archive already holds a platform's product for a
// given day.
type Index interface {
	Exists(year, doy int, candidate resolver.Candidate) (bool, error)
}

// Layout resolves paths inside an archive root and places processed files.
type Layout struct {
	root string
}

// NewLayout wraps an archive root directory.
func NewLayout(root string) *Layout {
	return &Layout{root: root}
}

// YearDir returns the directory holding one year of products.
func (l *Layout) YearDir(year int) string {
	return filepath.Join(l.root, "LADS", fmt.Sprintf("%d", year))
}

// Exists reports whether a file matching the candidate's daily pattern is
// present for (year, doy).
func (l *Layout) Exists(year, doy int, candidate resolver.Candidate) (bool, error) {
	matches, err := l.Glob(year, candidate.FilePattern(year, doy))
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

// Glob matches pattern against the year directory, returning sorted paths.
// A missing year directory is an empty result, not an error.
func (l *Layout) Glob(year int, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.YearDir(year), pattern))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "glob",
			fmt.Sprintf("bad pattern %q", pattern), err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Place moves a processed file into the year directory, creating it as
// needed. The move is cross-device safe.
func (l *Layout) Place(src string, year int) (string, error) {
	dir := l.YearDir(year)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "archive", "place",
			fmt.Sprintf("create %s", dir), err)
	}
	target := filepath.Join(dir, filepath.Base(src))
	if err := fileutil.MoveFile(src, target); err != nil {
		return "", services.Wrap(services.ErrTransient, "archive", "place",
			fmt.Sprintf("move %s into %s", filepath.Base(src), dir), err)
	}
	return target, nil
}

var _ Index = (*Layout)(nil)

// MemoryIndex is an Index backed by a set, for tests.
type MemoryIndex struct {
	entries map[string]struct{}
}

// NewMemoryIndex builds an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]struct{})}
}

// Add marks a (year, doy, product) as present.
func (m *MemoryIndex) Add(year, doy int, candidate resolver.Candidate) {
	m.entries[memoryKey(year, doy, candidate)] = struct{}{}
}

// Exists implements Index.
func (m *MemoryIndex) Exists(year, doy int, candidate resolver.Candidate) (bool, error) {
	_, ok := m.entries[memoryKey(year, doy, candidate)]
	return ok, nil
}

func memoryKey(year, doy int, candidate resolver.Candidate) string {
	return fmt.Sprintf("%s.A%d%03d", candidate.Product, year, doy)
}

var _ Index = (*MemoryIndex)(nil)
