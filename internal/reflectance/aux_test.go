package reflectance

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"ladsync/internal/archive"
	"ladsync/internal/dates"
	"ladsync/internal/resolver"
	"ladsync/internal/services"
)

func newSelector(t *testing.T) (*Selector, string) {
	t.Helper()
	root := t.TempDir()
	cutover := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	return NewSelector(resolver.New(cutover), archive.NewLayout(root)), root
}

func addArchived(t *testing.T, root string, year int, name string) {
	t.Helper()
	dir := filepath.Join(root, "LADS", strconv.Itoa(year))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte("aux"), 0o644); err != nil {
		t.Fatalf("write archived file: %v", err)
	}
}

func TestAuxFilenameLegacy(t *testing.T) {
	selector, _ := newSelector(t)

	name, family, err := selector.AuxFilename(dates.New(2018, time.August, 16))
	if err != nil {
		t.Fatalf("AuxFilename failed: %v", err)
	}
	if family != resolver.Legacy {
		t.Fatalf("expected legacy family, got %q", family)
	}
	if name != "L8ANC2018228.hdf_fused" {
		t.Fatalf("unexpected legacy filename: %q", name)
	}
}

func TestAuxFilenamePrefersNewestPlatform(t *testing.T) {
	selector, root := newSelector(t)
	addArchived(t, root, 2024, "VNP04ANC.A2024005.002.2024007.h5")
	addArchived(t, root, 2024, "VJ104ANC.A2024005.002.2024007.h5")

	name, family, err := selector.AuxFilename(dates.New(2024, time.January, 5))
	if err != nil {
		t.Fatalf("AuxFilename failed: %v", err)
	}
	if family != resolver.CurrentGen {
		t.Fatalf("expected current-gen family, got %q", family)
	}
	if name != "VJ104ANC.A2024005.002.2024007.h5" {
		t.Fatalf("expected JPSS1 file preferred, got %q", name)
	}
}

func TestAuxFilenameFallsBackToOlderPlatform(t *testing.T) {
	selector, root := newSelector(t)
	addArchived(t, root, 2024, "VNP04ANC.A2024005.002.2024007.h5")

	name, _, err := selector.AuxFilename(dates.New(2024, time.January, 5))
	if err != nil {
		t.Fatalf("AuxFilename failed: %v", err)
	}
	if name != "VNP04ANC.A2024005.002.2024007.h5" {
		t.Fatalf("expected NPP fallback, got %q", name)
	}
}

func TestAuxFilenameMissingIsNotFound(t *testing.T) {
	selector, _ := newSelector(t)

	_, _, err := selector.AuxFilename(dates.New(2024, time.January, 5))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found for empty archive, got %v", err)
	}
}
