package fetcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ladsync/internal/laads"
	"ladsync/internal/logging"
	"ladsync/internal/resolver"
	"ladsync/internal/services"
)

// fakeRemote scripts per-platform listing and download behavior.
type fakeRemote struct {
	listings  map[string][]laads.Entry
	listErrs  map[string]error
	dlErrs    map[string]error
	downloads []string
}

func (f *fakeRemote) ListDay(_ context.Context, remotePath string) ([]laads.Entry, error) {
	if err, ok := f.listErrs[remotePath]; ok {
		return nil, err
	}
	entries, ok := f.listings[remotePath]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "laads", "list day directory", remotePath, nil)
	}
	return entries, nil
}

func (f *fakeRemote) Download(_ context.Context, remotePath, name, destDir string) (string, error) {
	if err, ok := f.dlErrs[remotePath]; ok {
		return "", err
	}
	f.downloads = append(f.downloads, remotePath+name)
	dest := filepath.Join(destDir, name)
	if err := os.WriteFile(dest, []byte("payload"), 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

func TestFetchDayPrefersPriorityCandidate(t *testing.T) {
	cands := testCandidates(t)
	remote := &fakeRemote{
		listings: map[string][]laads.Entry{
			cands[0].RemotePath(2024, 5): {{Name: "VJ104ANC.A2024005.002.h5", Size: 10}},
			cands[1].RemotePath(2024, 5): {{Name: "VNP04ANC.A2024005.002.h5", Size: 10}},
		},
	}
	f := New(remote, t.TempDir(), logging.NewNop())

	result, err := f.FetchDay(context.Background(), 2024, 5, cands)
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if result.Outcome != Found {
		t.Fatalf("outcome = %s", result.Outcome)
	}
	if result.Candidate.Platform != "JPSS1" {
		t.Fatalf("expected priority platform, got %s", result.Candidate.Platform)
	}
	if len(remote.downloads) != 1 {
		t.Fatalf("expected a single download, got %d", len(remote.downloads))
	}
}

func TestFetchDayFallsBackOnNotFound(t *testing.T) {
	cands := testCandidates(t)
	remote := &fakeRemote{
		listings: map[string][]laads.Entry{
			cands[1].RemotePath(2024, 5): {{Name: "VNP04ANC.A2024005.002.h5", Size: 10}},
		},
	}
	f := New(remote, t.TempDir(), logging.NewNop())

	result, err := f.FetchDay(context.Background(), 2024, 5, cands)
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if result.Outcome != Found || result.Candidate.Platform != "NPP" {
		t.Fatalf("expected NPP fallback, got %s via %s", result.Outcome, result.Candidate.Platform)
	}
}

func TestFetchDayAllMissing(t *testing.T) {
	cands := testCandidates(t)
	remote := &fakeRemote{}
	f := New(remote, t.TempDir(), logging.NewNop())

	result, err := f.FetchDay(context.Background(), 2024, 5, cands)
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if result.Outcome != NotFound {
		t.Fatalf("outcome = %s, want %s", result.Outcome, NotFound)
	}
}

func TestFetchDayTransientCandidateThenMiss(t *testing.T) {
	cands := testCandidates(t)
	remote := &fakeRemote{
		listErrs: map[string]error{
			cands[0].RemotePath(2024, 5): services.Wrap(services.ErrTransient, "laads", "list", "", nil),
		},
	}
	f := New(remote, t.TempDir(), logging.NewNop())

	result, err := f.FetchDay(context.Background(), 2024, 5, cands)
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if result.Outcome != Transient {
		t.Fatalf("outcome = %s, want %s", result.Outcome, Transient)
	}
}

func TestFetchDayAuthErrorIsFatal(t *testing.T) {
	cands := testCandidates(t)
	remote := &fakeRemote{
		listErrs: map[string]error{
			cands[0].RemotePath(2024, 5): services.Wrap(services.ErrAuth, "laads", "list", "", nil),
		},
	}
	f := New(remote, t.TempDir(), logging.NewNop())

	_, err := f.FetchDay(context.Background(), 2024, 5, cands)
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth failure to propagate, got %v", err)
	}
}

func TestFetchDayMultipleRemoteMatchesIsFatal(t *testing.T) {
	cands := testCandidates(t)
	remote := &fakeRemote{
		listings: map[string][]laads.Entry{
			cands[0].RemotePath(2024, 5): {
				{Name: "VJ104ANC.A2024005.001.h5", Size: 10},
				{Name: "VJ104ANC.A2024005.002.h5", Size: 10},
			},
		},
	}
	f := New(remote, t.TempDir(), logging.NewNop())

	_, err := f.FetchDay(context.Background(), 2024, 5, cands)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation failure for ambiguous listing, got %v", err)
	}
}

func TestFetchDayCleansStagingFirst(t *testing.T) {
	cands := testCandidates(t)
	remote := &fakeRemote{
		listings: map[string][]laads.Entry{
			cands[0].RemotePath(2024, 5): {{Name: "VJ104ANC.A2024005.002.h5", Size: 10}},
		},
	}
	staging := t.TempDir()
	f := New(remote, staging, logging.NewNop())

	yearDir := f.StagingDir(2024)
	if err := os.MkdirAll(yearDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(yearDir, "VJ104ANC.A2024004.002.h5")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := f.FetchDay(context.Background(), 2024, 5, cands); err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("expected stale staged file to be removed")
	}
}

func testCandidates(t *testing.T) []resolver.Candidate {
	t.Helper()
	return resolver.Platforms()
}
