package laads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"ladsync/internal/services"
)

func newTestClient(t *testing.T, server *httptest.Server, budget int) *Client {
	t.Helper()
	client, err := New(Config{
		BaseURL:     server.URL,
		Token:       "test-token",
		RetryBudget: budget,
		RetryDelay:  0,
		HTTPClient:  server.Client(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Config{BaseURL: "https://example.com"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing token, got %v", err)
	}
}

func TestListDaySendsBearerToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[{"name":"VJ104ANC.A2024005.002.h5","size":12}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	entries, err := client.ListDay(context.Background(), "/archive/allData/3194/VJ104ANC/2024/005/")
	if err != nil {
		t.Fatalf("ListDay: %v", err)
	}
	if auth != "Bearer test-token" {
		t.Fatalf("unexpected Authorization header: %q", auth)
	}
	if len(entries) != 1 || entries[0].Name != "VJ104ANC.A2024005.002.h5" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestListDayNotFound(t *testing.T) {
	hits := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(t, server, 5)
	_, err := client.ListDay(context.Background(), "/archive/allData/5000/VNP04ANC/2024/005/")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found classification, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("404 must not be retried, saw %d requests", got)
	}
}

func TestListDayRetriesServerErrors(t *testing.T) {
	hits := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "upstream sad", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server, 2)
	_, err := client.ListDay(context.Background(), "/archive/allData/5000/VNP04ANC/2024/005/")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient classification, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected 3 attempts with budget 2, saw %d", got)
	}
}

func TestListDayAuthFailureIsImmediate(t *testing.T) {
	hits := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server, 5)
	_, err := client.ListDay(context.Background(), "/archive/allData/5000/VNP04ANC/2024/005/")
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth classification, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("auth failure must not be retried, saw %d requests", got)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hdf5 payload")
	}))
	defer server.Close()

	dir := t.TempDir()
	client := newTestClient(t, server, 0)
	path, err := client.Download(context.Background(), "/archive/allData/3194/VJ104ANC/2024/005/", "VJ104ANC.A2024005.002.h5", dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "VJ104ANC.A2024005.002.h5" {
		t.Fatalf("unexpected destination: %s", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hdf5 payload" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestDownloadCleansUpOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone away", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dir := t.TempDir()
	client := newTestClient(t, server, 1)
	_, err := client.Download(context.Background(), "/archive/allData/3194/VJ104ANC/2024/005/", "VJ104ANC.A2024005.002.h5", dir)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient classification, got %v", err)
	}
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no partial files, found %d", len(entries))
	}
}
