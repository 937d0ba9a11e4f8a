package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := CheckDirectoryAccess("Staging directory", dir)
	if !result.Passed {
		t.Fatalf("expected writable temp dir to pass, got %+v", result)
	}

	missing := CheckDirectoryAccess("Staging directory", filepath.Join(dir, "nope"))
	if missing.Passed {
		t.Fatal("expected missing directory to fail")
	}
	if !strings.Contains(missing.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %q", missing.Detail)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	notDir := CheckDirectoryAccess("Staging directory", file)
	if notDir.Passed {
		t.Fatal("expected regular file to fail directory check")
	}

	blank := CheckDirectoryAccess("Auxiliary archive", "  ")
	if blank.Passed || blank.Detail != "not configured" {
		t.Fatalf("expected unconfigured result, got %+v", blank)
	}
}

func TestCheckLAADS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx := context.Background()

	ok := CheckLAADS(ctx, server.URL, "good-token", "ladsync-test")
	if !ok.Passed {
		t.Fatalf("expected valid token to pass, got %+v", ok)
	}

	badToken := CheckLAADS(ctx, server.URL, "bad-token", "")
	if badToken.Passed {
		t.Fatal("expected invalid token to fail")
	}
	if !strings.Contains(badToken.Detail, "auth failed") {
		t.Fatalf("unexpected detail: %q", badToken.Detail)
	}

	noToken := CheckLAADS(ctx, server.URL, "", "")
	if noToken.Passed || !strings.Contains(noToken.Detail, "missing token") {
		t.Fatalf("expected missing token failure, got %+v", noToken)
	}

	noURL := CheckLAADS(ctx, "", "good-token", "")
	if noURL.Passed || noURL.Detail != "missing base url" {
		t.Fatalf("expected missing url failure, got %+v", noURL)
	}
}

func TestPassed(t *testing.T) {
	if !Passed([]Result{{Passed: true}, {Passed: true}}) {
		t.Fatal("expected all-passing results to report true")
	}
	if Passed([]Result{{Passed: true}, {Passed: false}}) {
		t.Fatal("expected one failure to report false")
	}
	if !Passed(nil) {
		t.Fatal("expected empty results to report true")
	}
}
