package gapfill

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"ladsync/internal/services"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/gapfill_viirs_aux"))
	if cli.binary != "/opt/gapfill_viirs_aux" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestFillRequiresInput(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Fill(context.Background(), ""); err == nil {
		t.Fatal("expected error when aux path is empty")
	}
}

func TestFillSuccessReturnsInputPath(t *testing.T) {
	setHelperCommand(t, "success")

	cli := NewCLI()
	out, err := cli.Fill(context.Background(), "/stage/VJ104ANC.A2024005.002.h5")
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if out != "/stage/VJ104ANC.A2024005.002.h5" {
		t.Fatalf("expected in-place output path, got %q", out)
	}
}

func TestFillFailureIsExternalToolError(t *testing.T) {
	setHelperCommand(t, "failure")

	cli := NewCLI()
	_, err := cli.Fill(context.Background(), "/stage/VNP04ANC.A2024005.002.h5")
	if err == nil {
		t.Fatal("expected failure for nonzero exit status")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool classification, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("gap-fill failure must stay recoverable at the day level")
	}
}

func setHelperCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("GAPFILL_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("GAPFILL_HELPER_MODE") {
	case "success":
		fmt.Println("gap-filling complete")
		os.Exit(0)
	case "failure":
		fmt.Println("missing interpolation source")
		os.Exit(1)
	}
	os.Exit(0)
}
