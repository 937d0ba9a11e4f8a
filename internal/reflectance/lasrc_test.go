package reflectance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"ladsync/internal/services"
)

func writeSceneXML(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "S2A_MSI_L1C_T10TFR_20240105_20240106.xml")
	if err := os.WriteFile(path, []byte("<scene/>"), 0o644); err != nil {
		t.Fatalf("write scene xml: %v", err)
	}
	return path
}

func TestProcessValidatesInputs(t *testing.T) {
	proc := NewProcessor()

	if err := proc.Process(context.Background(), "", "aux.h5"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty xml path, got %v", err)
	}
	if err := proc.Process(context.Background(), "scene.xml", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty aux name, got %v", err)
	}
	if err := proc.Process(context.Background(), "/nope/scene.xml", "aux.h5"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing xml, got %v", err)
	}
}

func TestProcessSuccess(t *testing.T) {
	setProcessorCommand(t, "success")
	proc := NewProcessor()

	xml := writeSceneXML(t)
	if err := proc.Process(context.Background(), xml, "VJ104ANC.A2024005.002.h5"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
}

func TestProcessFailureIsExternalToolError(t *testing.T) {
	setProcessorCommand(t, "failure")
	proc := NewProcessor()

	xml := writeSceneXML(t)
	err := proc.Process(context.Background(), xml, "VJ104ANC.A2024005.002.h5")
	if err == nil {
		t.Fatal("expected failure for nonzero exit status")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool classification, got %v", err)
	}
}

func setProcessorCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("LASRC_HELPER_MODE=%s", mode))
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
	switch os.Getenv("LASRC_HELPER_MODE") {
	case "success":
		fmt.Println("surface reflectance complete")
		os.Exit(0)
	case "failure":
		fmt.Println("auxiliary file unreadable")
		os.Exit(1)
	}
	os.Exit(0)
}
