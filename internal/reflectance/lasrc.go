package reflectance

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"log/slog"

	"golang.org/x/sys/unix"

	"ladsync/internal/logging"
	"ladsync/internal/services"
)

var commandContext = exec.CommandContext

// ProcessorOption configures the Processor.
type ProcessorOption func(*Processor)

// WithBinary overrides the default executable name.
func WithBinary(binary string) ProcessorOption {
	return func(p *Processor) {
		if binary != "" {
			p.binary = binary
		}
	}
}

// WithLogger attaches a logger for algorithm output.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor wraps the lasrc command-line tool.
type Processor struct {
	binary string
	logger *slog.Logger
}

// NewProcessor constructs a Processor using defaults.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{binary: "lasrc", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the surface-reflectance algorithm on a scene. The algorithm
// writes its outputs next to the scene XML, so the scene directory must be
// writable and the command runs from there. auxFile is the base auxiliary
// filename, not a path.
func (p *Processor) Process(ctx context.Context, xmlPath, auxFile string) error {
	if strings.TrimSpace(xmlPath) == "" {
		return services.Wrap(services.ErrValidation, "reflectance", "process",
			"scene XML path required", nil)
	}
	if strings.TrimSpace(auxFile) == "" {
		return services.Wrap(services.ErrValidation, "reflectance", "process",
			"auxiliary filename required", nil)
	}

	absXML, err := filepath.Abs(xmlPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "reflectance", "process",
			fmt.Sprintf("resolve %s", xmlPath), err)
	}
	if _, err := os.Stat(absXML); err != nil {
		return services.Wrap(services.ErrValidation, "reflectance", "process",
			fmt.Sprintf("scene XML not accessible: %s", absXML), err)
	}
	sceneDir := filepath.Dir(absXML)
	if err := unix.Access(sceneDir, unix.W_OK); err != nil {
		return services.Wrap(services.ErrConfiguration, "reflectance", "process",
			fmt.Sprintf("scene directory not writable: %s", sceneDir), err)
	}

	logger := logging.NewComponentLogger(p.logger, "reflectance")
	cmd := commandContext(ctx, p.binary,
		"--xml="+filepath.Base(absXML), "--aux="+auxFile, "--verbose") //nolint:gosec
	cmd.Dir = sceneDir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "reflectance", "process", "stdout pipe", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "reflectance", "process",
			"start "+p.binary, err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			logger.Debug(line)
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return services.Wrap(services.ErrExternalTool, "reflectance", "process", "read output", err)
	}

	if err := cmd.Wait(); err != nil {
		return services.Wrap(services.ErrExternalTool, "reflectance", "process",
			fmt.Sprintf("%s --xml=%s --aux=%s", p.binary, filepath.Base(absXML), auxFile), err)
	}
	return nil
}
