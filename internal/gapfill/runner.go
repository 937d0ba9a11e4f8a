// Package gapfill wraps the external gap-filling transform applied to every
// fetched auxiliary file before it is archived.
package gapfill

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strings"

	"log/slog"

	"ladsync/internal/logging"
	"ladsync/internal/services"
)

var commandContext = exec.CommandContext

// Runner defines gap-fill behaviour.
type Runner interface {
	// Fill runs the transform on the staged auxiliary file and returns the
	// path of the gap-filled output. The transform works in place, so the
	// output path equals the input path.
	Fill(ctx context.Context, auxPath string) (string, error)
}

// Option configures the CLI runner.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithLogger attaches a logger for transform output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		c.logger = logger
	}
}

// CLI wraps the gapfill_viirs_aux command-line tool.
type CLI struct {
	binary string
	logger *slog.Logger
}

// NewCLI constructs a CLI runner using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "gapfill_viirs_aux", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Fill launches the gap-filling transform and checks its exit status. A
// nonzero exit leaves the staged input in place for diagnosis and reports an
// external tool failure, which the scheduler absorbs at the day level.
func (c *CLI) Fill(ctx context.Context, auxPath string) (string, error) {
	if strings.TrimSpace(auxPath) == "" {
		return "", errors.New("auxiliary file path required")
	}

	logger := logging.NewComponentLogger(c.logger, "gapfill")
	cmd := commandContext(ctx, c.binary, "--viirs_aux", auxPath) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "gapfill", "run", "stdout pipe", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "gapfill", "run",
			"start "+c.binary, err)
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
		return "", services.Wrap(services.ErrExternalTool, "gapfill", "run", "read output", err)
	}

	if err := cmd.Wait(); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "gapfill", "run",
			c.binary+" --viirs_aux "+auxPath, err)
	}

	return auxPath, nil
}

var _ Runner = (*CLI)(nil)
