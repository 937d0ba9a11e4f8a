package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks an expected remote absence: the platform simply has
	// no data for the requested day. It drives candidate fallback and is
	// never logged as an error.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks network/server failures that persisted after the
	// retry budget was exhausted. The candidate is abandoned but the run
	// continues.
	ErrTransient = errors.New("transient failure")
	// ErrAuth marks authentication/authorization failures. These abort the
	// run immediately without retrying.
	ErrAuth = errors.New("authorization error")
	// ErrConfiguration marks bad or missing configuration (no token, no
	// eligible platform).
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks failures of external executables (gap-fill,
	// lasrc).
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks inconsistent inputs such as multiple files
	// matching a per-day pattern.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later outcome classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort the whole run rather than the
// current day. Authorization, configuration, and validation errors are never
// recoverable by moving on to another day.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAuth) ||
		errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrValidation)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
