package logging

import (
	"context"
	"log/slog"

	"ladsync/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for run correlation identifiers.
	FieldRunID = "run_id"
	// FieldYear is the standardized structured logging key for the archive year.
	FieldYear = "year"
	// FieldDay is the standardized structured logging key for the day of year.
	FieldDay = "doy"
	// FieldPlatform is the standardized structured logging key for the platform candidate.
	FieldPlatform = "platform"
	// FieldEventType distinguishes lifecycle events (run_start, day_skip, ...)
	// in structured output.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if year, ok := services.YearFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldYear, year))
	}
	if doy, ok := services.DayFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldDay, doy))
	}
	if platform, ok := services.PlatformFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPlatform, platform))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
