package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	yearKey     contextKey = "year"
	dayKey      contextKey = "doy"
	platformKey contextKey = "platform"
)

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithYear annotates context with the archive year being processed.
func WithYear(ctx context.Context, year int) context.Context {
	if year == 0 {
		return ctx
	}
	return context.WithValue(ctx, yearKey, year)
}

// YearFromContext returns the archive year if present.
func YearFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(yearKey).(int); ok && v != 0 {
		return v, true
	}
	return 0, false
}

// WithDay annotates context with the day of year being processed.
func WithDay(ctx context.Context, doy int) context.Context {
	if doy == 0 {
		return ctx
	}
	return context.WithValue(ctx, dayKey, doy)
}

// DayFromContext returns the day of year if present.
func DayFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(dayKey).(int); ok && v != 0 {
		return v, true
	}
	return 0, false
}

// WithPlatform annotates context with the platform candidate being tried.
func WithPlatform(ctx context.Context, platform string) context.Context {
	if platform == "" {
		return ctx
	}
	return context.WithValue(ctx, platformKey, platform)
}

// PlatformFromContext returns the platform tag if present.
func PlatformFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(platformKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
