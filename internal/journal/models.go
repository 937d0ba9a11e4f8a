package journal

import "time"

// RunStatus tracks the lifecycle of one scheduler invocation.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// DayOutcome records what happened to one (year, doy) during a run.
type DayOutcome string

const (
	DayArchived DayOutcome = "archived"
	DaySkipped  DayOutcome = "skipped"
	DayMissing  DayOutcome = "missing"
	DayFailed   DayOutcome = "day_failure"
)

// Run is one scheduler invocation.
type Run struct {
	ID         string
	Mode       string
	StartYear  int
	EndYear    int
	Status     RunStatus
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// DayResult is one per-day outcome within a run.
type DayResult struct {
	RunID     string
	Year      int
	DOY       int
	Platform  string
	Outcome   DayOutcome
	Detail    string
	CreatedAt time.Time
}

// RunSummary aggregates per-day outcomes for display.
type RunSummary struct {
	Run      Run
	Archived int
	Skipped  int
	Missing  int
	Failed   int
}
