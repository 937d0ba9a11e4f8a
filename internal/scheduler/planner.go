package scheduler

import (
	"fmt"
	"time"

	"ladsync/internal/resolver"
	"ladsync/internal/services"
)

// Mode selects the year-planning and skip behaviour of a run.
type Mode string

const (
	// ModeToday targets recent days and skips anything already archived at
	// top priority.
	ModeToday Mode = "today"
	// ModeQuarterly reprocesses every year back to the newest platform's
	// start, ignoring what is already archived.
	ModeQuarterly Mode = "quarterly"
	// ModeRange reprocesses an explicit year range, ignoring what is already
	// archived.
	ModeRange Mode = "range"
)

// Plan is the resolved year list for one run, newest year first so an
// interrupted run has already covered the most recent data.
type Plan struct {
	Mode  Mode
	Years []int
}

// StartYear returns the oldest planned year.
func (p Plan) StartYear() int {
	if len(p.Years) == 0 {
		return 0
	}
	return p.Years[len(p.Years)-1]
}

// EndYear returns the newest planned year.
func (p Plan) EndYear() int {
	if len(p.Years) == 0 {
		return 0
	}
	return p.Years[0]
}

// PlanToday plans an incremental run: the current year, reaching back into
// the previous year during January so days published across the year boundary
// are not missed.
func PlanToday(now time.Time) Plan {
	years := []int{now.Year()}
	if now.YearDay() <= 31 {
		years = []int{now.Year(), now.Year() - 1}
	}
	return Plan{Mode: ModeToday, Years: years}
}

// PlanQuarterly plans a full reprocess from the current year back to the
// newest platform's first year.
func PlanQuarterly(now time.Time) Plan {
	var years []int
	for year := now.Year(); year >= resolver.EarliestViirsYear; year-- {
		years = append(years, year)
	}
	return Plan{Mode: ModeQuarterly, Years: years}
}

// PlanRange plans a reprocess of an explicit inclusive year range.
func PlanRange(startYear, endYear int, now time.Time) (Plan, error) {
	if startYear > endYear {
		return Plan{}, services.Wrap(services.ErrValidation, "scheduler", "plan",
			fmt.Sprintf("start year %d is after end year %d", startYear, endYear), nil)
	}
	if endYear > now.Year() {
		return Plan{}, services.Wrap(services.ErrValidation, "scheduler", "plan",
			fmt.Sprintf("end year %d is in the future", endYear), nil)
	}
	if _, err := resolver.New(time.Time{}).Candidates(startYear); err != nil {
		return Plan{}, err
	}
	var years []int
	for year := endYear; year >= startYear; year-- {
		years = append(years, year)
	}
	return Plan{Mode: ModeRange, Years: years}, nil
}
