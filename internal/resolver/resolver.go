// Package resolver maps acquisition dates to auxiliary product families and
// priority-ordered platform candidates.
//
// Two generations of auxiliary data compete: the legacy fused product (one
// file per day, single source) and the current-generation VIIRS products,
// where several platforms may each publish a file for the same day. A single
// configurable cutover date decides the family; within the current
// generation, candidates are ordered newest platform first and filtered by
// each platform's availability window.
package resolver

import (
	"fmt"
	"time"

	"ladsync/internal/dates"
	"ladsync/internal/services"
)

// ProductFamily tags the auxiliary data generation required for a date.
type ProductFamily string

const (
	// Legacy is the fused single-source product used before the cutover.
	Legacy ProductFamily = "legacy"
	// CurrentGen is the per-platform VIIRS product line.
	CurrentGen ProductFamily = "current-gen"
)

// Candidate is one platform source capable of producing the product for a
// date. Candidates are pure values; Resolver returns them newest platform
// first.
type Candidate struct {
	// Platform is the short platform tag (JPSS1, NPP).
	Platform string
	// Product is the product prefix used in filenames and archive paths.
	Product string
	// CatalogID keys the platform's remote archive subtree.
	CatalogID string
	// StartYear is the first year the platform publishes data.
	StartYear int
}

// RemotePath returns the archive directory path for one (year, doy),
// relative to the LAADS base URL.
func (c Candidate) RemotePath(year, doy int) string {
	return fmt.Sprintf("/archive/allData/%s/%s/%d/%03d/", c.CatalogID, c.Product, year, doy)
}

// FilePattern returns the glob matching the platform's daily file, e.g.
// VJ104ANC.A2024005.*.h5. Used both against remote listings and the local
// archive.
func (c Candidate) FilePattern(year, doy int) string {
	return fmt.Sprintf("%s.A%d%03d.*.h5", c.Product, year, doy)
}

// The current-generation platform line, newest first. JPSS1 is preferred
// whenever its window covers the date; NPP is the backup.
var viirsPlatforms = []Candidate{
	{Platform: "JPSS1", Product: "VJ104ANC", CatalogID: "3194", StartYear: 2021},
	{Platform: "NPP", Product: "VNP04ANC", CatalogID: "5000", StartYear: 2017},
}

// EarliestViirsYear is the first year any current-generation platform
// publishes data. Year planning for full reprocessing reaches back to the
// newest platform's start so its products are picked up everywhere they
// exist.
const EarliestViirsYear = 2021

// LegacyFilename returns the fused product filename for a date, e.g.
// L8ANC2018228.hdf_fused.
func LegacyFilename(date dates.AcquisitionDate) string {
	return fmt.Sprintf("L8ANC%d%03d.hdf_fused", date.Year(), date.DayOfYear())
}

// Resolver applies the cutover policy and platform availability windows.
type Resolver struct {
	cutover time.Time
}

// New builds a Resolver with the supplied cutover date. Dates on or after
// the cutover resolve to the current generation.
func New(cutover time.Time) *Resolver {
	return &Resolver{cutover: cutover}
}

// Family resolves the product family for a date. The cutover bound is
// inclusive: date == cutover is CurrentGen.
func (r *Resolver) Family(date dates.AcquisitionDate) ProductFamily {
	if date.Before(r.cutover) {
		return Legacy
	}
	return CurrentGen
}

// Candidates returns the priority-ordered platform sources for a year.
// Every platform whose window has opened by the given year is included,
// newest first. An empty result is a configuration error: the year predates
// all platform windows.
func (r *Resolver) Candidates(year int) ([]Candidate, error) {
	eligible := make([]Candidate, 0, len(viirsPlatforms))
	for _, platform := range viirsPlatforms {
		if year >= platform.StartYear {
			eligible = append(eligible, platform)
		}
	}
	if len(eligible) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "resolver", "candidates",
			fmt.Sprintf("no platform publishes data for year %d", year), nil)
	}
	return eligible, nil
}

// Platforms exposes the full platform line, newest first, for archive
// scanning and display.
func Platforms() []Candidate {
	return append([]Candidate(nil), viirsPlatforms...)
}
