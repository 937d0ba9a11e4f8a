package reflectance

import (
	"fmt"
	"path/filepath"

	"ladsync/internal/archive"
	"ladsync/internal/dates"
	"ladsync/internal/resolver"
	"ladsync/internal/services"
)

// Selector resolves the auxiliary filename the reflectance algorithm must be
// given for an acquisition date.
type Selector struct {
	resolver *resolver.Resolver
	layout   *archive.Layout
}

// NewSelector constructs a Selector over an archive layout.
func NewSelector(res *resolver.Resolver, layout *archive.Layout) *Selector {
	return &Selector{resolver: res, layout: layout}
}

// AuxFilename returns the base auxiliary filename for a date and the product
// family it belongs to.
//
// Legacy dates resolve to the fused filename by construction. Current
// generation dates are looked up in the archive, preferring the newest
// platform; a date with no archived file is reported as not found so callers
// can trigger a fetch.
func (s *Selector) AuxFilename(date dates.AcquisitionDate) (string, resolver.ProductFamily, error) {
	family := s.resolver.Family(date)
	if family == resolver.Legacy {
		return resolver.LegacyFilename(date), family, nil
	}

	year, doy := date.Year(), date.DayOfYear()
	for _, candidate := range resolver.Platforms() {
		if year < candidate.StartYear {
			continue
		}
		matches, err := s.layout.Glob(year, candidate.FilePattern(year, doy))
		if err != nil {
			return "", family, err
		}
		if len(matches) > 0 {
			return filepath.Base(matches[0]), family, nil
		}
	}

	return "", family, services.Wrap(services.ErrNotFound, "reflectance", "resolve aux",
		fmt.Sprintf("no archived auxiliary file for %s (year %d doy %03d)", date, year, doy), nil)
}
