// Package reflectance resolves the auxiliary input for a Sentinel-2 scene
// and drives the surface-reflectance executable over it.
package reflectance

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ladsync/internal/dates"
	"ladsync/internal/services"
)

// scenePrefixes are the Sentinel-2 spacecraft tags a scene name may start
// with.
var scenePrefixes = []string{"S2A", "S2B"}

// ParseSceneDate extracts the acquisition date from a Sentinel-2 scene XML
// filename. Scene names carry the date as the fifth underscore-separated
// group, e.g. S2A_MSI_L1C_T10TFR_20180816_20180903.xml acquires on
// 2018-08-16.
func ParseSceneDate(xmlPath string) (dates.AcquisitionDate, error) {
	base := filepath.Base(xmlPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	if !hasScenePrefix(name) {
		return dates.AcquisitionDate{}, services.Wrap(services.ErrValidation, "reflectance", "parse scene",
			fmt.Sprintf("%q is not a recognized Sentinel-2 scene name", base), nil)
	}

	parts := strings.Split(name, "_")
	if len(parts) < 5 || len(parts[4]) < 8 {
		return dates.AcquisitionDate{}, services.Wrap(services.ErrValidation, "reflectance", "parse scene",
			fmt.Sprintf("%q does not carry an acquisition date field", base), nil)
	}

	acquired, err := time.Parse("20060102", parts[4][:8])
	if err != nil {
		return dates.AcquisitionDate{}, services.Wrap(services.ErrValidation, "reflectance", "parse scene",
			fmt.Sprintf("bad acquisition date %q", parts[4][:8]), err)
	}
	return dates.FromTime(acquired), nil
}

func hasScenePrefix(name string) bool {
	for _, prefix := range scenePrefixes {
		if strings.HasPrefix(name, prefix+"_") {
			return true
		}
	}
	return false
}
