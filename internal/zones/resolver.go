package zones

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"go.uber.org/multierr"
)

// Resolve returns the delivery zone of farm covering locationKey, scanning
// zones in farm order. A nil zone with a nil error means the farm does not
// serve the location; that is an expected outcome, not an error.
//
// Two zones of the same farm claiming the same location key is a data
// integrity violation: Resolve refuses to pick one and fails the call with
// CodeDataIntegrity.
func Resolve(farm *models.Farm, locationKey string) (*models.DeliveryZone, error) {
	if farm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm is required")
	}
	key := normalizeKey(locationKey)
	if key == "" {
		return nil, nil
	}

	var matched *models.DeliveryZone
	for i := range farm.DeliveryZones {
		zone := &farm.DeliveryZones[i]
		if !zoneCovers(zone, key) {
			continue
		}
		if matched != nil {
			return nil, overlapError(farm, key, matched.Name, zone.Name)
		}
		matched = zone
	}
	return matched, nil
}

// Serviceable reports whether at least one of the farm's zones covers the
// location key.
func Serviceable(farm *models.Farm, locationKey string) (bool, error) {
	zone, err := Resolve(farm, locationKey)
	if err != nil {
		return false, err
	}
	return zone != nil, nil
}

// ValidateFarm checks every location key claimed by the farm's zones and
// collects all overlaps, so operators see the full extent of bad data rather
// than the first collision.
func ValidateFarm(farm *models.Farm) error {
	if farm == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "farm is required")
	}

	claimed := map[string]int{} // location key -> zone index
	var errs []error
	for i := range farm.DeliveryZones {
		zone := &farm.DeliveryZones[i]
		for _, area := range zone.Areas {
			key := normalizeKey(area)
			if key == "" {
				continue
			}
			if prev, ok := claimed[key]; ok && prev != i {
				errs = append(errs, overlapError(farm, key, farm.DeliveryZones[prev].Name, zone.Name))
				continue
			}
			claimed[key] = i
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return multierr.Combine(errs...)
}

func zoneCovers(zone *models.DeliveryZone, key string) bool {
	for _, area := range zone.Areas {
		if normalizeKey(area) == key {
			return true
		}
	}
	return false
}

func overlapError(farm *models.Farm, key, zoneA, zoneB string) error {
	return pkgerrors.New(
		pkgerrors.CodeDataIntegrity,
		fmt.Sprintf("farm %q zones %q and %q both claim location %q", farm.Name, zoneA, zoneB, key),
	)
}

func normalizeKey(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
