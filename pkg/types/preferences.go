package types

import "strings"

// DietaryRestrictionOrganic is the only restriction the basket filter acts on
// today; unknown restrictions are carried through untouched.
const DietaryRestrictionOrganic = "organic"

// Preferences is the read-only snapshot of customer preferences supplied by
// the caller for basket generation and cart aggregation.
type Preferences struct {
	DietaryRestrictions []string `json:"dietary_restrictions"`
	TargetLocation      string   `json:"target_location"`
}

// HasRestriction reports whether the named restriction is present
// (case-insensitive).
func (p Preferences) HasRestriction(name string) bool {
	for _, restriction := range p.DietaryRestrictions {
		if strings.EqualFold(strings.TrimSpace(restriction), name) {
			return true
		}
	}
	return false
}
