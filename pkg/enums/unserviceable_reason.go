package enums

// UnserviceableReason explains why a cart item could not be routed to a
// delivery group. Items carrying a reason are surfaced, never dropped.
type UnserviceableReason string

const (
	// UnserviceableReasonUnresolvedFarm marks items whose farm id is absent
	// from the supplied farm set.
	UnserviceableReasonUnresolvedFarm UnserviceableReason = "unresolved_farm"
	// UnserviceableReasonNoServiceableZone marks items whose farm exists but
	// has no zone covering the target location.
	UnserviceableReasonNoServiceableZone UnserviceableReason = "no_serviceable_zone"
)

// IsValid reports whether the value matches the canonical reason enum.
func (u UnserviceableReason) IsValid() bool {
	switch u {
	case UnserviceableReasonUnresolvedFarm, UnserviceableReasonNoServiceableZone:
		return true
	}
	return false
}
