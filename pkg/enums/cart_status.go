package enums

// CartStatus describes the lifecycle of a persisted cart record.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
	CartStatusCleared   CartStatus = "cleared"
)

// IsValid reports whether the value matches the canonical cart status enum.
func (c CartStatus) IsValid() bool {
	switch c {
	case CartStatusActive, CartStatusConverted, CartStatusCleared:
		return true
	}
	return false
}
