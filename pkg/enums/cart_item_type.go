package enums

import "fmt"

// CartItemType distinguishes one-off products from recurring subscriptions.
type CartItemType string

const (
	CartItemTypeProduct      CartItemType = "product"
	CartItemTypeSubscription CartItemType = "subscription"
)

var validCartItemTypes = []CartItemType{
	CartItemTypeProduct,
	CartItemTypeSubscription,
}

// IsValid reports whether the value matches the canonical cart item type enum.
func (c CartItemType) IsValid() bool {
	for _, candidate := range validCartItemTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartItemType converts the raw string to CartItemType.
func ParseCartItemType(value string) (CartItemType, error) {
	for _, candidate := range validCartItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart item type %q", value)
}
