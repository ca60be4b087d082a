package enums

import "fmt"

// DeliveryOptionType enumerates the order-level fulfillment choices.
type DeliveryOptionType string

const (
	DeliveryOptionStandard DeliveryOptionType = "standard"
	DeliveryOptionExpress  DeliveryOptionType = "express"
	DeliveryOptionPickup   DeliveryOptionType = "pickup"
)

var validDeliveryOptionTypes = []DeliveryOptionType{
	DeliveryOptionStandard,
	DeliveryOptionExpress,
	DeliveryOptionPickup,
}

// IsValid reports whether the value matches the canonical delivery option enum.
func (d DeliveryOptionType) IsValid() bool {
	for _, candidate := range validDeliveryOptionTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryOptionType converts the raw string to DeliveryOptionType.
func ParseDeliveryOptionType(value string) (DeliveryOptionType, error) {
	for _, candidate := range validDeliveryOptionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery option type %q", value)
}
