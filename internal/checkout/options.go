package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
)

// DeliveryOption is one order-wide fulfillment choice. The fee is flat for the
// whole order regardless of which zones the cart spans; per-zone fees exist in
// the zone data but are deliberately not summed here.
type DeliveryOption struct {
	ID                string                   `json:"id"`
	Type              enums.DeliveryOptionType `json:"type"`
	Label             string                   `json:"label"`
	Price             decimal.Decimal          `json:"price"`
	EstimatedDelivery string                   `json:"estimated_delivery"`
	PickupLocation    string                   `json:"pickup_location,omitempty"`
}

// deliveryOptions is the fixed option catalog. Not zone-specific and not
// persisted; ops change it with a deploy.
var deliveryOptions = []DeliveryOption{
	{
		ID:                "standard",
		Type:              enums.DeliveryOptionStandard,
		Label:             "Standard delivery",
		Price:             decimal.RequireFromString("4.99"),
		EstimatedDelivery: "2-3 days",
	},
	{
		ID:                "express",
		Type:              enums.DeliveryOptionExpress,
		Label:             "Express delivery",
		Price:             decimal.RequireFromString("9.99"),
		EstimatedDelivery: "next day",
	},
	{
		ID:                "pickup",
		Type:              enums.DeliveryOptionPickup,
		Label:             "Farmstand pickup",
		Price:             decimal.Zero,
		EstimatedDelivery: "same day",
		PickupLocation:    "market stall",
	},
}

// Options returns the delivery option catalog.
func Options() []DeliveryOption {
	out := make([]DeliveryOption, len(deliveryOptions))
	copy(out, deliveryOptions)
	return out
}

// OptionByID resolves one delivery option.
func OptionByID(id string) (DeliveryOption, error) {
	for _, option := range deliveryOptions {
		if option.ID == id {
			return option, nil
		}
	}
	return DeliveryOption{}, pkgerrors.New(pkgerrors.CodeNotFound, "unknown delivery option")
}
