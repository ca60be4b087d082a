package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/internal/cart"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
)

// Totals is the final money breakdown for an order quote.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// BlockedItem names one cart line that prevents checkout.
type BlockedItem struct {
	ProductName string `json:"product_name"`
	FarmName    string `json:"farm_name"`
	Reason      string `json:"reason"`
}

// ComputeTotals turns an aggregation and a chosen delivery option into order
// totals. Unserviceable items block the computation outright; the error names
// every offending item so callers can surface them rather than silently drop
// them. Tax and total are each rounded to 2 places exactly once, never
// cumulatively.
func ComputeTotals(agg *cart.Aggregation, option DeliveryOption, taxRate decimal.Decimal) (Totals, error) {
	if agg == nil {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "aggregation is required")
	}
	if taxRate.IsNegative() {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must not be negative")
	}
	if len(agg.Unserviceable) > 0 {
		blocked := make([]BlockedItem, 0, len(agg.Unserviceable))
		for _, u := range agg.Unserviceable {
			blocked = append(blocked, BlockedItem{
				ProductName: u.Item.ProductName,
				FarmName:    u.Item.FarmName,
				Reason:      string(u.Reason),
			})
		}
		return Totals{}, pkgerrors.
			New(pkgerrors.CodeUnserviceable, "cart contains items that cannot be delivered").
			WithDetails(blocked)
	}

	subtotal := agg.DeliverableSubtotal().Round(2)
	deliveryFee := option.Price.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(deliveryFee).Add(tax).Round(2)

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       total,
	}, nil
}
