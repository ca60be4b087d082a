package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/api/middleware"
	"github.com/harvestlane/farmbasket-backend/api/responses"
	"github.com/harvestlane/farmbasket-backend/api/validators"
	checkoutsvc "github.com/harvestlane/farmbasket-backend/internal/checkout"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/logger"
)

type quoteTotalsRequest struct {
	OptionID    string `json:"option_id" validate:"required"`
	TaxRate     string `json:"tax_rate" validate:"required"`
	LocationKey string `json:"location_key,omitempty"`
}

type quoteResponse struct {
	Option      checkoutsvc.DeliveryOption `json:"option"`
	Totals      checkoutsvc.Totals         `json:"totals"`
	Aggregation *aggregationResponse       `json:"aggregation"`
}

// CheckoutOptions lists the delivery option catalog.
func CheckoutOptions(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"options": svc.ListOptions(r.Context())})
	}
}

// CheckoutTotals quotes order totals for the customer's cart and a chosen
// delivery option.
func CheckoutTotals(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload quoteTotalsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taxRate, err := decimal.NewFromString(payload.TaxRate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tax rate"))
			return
		}

		location := payload.LocationKey
		if location == "" {
			location = middleware.LocationKeyFromContext(r.Context())
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		quote, err := svc.QuoteTotals(r.Context(), checkoutsvc.QuoteInput{
			CustomerID:  customerID,
			LocationKey: location,
			OptionID:    payload.OptionID,
			TaxRate:     taxRate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quoteResponse{
			Option:      quote.Option,
			Totals:      quote.Totals,
			Aggregation: newAggregationResponse(quote.Aggregation),
		})
	}
}
