package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/internal/cart"
	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/metrics"
)

// QuoteInput carries one totals request. TaxRate is a caller-supplied flat
// rate; jurisdiction-based tax tables live outside this service.
type QuoteInput struct {
	CustomerID  uuid.UUID
	LocationKey string
	OptionID    string
	TaxRate     decimal.Decimal
}

// Quote is the totals response plus the grouping it was computed from.
type Quote struct {
	Option      DeliveryOption
	Totals      Totals
	Aggregation *cart.Aggregation
}

type cartViewer interface {
	GetCart(ctx context.Context, customerID uuid.UUID, locationKey string) (*models.CartRecord, *cart.Aggregation, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Cart    cartViewer
	Metrics *metrics.FulfillmentMetrics
}

// Service quotes order totals for a customer's current cart.
type Service interface {
	ListOptions(ctx context.Context) []DeliveryOption
	QuoteTotals(ctx context.Context, input QuoteInput) (*Quote, error)
}

type service struct {
	cart    cartViewer
	metrics *metrics.FulfillmentMetrics
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart viewer is required")
	}
	return &service{cart: params.Cart, metrics: params.Metrics}, nil
}

// ListOptions returns the delivery option catalog.
func (s *service) ListOptions(_ context.Context) []DeliveryOption {
	return Options()
}

// QuoteTotals aggregates the customer's cart for the location and computes
// totals for the chosen delivery option. A cart with unserviceable items is
// rejected with the offending items named.
func (s *service) QuoteTotals(ctx context.Context, input QuoteInput) (*Quote, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	option, err := OptionByID(input.OptionID)
	if err != nil {
		return nil, err
	}

	record, agg, err := s.cart.GetCart(ctx, input.CustomerID, input.LocationKey)
	if err != nil {
		return nil, err
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	totals, err := ComputeTotals(agg, option, input.TaxRate)
	if err != nil {
		return nil, err
	}
	return &Quote{Option: option, Totals: totals, Aggregation: agg}, nil
}
