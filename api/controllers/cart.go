package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harvestlane/farmbasket-backend/api/middleware"
	"github.com/harvestlane/farmbasket-backend/api/responses"
	"github.com/harvestlane/farmbasket-backend/api/validators"
	cartsvc "github.com/harvestlane/farmbasket-backend/internal/cart"
	"github.com/harvestlane/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/logger"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

type cartItemRequest struct {
	ProductID    uuid.UUID                `json:"product_id" validate:"required"`
	Quantity     int                      `json:"quantity" validate:"required,min=1"`
	ItemType     string                   `json:"item_type,omitempty"`
	Subscription *subscriptionPlanRequest `json:"subscription,omitempty"`
}

type subscriptionPlanRequest struct {
	Frequency   string `json:"frequency" validate:"required"`
	DeliveryDay string `json:"delivery_day" validate:"required"`
}

type replaceCartRequest struct {
	Items []cartItemRequest `json:"items" validate:"required,dive"`
}

func (r cartItemRequest) toInput() cartsvc.AddItemInput {
	input := cartsvc.AddItemInput{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		ItemType:  enums.CartItemType(r.ItemType),
	}
	if r.Subscription != nil {
		input.Subscription = &types.SubscriptionPlan{
			Frequency:   r.Subscription.Frequency,
			DeliveryDay: r.Subscription.DeliveryDay,
		}
	}
	return input
}

// CartFetch returns the active cart with its zone aggregation for the
// caller's target location.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		record, agg, err := svc.GetCart(r.Context(), customerID, middleware.LocationKeyFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record, agg))
	}
}

// CartAddItem appends one product snapshot to the active cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		record, err := svc.AddItem(r.Context(), customerID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(record, nil))
	}
}

// CartReplace swaps the cart contents for the provided items.
func CartReplace(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload replaceCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]cartsvc.AddItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			inputs = append(inputs, item.toInput())
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		record, err := svc.Replace(r.Context(), customerID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record, nil))
	}
}

// CartRemoveItem deletes one line from the active cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		if err := svc.RemoveItem(r.Context(), customerID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// CartClear removes every item from the active cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		if err := svc.Clear(r.Context(), customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
