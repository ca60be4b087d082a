package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/harvestlane/farmbasket-backend/api/middleware"
	"github.com/harvestlane/farmbasket-backend/api/responses"
	"github.com/harvestlane/farmbasket-backend/api/validators"
	basketsvc "github.com/harvestlane/farmbasket-backend/internal/basket"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/logger"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

type generateBasketRequest struct {
	LocationKey         string   `json:"location_key,omitempty"`
	BasketSize          int      `json:"basket_size,omitempty" validate:"omitempty,min=1"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}

type toggleBasketRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type basketViewResponse struct {
	State       string                     `json:"state"`
	Generation  int64                      `json:"generation"`
	LocationKey string                     `json:"location_key,omitempty"`
	Items       []basketsvc.SelectionEntry `json:"items"`
	Aggregation *aggregationResponse       `json:"aggregation,omitempty"`
}

func newBasketViewResponse(view *basketsvc.View) basketViewResponse {
	items := view.Items
	if items == nil {
		items = []basketsvc.SelectionEntry{}
	}
	return basketViewResponse{
		State:       string(view.State),
		Generation:  view.Generation,
		LocationKey: view.LocationKey,
		Items:       items,
		Aggregation: newAggregationResponse(view.Aggregation),
	}
}

// BasketGenerate proposes a fresh curated basket. The handler passes the
// request context straight through so a client that walks away cancels the
// generation.
func BasketGenerate(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		var payload generateBasketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location := payload.LocationKey
		if location == "" {
			location = middleware.LocationKeyFromContext(r.Context())
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		view, err := svc.Generate(r.Context(), basketsvc.GenerateInput{
			CustomerID:  customerID,
			LocationKey: location,
			BasketSize:  payload.BasketSize,
			Preferences: types.Preferences{
				DietaryRestrictions: payload.DietaryRestrictions,
				TargetLocation:      location,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasketViewResponse(view))
	}
}

// BasketToggle flips one proposed item in or out of the selection.
func BasketToggle(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		var payload toggleBasketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		view, err := svc.Toggle(r.Context(), customerID, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasketViewResponse(view))
	}
}

// BasketCommit replaces the cart with the selected basket entries.
func BasketCommit(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		record, err := svc.Commit(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record, nil))
	}
}

// BasketFetch returns the current proposed basket, or an idle view when no
// session exists.
func BasketFetch(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		view, err := svc.Get(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasketViewResponse(view))
	}
}
