package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harvestlane/farmbasket-backend/api/responses"
	"github.com/harvestlane/farmbasket-backend/api/validators"
	"github.com/harvestlane/farmbasket-backend/internal/catalog"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/logger"
	"github.com/harvestlane/farmbasket-backend/pkg/pagination"
)

// ProductList handles the paginated catalog browse endpoint.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := productFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), catalog.ListProductsParams{
			Filters: filters,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products := make([]productResponse, 0, len(page.Products))
		for _, product := range page.Products {
			products = append(products, newProductResponse(product))
		}
		responses.WriteSuccess(w, map[string]any{
			"products":    products,
			"next_cursor": page.NextCursor,
		})
	}
}

// ProductDetail returns one catalog product.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*product))
	}
}

// FarmDetail returns one farm with its delivery zones in scan order.
func FarmDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		farmID, err := uuid.Parse(chi.URLParam(r, "farmId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farm id"))
			return
		}

		farm, err := svc.GetFarm(r.Context(), farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newFarmResponse(*farm))
	}
}

func productFiltersFromQuery(r *http.Request) (catalog.ProductFilters, error) {
	filters := catalog.ProductFilters{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("farm_id")); raw != "" {
		farmID, err := uuid.Parse(raw)
		if err != nil {
			return catalog.ProductFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farm id")
		}
		filters.FarmID = &farmID
	}

	organic, err := validators.ParseQueryBool(r, "organic")
	if err != nil {
		return catalog.ProductFilters{}, err
	}
	filters.Organic = organic

	inSeason, err := validators.ParseQueryBool(r, "in_season")
	if err != nil {
		return catalog.ProductFilters{}, err
	}
	filters.InSeason = inSeason

	inStock, err := validators.ParseQueryBool(r, "in_stock")
	if err != nil {
		return catalog.ProductFilters{}, err
	}
	if inStock != nil && *inStock {
		filters.InStockOnly = true
	}

	return filters, nil
}
