package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/farmbasket-backend/internal/zones"
	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/logger"
	"github.com/harvestlane/farmbasket-backend/pkg/pagination"
)

// ListProductsParams captures the inputs for the browse endpoint.
type ListProductsParams struct {
	Filters    ProductFilters
	Pagination pagination.Params
}

// ProductPage is one page of catalog products plus the cursor for the next.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

// Service exposes catalog reads for products and farms.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) (*ProductPage, error)
	GetFarm(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindFarmsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Farm, error)
	ListCandidates(ctx context.Context) ([]models.Product, map[uuid.UUID]*models.Farm, error)
	ValidateZoneData(ctx context.Context) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// GetProduct returns the product or a not-found error.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// ListProducts returns one filtered page of the catalog.
func (s *service) ListProducts(ctx context.Context, params ListProductsParams) (*ProductPage, error) {
	query := listProductsParams{
		Filters: params.Filters,
		Limit:   params.Pagination.Limit,
	}
	if params.Pagination.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	products, next, err := s.repo.listProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ProductPage{Products: products, NextCursor: cursor}, nil
}

// GetFarm returns the farm with its zones or a not-found error.
func (s *service) GetFarm(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm id is required")
	}
	farm, err := s.repo.FindFarmByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	return farm, nil
}

// FindProductByID satisfies the product loader contract used by the cart and
// basket services.
func (s *service) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindProductByID(ctx, id)
}

// FindFarmsByIDs satisfies the farm loader contract used by the cart and
// basket services.
func (s *service) FindFarmsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Farm, error) {
	return s.repo.FindFarmsByIDs(ctx, ids)
}

// ListCandidates returns every in-stock product together with the farms they
// belong to, the raw pool basket generation filters from.
func (s *service) ListCandidates(ctx context.Context) ([]models.Product, map[uuid.UUID]*models.Farm, error) {
	products, err := s.repo.ListInStock(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, product := range products {
		if _, ok := seen[product.FarmID]; ok {
			continue
		}
		seen[product.FarmID] = struct{}{}
		ids = append(ids, product.FarmID)
	}
	farms, err := s.repo.FindFarmsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farms")
	}
	return products, farms, nil
}

// ValidateZoneData checks every farm for overlapping delivery zones and logs
// each offender. Run at startup so bad zone data surfaces to operators before
// it fails customer aggregations.
func (s *service) ValidateZoneData(ctx context.Context) error {
	farms, err := s.repo.ListFarms(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farms")
	}

	bad := 0
	for i := range farms {
		if err := zones.ValidateFarm(&farms[i]); err != nil {
			bad++
			farmCtx := s.logg.WithFarmID(ctx, farms[i].ID.String())
			s.logg.Error(farmCtx, "farm has overlapping delivery zones", err)
		}
	}
	if bad > 0 {
		return pkgerrors.New(pkgerrors.CodeDataIntegrity, "delivery zone data contains overlaps")
	}
	return nil
}
