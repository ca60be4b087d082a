package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/pagination"
)

// ProductFilters describe the supported filter knobs for the browse endpoint.
type ProductFilters struct {
	FarmID      *uuid.UUID `json:"farm_id,omitempty"`
	Category    string     `json:"category,omitempty"`
	Organic     *bool      `json:"organic,omitempty"`
	InSeason    *bool      `json:"in_season,omitempty"`
	InStockOnly bool       `json:"in_stock_only,omitempty"`
	Query       string     `json:"q,omitempty"`
}

type listProductsParams struct {
	Filters ProductFilters
	Limit   int
	Cursor  *pagination.Cursor
}

// Repository exposes read paths over the catalog tables. Catalog rows are
// written by the ingestion pipeline, not by this service, so there is no
// create/update surface here.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindProductByID loads the product without associations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) listProducts(ctx context.Context, params listProductsParams) ([]models.Product, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if params.Filters.FarmID != nil {
		query = query.Where("farm_id = ?", *params.Filters.FarmID)
	}
	if params.Filters.Category != "" {
		query = query.Where("category_id = ?", params.Filters.Category)
	}
	if params.Filters.Organic != nil {
		query = query.Where("organic = ?", *params.Filters.Organic)
	}
	if params.Filters.InSeason != nil {
		query = query.Where("in_season = ?", *params.Filters.InSeason)
	}
	if params.Filters.InStockOnly {
		query = query.Where("in_stock = ?", true)
	}
	if params.Filters.Query != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Filters.Query)+"%")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var products []models.Product
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, nil, err
	}

	if len(products) > normalized {
		next := products[normalized]
		products = products[:normalized]
		return products, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return products, nil, nil
}

// ListInStock returns every in-stock product. The candidate pool for basket
// generation is the full catalog, so this path deliberately skips pagination.
func (r *Repository) ListInStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("in_stock = ?", true).
		Order("created_at ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindFarmByID loads the farm with its delivery zones in farm order.
func (r *Repository) FindFarmByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.WithContext(ctx).
		Preload("DeliveryZones", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&farm, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &farm, nil
}

// FindFarmsByIDs loads the requested farms keyed by id. Missing ids are
// simply absent from the result; callers decide whether that is an error.
func (r *Repository) FindFarmsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Farm, error) {
	out := make(map[uuid.UUID]*models.Farm, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var farms []models.Farm
	err := r.db.WithContext(ctx).
		Preload("DeliveryZones", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id IN ?", ids).
		Find(&farms).Error
	if err != nil {
		return nil, err
	}
	for i := range farms {
		out[farms[i].ID] = &farms[i]
	}
	return out, nil
}

// ListFarms returns all farms with their zones.
func (r *Repository) ListFarms(ctx context.Context) ([]models.Farm, error) {
	var farms []models.Farm
	err := r.db.WithContext(ctx).
		Preload("DeliveryZones", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("name ASC").
		Find(&farms).Error
	if err != nil {
		return nil, err
	}
	return farms, nil
}
