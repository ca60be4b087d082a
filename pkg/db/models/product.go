package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry owned by a farm. Catalog rows are
// read-only snapshots from this service's perspective; the external catalog
// pipeline creates and updates them.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FarmID        uuid.UUID       `gorm:"column:farm_id;type:uuid;not null"`
	Name          string          `gorm:"column:name;not null"`
	CategoryID    string          `gorm:"column:category_id;not null"`
	SubcategoryID string          `gorm:"column:subcategory_id"`
	VarietyID     string          `gorm:"column:variety_id"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Unit          string          `gorm:"column:unit;not null"`
	Organic       bool            `gorm:"column:organic;not null;default:false"`
	InSeason      bool            `gorm:"column:in_season;not null;default:false"`
	PreHarvest    bool            `gorm:"column:pre_harvest;not null;default:false"`
	// Freshness is a 0-100 score; null while the product is pre-harvest.
	Freshness *int           `gorm:"column:freshness"`
	Seasons   pq.StringArray `gorm:"column:seasons;type:text[];not null;default:ARRAY[]::text[]"`
	InStock   bool           `gorm:"column:in_stock;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
