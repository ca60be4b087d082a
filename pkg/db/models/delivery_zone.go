package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DeliveryZone is a named geographic service area owned by a single farm.
// Position fixes the scan order within the farm. A location key may appear in
// at most one zone per farm; overlaps are a data error the resolver rejects.
type DeliveryZone struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FarmID                uuid.UUID       `gorm:"column:farm_id;type:uuid;not null"`
	Name                  string          `gorm:"column:name;not null"`
	Position              int             `gorm:"column:position;not null;default:0"`
	Areas                 pq.StringArray  `gorm:"column:areas;type:text[];not null;default:ARRAY[]::text[]"`
	DeliveryDays          pq.StringArray  `gorm:"column:delivery_days;type:text[];not null;default:ARRAY[]::text[]"`
	DeliveryFee           decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	MinimumOrder          decimal.Decimal `gorm:"column:minimum_order;type:numeric(10,2);not null"`
	EstimatedDeliveryTime string          `gorm:"column:estimated_delivery_time"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
