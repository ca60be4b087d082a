package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvestlane/farmbasket-backend/pkg/enums"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

// CartItem is a product snapshot inside a cart. Product and farm names are
// denormalized so undeliverable items can be listed by name even when the
// source rows have moved on.
type CartItem struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID       uuid.UUID               `gorm:"column:cart_id;type:uuid;not null"`
	ProductID    uuid.UUID               `gorm:"column:product_id;type:uuid;not null"`
	FarmID       uuid.UUID               `gorm:"column:farm_id;type:uuid;not null"`
	FarmName     string                  `gorm:"column:farm_name;not null"`
	ProductName  string                  `gorm:"column:product_name;not null"`
	Price        decimal.Decimal         `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity     int                     `gorm:"column:quantity;not null;default:1"`
	Unit         string                  `gorm:"column:unit;not null"`
	ItemType     enums.CartItemType      `gorm:"column:item_type;not null;default:'product'"`
	Subscription *types.SubscriptionPlan `gorm:"column:subscription;type:jsonb;serializer:json"`
	Position     int                     `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotal returns price × quantity for the item.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
