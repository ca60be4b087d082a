package models

import (
	"time"

	"github.com/google/uuid"
)

// Farm is an independent merchant. A farm owns its delivery zones; a farm
// with zero zones serves nowhere.
type Farm struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	DeliveryZones []DeliveryZone `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
