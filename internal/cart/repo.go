package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/enums"
)

// Repository encapsulates cart persistence. A customer has at most one active
// cart; items carry an explicit position so insertion order survives reloads.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindActiveByCustomer returns the customer's active cart with its items in
// insertion order.
func (r *Repository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("customer_id = ? AND status = ?", customerID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindOrCreateActive returns the customer's active cart, creating an empty one
// when none exists.
func (r *Repository) FindOrCreateActive(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	record, err := r.FindActiveByCustomer(ctx, customerID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	record = &models.CartRecord{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     enums.CartStatusActive,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// AppendItem inserts the item at the end of the cart, assigning the next
// position.
func (r *Repository) AppendItem(ctx context.Context, cartID uuid.UUID, item *models.CartItem) error {
	var maxPos int
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&maxPos).Error
	if err != nil {
		return err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CartID = cartID
	item.Position = maxPos + 1
	return r.db.WithContext(ctx).Create(item).Error
}

// ReplaceItems deletes the cart's items and inserts the provided ones in
// slice order. Callers run it inside a transaction so readers never observe
// the empty intermediate state.
func (r *Repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CartID = cartID
		items[i].Position = i
	}
	return tx.Create(&items).Error
}

// RemoveItem deletes a single item from the cart. Positions of the remaining
// items are left untouched; gaps are harmless since only relative order
// matters.
func (r *Repository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear removes all items from the cart.
func (r *Repository) Clear(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// UpdateStatus updates the status of the customer's cart.
func (r *Repository) UpdateStatus(ctx context.Context, id, customerID uuid.UUID, status enums.CartStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ? AND customer_id = ?", id, customerID).
		Update("status", status).Error
}
