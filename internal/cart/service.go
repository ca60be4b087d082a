package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/metrics"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

// AddItemInput carries the request to add one product to the cart.
type AddItemInput struct {
	ProductID    uuid.UUID
	Quantity     int
	ItemType     enums.CartItemType
	Subscription *types.SubscriptionPlan
}

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type farmLoader interface {
	FindFarmsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Farm, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo *Repository
	Products productLoader
	Farms    farmLoader
	Tx       txRunner
	Metrics  *metrics.FulfillmentMetrics
}

// Service exposes business rules for cart management. Every read that returns
// the cart also returns its zone aggregation for the caller's target location,
// so clients never see an ungrouped cart.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID, locationKey string) (*models.CartRecord, *Aggregation, error)
	AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) error
	Clear(ctx context.Context, customerID uuid.UUID) error
	Replace(ctx context.Context, customerID uuid.UUID, inputs []AddItemInput) (*models.CartRecord, error)
	ReplaceWithSelection(ctx context.Context, customerID uuid.UUID, items []models.CartItem) (*models.CartRecord, error)
	AggregateItems(ctx context.Context, items []models.CartItem, locationKey string) (*Aggregation, error)
}

type service struct {
	cartRepo *Repository
	products productLoader
	farms    farmLoader
	tx       txRunner
	metrics  *metrics.FulfillmentMetrics
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	if params.Farms == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm loader is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{
		cartRepo: params.CartRepo,
		products: params.Products,
		farms:    params.Farms,
		tx:       params.Tx,
		metrics:  params.Metrics,
	}, nil
}

// GetCart returns the customer's active cart and its aggregation for the
// location.
func (s *service) GetCart(ctx context.Context, customerID uuid.UUID, locationKey string) (*models.CartRecord, *Aggregation, error) {
	if customerID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	record, err := s.cartRepo.FindOrCreateActive(ctx, customerID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	agg, err := s.AggregateItems(ctx, record.Items, locationKey)
	if err != nil {
		return nil, nil, err
	}
	return record, agg, nil
}

// AddItem snapshots the product into the customer's cart. Price and names are
// copied at add time; later catalog edits do not rewrite cart lines.
func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	item, err := s.snapshotItem(ctx, input)
	if err != nil {
		return nil, err
	}

	record, err := s.cartRepo.FindOrCreateActive(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.cartRepo.AppendItem(ctx, record.ID, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append cart item")
	}
	return s.cartRepo.FindActiveByCustomer(ctx, customerID)
}

// snapshotItem validates the input and copies the product into a cart line.
func (s *service) snapshotItem(ctx context.Context, input AddItemInput) (*models.CartItem, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	itemType := input.ItemType
	if itemType == "" {
		itemType = enums.CartItemTypeProduct
	}
	if !itemType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item type")
	}
	if itemType == enums.CartItemTypeSubscription && input.Subscription == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription plan is required for subscription items")
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.InStock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
	}

	farms, err := s.farms.FindFarmsByIDs(ctx, []uuid.UUID{product.FarmID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	farmName := ""
	if farm := farms[product.FarmID]; farm != nil {
		farmName = farm.Name
	}

	return &models.CartItem{
		ProductID:    product.ID,
		FarmID:       product.FarmID,
		FarmName:     farmName,
		ProductName:  product.Name,
		Price:        product.Price,
		Quantity:     input.Quantity,
		Unit:         product.Unit,
		ItemType:     itemType,
		Subscription: input.Subscription,
	}, nil
}

// Replace swaps the whole cart for the provided selections in one transaction.
// Each selection is snapshotted the same way AddItem snapshots; one invalid
// line rejects the whole request and leaves the cart untouched.
func (s *service) Replace(ctx context.Context, customerID uuid.UUID, inputs []AddItemInput) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	items := make([]models.CartItem, 0, len(inputs))
	for _, input := range inputs {
		item, err := s.snapshotItem(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return s.ReplaceWithSelection(ctx, customerID, items)
}

// RemoveItem deletes one line from the customer's active cart.
func (s *service) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) error {
	if customerID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id and item id are required")
	}
	record, err := s.cartRepo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.cartRepo.RemoveItem(ctx, record.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return nil
}

// Clear removes every item from the customer's active cart.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	record, err := s.cartRepo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.cartRepo.Clear(ctx, record.ID)
}

// ReplaceWithSelection swaps the cart contents for the provided items in one
// transaction. Prior contents are gone afterwards, not merged.
func (s *service) ReplaceWithSelection(ctx context.Context, customerID uuid.UUID, items []models.CartItem) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	record, err := s.cartRepo.FindOrCreateActive(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.cartRepo.WithTx(tx).ReplaceItems(ctx, record.ID, items)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace cart items")
	}
	return s.cartRepo.FindActiveByCustomer(ctx, customerID)
}

// AggregateItems partitions the items into zone groups for the location and
// records the outcome metrics.
func (s *service) AggregateItems(ctx context.Context, items []models.CartItem, locationKey string) (*Aggregation, error) {
	start := time.Now()
	farms, err := s.loadFarms(ctx, items)
	if err != nil {
		return nil, err
	}
	agg, err := Aggregate(items, farms, locationKey)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveAggregation("cart", time.Since(start))
	for _, u := range agg.Unserviceable {
		s.metrics.IncUnserviceable(string(u.Reason))
	}
	return agg, nil
}

func (s *service) loadFarms(ctx context.Context, items []models.CartItem) (map[uuid.UUID]*models.Farm, error) {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, item := range items {
		if _, ok := seen[item.FarmID]; ok {
			continue
		}
		seen[item.FarmID] = struct{}{}
		ids = append(ids, item.FarmID)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*models.Farm{}, nil
	}
	farms, err := s.farms.FindFarmsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farms")
	}
	return farms, nil
}
