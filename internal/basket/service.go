package basket

import (
	"context"

	"github.com/google/uuid"

	"github.com/harvestlane/farmbasket-backend/internal/cart"
	"github.com/harvestlane/farmbasket-backend/pkg/config"
	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/metrics"
	"github.com/harvestlane/farmbasket-backend/pkg/types"
)

// GenerateInput carries one basket generation request.
type GenerateInput struct {
	CustomerID  uuid.UUID
	LocationKey string
	Preferences types.Preferences
	BasketSize  int
}

// View is the customer-facing projection of a basket session: the proposed
// entries plus the zone grouping of the currently selected ones, computed with
// the same aggregation the cart uses.
type View struct {
	State       enums.BasketState
	Generation  int64
	LocationKey string
	Items       []SelectionEntry
	Aggregation *cart.Aggregation
}

type candidateSource interface {
	ListCandidates(ctx context.Context) ([]models.Product, map[uuid.UUID]*models.Farm, error)
}

type cartWriter interface {
	ReplaceWithSelection(ctx context.Context, customerID uuid.UUID, items []models.CartItem) (*models.CartRecord, error)
	AggregateItems(ctx context.Context, items []models.CartItem, locationKey string) (*cart.Aggregation, error)
}

type sessionStore interface {
	Load(ctx context.Context, customerID uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	SaveIfCurrent(ctx context.Context, session *Session) (bool, error)
	NextGeneration(ctx context.Context, customerID uuid.UUID) (int64, error)
}

// ServiceParams groups dependencies for the basket service.
type ServiceParams struct {
	Sessions sessionStore
	Catalog  candidateSource
	Cart     cartWriter
	Config   config.BasketConfig
	Metrics  *metrics.FulfillmentMetrics
}

// Service drives the curated basket lifecycle: generate, toggle, commit.
type Service interface {
	Generate(ctx context.Context, input GenerateInput) (*View, error)
	Toggle(ctx context.Context, customerID, productID uuid.UUID) (*View, error)
	Commit(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error)
	Get(ctx context.Context, customerID uuid.UUID) (*View, error)
}

type service struct {
	sessions sessionStore
	catalog  candidateSource
	cart     cartWriter
	cfg      config.BasketConfig
	metrics  *metrics.FulfillmentMetrics
}

// NewService builds a basket service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session store is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog source is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart writer is required")
	}
	return &service{
		sessions: params.Sessions,
		catalog:  params.Catalog,
		cart:     params.Cart,
		cfg:      params.Config,
		metrics:  params.Metrics,
	}, nil
}

// Generate builds a fresh proposed basket. The call honors ctx cancellation
// end to end, and each call stamps a new generation: when a later generate
// finishes first, this call's result is discarded rather than written over it.
// An empty catalog yields an empty basket, not an error.
func (s *service) Generate(ctx context.Context, input GenerateInput) (*View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	size := input.BasketSize
	if size <= 0 {
		size = s.cfg.DefaultSize
	}
	if s.cfg.MaxSize > 0 && size > s.cfg.MaxSize {
		size = s.cfg.MaxSize
	}

	generation, err := s.sessions.NextGeneration(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	products, farms, err := s.catalog.ListCandidates(ctx)
	if err != nil {
		s.metrics.IncBasketGeneration("failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		s.metrics.IncBasketGeneration("cancelled")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "basket generation abandoned")
	}

	candidates, err := FilterCandidates(products, farms, input.Preferences, input.LocationKey)
	if err != nil {
		s.metrics.IncBasketGeneration("failed")
		return nil, err
	}
	selected := SelectItems(candidates, size)

	session := &Session{
		CustomerID:  input.CustomerID,
		State:       enums.BasketStateGenerated,
		Generation:  generation,
		LocationKey: input.LocationKey,
		Preferences: input.Preferences,
		BasketSize:  size,
		Items:       entriesFromProducts(selected, farms),
	}

	current, err := s.sessions.SaveIfCurrent(ctx, session)
	if err != nil {
		return nil, err
	}
	if !current {
		s.metrics.IncBasketGeneration("superseded")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "basket generation superseded by a newer request")
	}

	s.metrics.IncBasketGeneration("generated")
	s.metrics.ObserveBasketSize(len(session.Items))
	return s.buildView(ctx, session)
}

// Toggle flips one entry's membership in the proposed basket and moves the
// session to editing.
func (s *service) Toggle(ctx context.Context, customerID, productID uuid.UUID) (*View, error) {
	session, err := s.loadExisting(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if session.State != enums.BasketStateGenerated && session.State != enums.BasketStateEditing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "basket is not editable in its current state")
	}

	found := false
	for i := range session.Items {
		if session.Items[i].ProductID == productID {
			session.Items[i].Selected = !session.Items[i].Selected
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not part of the proposed basket")
	}

	session.State = enums.BasketStateEditing
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.buildView(ctx, session)
}

// Commit replaces the customer's cart with the selected basket entries. The
// cart ends up containing exactly the selection; prior contents are discarded,
// not merged. Committing an empty selection is a caller error.
func (s *service) Commit(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	session, err := s.loadExisting(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if session.State != enums.BasketStateGenerated && session.State != enums.BasketStateEditing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "basket is not committable in its current state")
	}

	selected := session.SelectedItems()
	if len(selected) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot commit an empty basket selection")
	}

	record, err := s.cart.ReplaceWithSelection(ctx, customerID, cartItemsFromEntries(selected))
	if err != nil {
		return nil, err
	}

	session.State = enums.BasketStateCommitted
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns the current basket view, or an idle view when no session exists.
func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*View, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	session, err := s.sessions.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &View{State: enums.BasketStateIdle}, nil
	}
	return s.buildView(ctx, session)
}

func (s *service) loadExisting(ctx context.Context, customerID uuid.UUID) (*Session, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	session, err := s.sessions.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no proposed basket; generate one first")
	}
	return session, nil
}

func (s *service) buildView(ctx context.Context, session *Session) (*View, error) {
	agg, err := s.cart.AggregateItems(ctx, cartItemsFromEntries(session.SelectedItems()), session.LocationKey)
	if err != nil {
		return nil, err
	}
	return &View{
		State:       session.State,
		Generation:  session.Generation,
		LocationKey: session.LocationKey,
		Items:       session.Items,
		Aggregation: agg,
	}, nil
}

func entriesFromProducts(products []models.Product, farms map[uuid.UUID]*models.Farm) []SelectionEntry {
	entries := make([]SelectionEntry, 0, len(products))
	for _, product := range products {
		farmName := ""
		if farm := farms[product.FarmID]; farm != nil {
			farmName = farm.Name
		}
		entries = append(entries, SelectionEntry{
			ProductID:   product.ID,
			FarmID:      product.FarmID,
			FarmName:    farmName,
			ProductName: product.Name,
			Price:       product.Price,
			Unit:        product.Unit,
			Selected:    true,
		})
	}
	return entries
}

func cartItemsFromEntries(entries []SelectionEntry) []models.CartItem {
	items := make([]models.CartItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, models.CartItem{
			ProductID:   entry.ProductID,
			FarmID:      entry.FarmID,
			FarmName:    entry.FarmName,
			ProductName: entry.ProductName,
			Price:       entry.Price,
			Quantity:    1,
			Unit:        entry.Unit,
			ItemType:    enums.CartItemTypeProduct,
		})
	}
	return items
}
