package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	basketsvc "github.com/harvestlane/farmbasket-backend/internal/basket"
	"github.com/harvestlane/farmbasket-backend/pkg/db/models"
	"github.com/harvestlane/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
)

type stubBasketService struct {
	generate func(ctx context.Context, input basketsvc.GenerateInput) (*basketsvc.View, error)
	toggle   func(ctx context.Context, customerID, productID uuid.UUID) (*basketsvc.View, error)
	commit   func(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error)
	get      func(ctx context.Context, customerID uuid.UUID) (*basketsvc.View, error)
}

func (s *stubBasketService) Generate(ctx context.Context, input basketsvc.GenerateInput) (*basketsvc.View, error) {
	return s.generate(ctx, input)
}

func (s *stubBasketService) Toggle(ctx context.Context, customerID, productID uuid.UUID) (*basketsvc.View, error) {
	return s.toggle(ctx, customerID, productID)
}

func (s *stubBasketService) Commit(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	return s.commit(ctx, customerID)
}

func (s *stubBasketService) Get(ctx context.Context, customerID uuid.UUID) (*basketsvc.View, error) {
	return s.get(ctx, customerID)
}

func TestBasketGenerateUsesContextLocationFallback(t *testing.T) {
	customerID := uuid.New()
	svc := &stubBasketService{
		generate: func(ctx context.Context, input basketsvc.GenerateInput) (*basketsvc.View, error) {
			if input.CustomerID != customerID {
				t.Fatalf("unexpected customer id %s", input.CustomerID)
			}
			if input.LocationKey != "94107" {
				t.Fatalf("expected location from header context, got %q", input.LocationKey)
			}
			if input.Preferences.TargetLocation != "94107" {
				t.Fatalf("preferences location not set: %+v", input.Preferences)
			}
			return &basketsvc.View{State: enums.BasketStateGenerated, Generation: 1, LocationKey: input.LocationKey}, nil
		},
	}

	rec := httptest.NewRecorder()
	BasketGenerate(svc, nil)(rec, requestWithCustomer(t, http.MethodPost, "/api/v1/basket/generate", `{}`, customerID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data basketViewResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.State != string(enums.BasketStateGenerated) {
		t.Fatalf("unexpected state %q", envelope.Data.State)
	}
	if envelope.Data.Items == nil {
		t.Fatal("items should serialize as an empty array, not null")
	}
}

func TestBasketGenerateBodyLocationWins(t *testing.T) {
	svc := &stubBasketService{
		generate: func(ctx context.Context, input basketsvc.GenerateInput) (*basketsvc.View, error) {
			if input.LocationKey != "97202" {
				t.Fatalf("body location should win, got %q", input.LocationKey)
			}
			if input.BasketSize != 5 {
				t.Fatalf("basket size not passed, got %d", input.BasketSize)
			}
			return &basketsvc.View{State: enums.BasketStateGenerated, Generation: 2, LocationKey: input.LocationKey}, nil
		},
	}

	body := `{"location_key":"97202","basket_size":5,"dietary_restrictions":["vegan"]}`
	rec := httptest.NewRecorder()
	BasketGenerate(svc, nil)(rec, requestWithCustomer(t, http.MethodPost, "/api/v1/basket/generate", body, uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBasketToggleRequiresProductID(t *testing.T) {
	svc := &stubBasketService{
		toggle: func(ctx context.Context, customerID, productID uuid.UUID) (*basketsvc.View, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	BasketToggle(svc, nil)(rec, requestWithCustomer(t, http.MethodPost, "/api/v1/basket/toggle", `{}`, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBasketToggleStateConflict(t *testing.T) {
	svc := &stubBasketService{
		toggle: func(ctx context.Context, customerID, productID uuid.UUID) (*basketsvc.View, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "basket is not editable")
		},
	}

	body := `{"product_id":"` + uuid.NewString() + `"}`
	rec := httptest.NewRecorder()
	BasketToggle(svc, nil)(rec, requestWithCustomer(t, http.MethodPost, "/api/v1/basket/toggle", body, uuid.New()))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestBasketCommitReturnsCart(t *testing.T) {
	customerID := uuid.New()
	svc := &stubBasketService{
		commit: func(ctx context.Context, gotCustomer uuid.UUID) (*models.CartRecord, error) {
			if gotCustomer != customerID {
				t.Fatalf("unexpected customer id %s", gotCustomer)
			}
			return &models.CartRecord{
				ID:     uuid.New(),
				Status: enums.CartStatusActive,
				Items:  []models.CartItem{{ProductName: "Beets"}},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	BasketCommit(svc, nil)(rec, requestWithCustomer(t, http.MethodPost, "/api/v1/basket/commit", "", customerID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].ProductName != "Beets" {
		t.Fatalf("unexpected cart payload %+v", envelope.Data)
	}
}

func TestBasketFetchIdleView(t *testing.T) {
	svc := &stubBasketService{
		get: func(ctx context.Context, customerID uuid.UUID) (*basketsvc.View, error) {
			return &basketsvc.View{State: enums.BasketStateIdle}, nil
		},
	}

	rec := httptest.NewRecorder()
	BasketFetch(svc, nil)(rec, requestWithCustomer(t, http.MethodGet, "/api/v1/basket", "", uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data basketViewResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.State != string(enums.BasketStateIdle) {
		t.Fatalf("unexpected state %q", envelope.Data.State)
	}
}
