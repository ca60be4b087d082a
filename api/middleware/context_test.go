package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCustomerContextRequiresHeader(t *testing.T) {
	handler := CustomerContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without customer header, got %d", rec.Code)
	}
}

func TestCustomerContextRejectsBadID(t *testing.T) {
	handler := CustomerContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Customer-Id", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed customer id, got %d", rec.Code)
	}
}

func TestCustomerContextInjectsValues(t *testing.T) {
	customerID := uuid.New()
	var gotCustomer uuid.UUID
	var gotLocation string

	handler := CustomerContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCustomer = CustomerIDFromContext(r.Context())
		gotLocation = LocationKeyFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Customer-Id", customerID.String())
	req.Header.Set("X-Location-Key", "94107")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotCustomer != customerID {
		t.Fatalf("customer id not propagated: got %s", gotCustomer)
	}
	if gotLocation != "94107" {
		t.Fatalf("location key not propagated: got %q", gotLocation)
	}
}
