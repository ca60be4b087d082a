package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/harvestlane/farmbasket-backend/api/responses"
	pkgerrors "github.com/harvestlane/farmbasket-backend/pkg/errors"
	"github.com/harvestlane/farmbasket-backend/pkg/logger"
)

type contextKey string

const (
	ctxCustomerID  contextKey = "customer_id"
	ctxLocationKey contextKey = "location_key"
)

const (
	customerIDHeader  = "X-Customer-Id"
	locationKeyHeader = "X-Location-Key"
)

func CustomerIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxCustomerID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func LocationKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxLocationKey).(string); ok {
		return v
	}
	return ""
}

// WithCustomerID injects the customer identifier into the context.
func WithCustomerID(ctx context.Context, customerID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCustomerID, customerID)
}

// WithLocationKey injects the delivery target location into the context.
func WithLocationKey(ctx context.Context, locationKey string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLocationKey, locationKey)
}

// CustomerContext reads the customer identity and target location set by the
// fronting auth gateway. Requests without a parseable customer id never reach
// the handlers.
func CustomerContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(customerIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing"))
				return
			}
			customerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id"))
				return
			}

			ctx := WithCustomerID(r.Context(), customerID)
			if location := strings.TrimSpace(r.Header.Get(locationKeyHeader)); location != "" {
				ctx = WithLocationKey(ctx, location)
			}
			if logg != nil {
				ctx = logg.WithCustomerID(ctx, customerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
