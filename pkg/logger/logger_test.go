package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithCustomerID(ctx, "cust-9")
	logg.Info(ctx, "hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-123"`) {
		t.Fatalf("expected request_id in output, got %s", out)
	}
	if !strings.Contains(out, `"customer_id":"cust-9"`) {
		t.Fatalf("expected customer_id in output, got %s", out)
	}
	if !strings.Contains(out, `"service":"test"`) {
		t.Fatalf("expected service field in output, got %s", out)
	}
}

func TestParseLevelFallback(t *testing.T) {
	t.Parallel()

	if got := ParseLevel("warn"); got != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", got)
	}
	if got := ParseLevel("nonsense"); got != zerolog.InfoLevel {
		t.Fatalf("expected fallback to info, got %v", got)
	}
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Fatalf("expected fallback to info for empty, got %v", got)
	}
}
