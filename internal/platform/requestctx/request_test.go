package requestctx

import (
	"context"
	"testing"
)

func TestRequestIDFromContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-42")
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestFromContextNil(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty request id for nil context, got %q", got)
	}
	if got := OperatorFromContext(nil); got != "" {
		t.Fatalf("expected empty operator for nil context, got %q", got)
	}
}

func TestWithOperatorNilContext(t *testing.T) {
	ctx := WithOperator(nil, "gm-7")
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	if got := OperatorFromContext(ctx); got != "gm-7" {
		t.Fatalf("OperatorFromContext = %q, want %q", got, "gm-7")
	}
}

func TestValuesAreIndependent(t *testing.T) {
	ctx := WithOperator(WithRequestID(context.Background(), "req-1"), "gm-1")
	if RequestIDFromContext(ctx) != "req-1" || OperatorFromContext(ctx) != "gm-1" {
		t.Fatalf("unexpected values: %q %q", RequestIDFromContext(ctx), OperatorFromContext(ctx))
	}
}
