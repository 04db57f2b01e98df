package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/gamekeeper/internal/platform/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func lookupFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestSetupNoopWhenInactive(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "endpoint empty", env: map[string]string{}},
		{name: "explicitly disabled", env: map[string]string{
			"GAMEKEEPER_OTEL_ENDPOINT": "http://localhost:4318",
			"GAMEKEEPER_OTEL_ENABLED":  "false",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shutdown, err := otel.SetupWithLookup(context.Background(), "roster", lookupFrom(tc.env))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown error: %v", err)
			}
		})
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export succeeds.
	lookup := lookupFrom(map[string]string{
		"GAMEKEEPER_OTEL_ENDPOINT":     "http://192.0.2.1:4318",
		"GAMEKEEPER_OTEL_SAMPLE_RATIO": "0.5",
	})

	shutdown, err := otel.SetupWithLookup(context.Background(), "maintenance", lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupReadsProcessEnv(t *testing.T) {
	t.Setenv("GAMEKEEPER_OTEL_ENDPOINT", "")
	shutdown, err := otel.Setup(context.Background(), "roster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestLoadConfigRejectsSampleRatioOutOfRange(t *testing.T) {
	for _, raw := range []string{"-0.1", "1.5", "often"} {
		if _, err := otel.LoadConfig(lookupFrom(map[string]string{"GAMEKEEPER_OTEL_SAMPLE_RATIO": raw})); err == nil {
			t.Fatalf("expected error for sample ratio %q", raw)
		}
	}
	cfg, err := otel.LoadConfig(nil)
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.SampleRatio != 1 || cfg.Active() {
		t.Fatalf("defaults = %+v, want ratio 1 and inactive", cfg)
	}
}

func TestNewResourceNamesService(t *testing.T) {
	res, err := otel.NewResource(context.Background(), "roster")
	if err != nil {
		t.Fatalf("new resource: %v", err)
	}
	name, ok := res.Set().Value(semconv.ServiceNameKey)
	if !ok || name.AsString() != "roster" {
		t.Fatalf("service.name = %q, want roster", name.AsString())
	}
	namespace, ok := res.Set().Value(semconv.ServiceNamespaceKey)
	if !ok || namespace.AsString() != otel.ServiceNamespace {
		t.Fatalf("service.namespace = %q, want %q", namespace.AsString(), otel.ServiceNamespace)
	}

	if _, err := otel.NewResource(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty service name")
	}
}
