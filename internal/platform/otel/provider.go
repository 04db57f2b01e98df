// Package otel wires OpenTelemetry tracing for gamekeeper processes.
package otel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/louisbranch/gamekeeper/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceNamespace groups every gamekeeper process under one namespace in
// trace backends.
const ServiceNamespace = "gamekeeper"

// Config selects the trace exporter for one process.
type Config struct {
	Enabled     string  `env:"GAMEKEEPER_OTEL_ENABLED"`
	Endpoint    string  `env:"GAMEKEEPER_OTEL_ENDPOINT"`
	SampleRatio float64 `env:"GAMEKEEPER_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether spans should be exported.
func (c Config) Active() bool {
	if strings.EqualFold(strings.TrimSpace(c.Enabled), "false") {
		return false
	}
	return strings.TrimSpace(c.Endpoint) != ""
}

// LoadConfig reads tracing settings through lookup. A nil lookup behaves like
// an empty environment.
func LoadConfig(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	if err := config.LookupEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return Config{}, fmt.Errorf("GAMEKEEPER_OTEL_SAMPLE_RATIO must be between 0 and 1, got %v", cfg.SampleRatio)
	}
	return cfg, nil
}

// NewResource describes serviceName (roster, maintenance) within the
// gamekeeper namespace.
func NewResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return nil, errors.New("service name is required")
	}
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace(ServiceNamespace),
		),
	)
}

// Setup initialises OpenTelemetry tracing for the given service from the
// process environment.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	return SetupWithLookup(ctx, serviceName, os.LookupEnv)
}

// SetupWithLookup initialises tracing with settings read through lookup.
//
// Tracing is opt-in: when GAMEKEEPER_OTEL_ENDPOINT is empty or
// GAMEKEEPER_OTEL_ENABLED is "false", it returns a no-op shutdown function
// and the global provider is left untouched.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func SetupWithLookup(ctx context.Context, serviceName string, lookup func(string) (string, bool)) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	cfg, err := LoadConfig(lookup)
	if err != nil {
		return noop, err
	}
	if !cfg.Active() {
		return noop, nil
	}

	res, err := NewResource(ctx, serviceName)
	if err != nil {
		return noop, err
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(cfg.Endpoint)),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
