package deletion

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

const instrumentationName = "github.com/louisbranch/gamekeeper/internal/services/roster/domain/deletion"

// Service runs mark, unmark, and purge operations against a roster store.
type Service struct {
	store  storage.Transactor
	tracer trace.Tracer
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider selects the tracer provider used for operation spans.
// The global provider is used by default.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Service) {
		if provider != nil {
			s.tracer = provider.Tracer(instrumentationName)
		}
	}
}

// WithClock overrides the clock used for updated_at and audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a deletion service over store.
func NewService(store storage.Transactor, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("deletion store is required")
	}
	service := &Service{
		store:  store,
		tracer: otel.Tracer(instrumentationName),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	return service, nil
}
