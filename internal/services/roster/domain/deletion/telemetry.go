package deletion

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/gamekeeper/internal/platform/requestctx"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

// failSpan records err on span and returns it unchanged.
func failSpan(span trace.Span, err error) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// auditRecord seeds an audit row with request identity and the active span.
func (s *Service) auditRecord(ctx context.Context, op Operation, kind roster.Kind, outcome Outcome) storage.DeletionAuditRecord {
	record := storage.DeletionAuditRecord{
		Timestamp: s.now().UTC(),
		Operation: string(op),
		Kind:      kind,
		Outcome:   string(outcome),
		ActorID:   requestctx.OperatorFromContext(ctx),
		RequestID: requestctx.RequestIDFromContext(ctx),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.TraceID = sc.TraceID().String()
		record.SpanID = sc.SpanID().String()
	}
	return record
}
