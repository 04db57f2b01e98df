package deletion

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

// Purge permanently removes every row of kind flagged as deleted.
//
// An empty deleted set is reported as OutcomeNothingToPurge with a nil error,
// so re-running a purge is always safe. Rows still flagged after the delete
// fail the purge with VERIFICATION_FAILED and nothing is removed.
func (s *Service) Purge(ctx context.Context, kind roster.Kind) (PurgeResult, error) {
	result := PurgeResult{Kind: kind, Outcome: OutcomeFailed}
	ctx, span := s.tracer.Start(ctx, "roster.deletion.purge", trace.WithAttributes(
		attribute.String("roster.kind", kind.String()),
	))
	defer span.End()

	if !kind.Valid() {
		return result, failSpan(span, roster.ErrInvalidKind(kind.String()))
	}

	var outcome Outcome
	var removed int64
	err := s.store.InDeletionTx(ctx, func(tx storage.DeletionStore) error {
		flagged, err := tx.CountDeleted(ctx, kind)
		if err != nil {
			return fmt.Errorf("count deleted %s rows: %w", kind, err)
		}
		if flagged == 0 {
			outcome = OutcomeNothingToPurge
			return nil
		}

		deleted, err := tx.DeleteMarked(ctx, kind)
		if err != nil {
			return fmt.Errorf("delete marked %s rows: %w", kind, err)
		}

		remaining, err := tx.CountDeleted(ctx, kind)
		if err != nil {
			return fmt.Errorf("recount deleted %s rows: %w", kind, err)
		}
		if remaining != 0 {
			return apperrors.WithMetadata(
				apperrors.CodeVerificationFailed,
				fmt.Sprintf("%d deleted %s rows remain after purge", remaining, kind),
				map[string]string{"Kind": kind.String(), "Remaining": strconv.FormatInt(remaining, 10)},
			)
		}

		record := s.auditRecord(ctx, OperationPurge, kind, OutcomePurged)
		record.RowsAffected = deleted
		if err := tx.AppendDeletionAudit(ctx, record); err != nil {
			return fmt.Errorf("audit purge %s: %w", kind, err)
		}
		outcome = OutcomePurged
		removed = deleted
		return nil
	})
	if err != nil {
		return result, failSpan(span, err)
	}

	result.Outcome = outcome
	result.Removed = removed
	span.SetAttributes(
		attribute.String("roster.outcome", string(outcome)),
		attribute.Int64("roster.removed", removed),
	)
	return result, nil
}

// PurgeAll purges player, character, and live_character in that order. Every
// kind is attempted regardless of earlier failures; the returned error joins
// all per-kind failures.
func (s *Service) PurgeAll(ctx context.Context) (PurgeAllReport, error) {
	ctx, span := s.tracer.Start(ctx, "roster.deletion.purge_all")
	defer span.End()

	var report PurgeAllReport
	var errs []error
	for _, kind := range roster.Kinds() {
		result, err := s.Purge(ctx, kind)
		if err != nil {
			result.Err = err
			errs = append(errs, fmt.Errorf("purge %s: %w", kind, err))
		}
		report.Results = append(report.Results, result)
	}
	span.SetAttributes(attribute.Int64("roster.removed", report.Removed()))
	if len(errs) > 0 {
		return report, failSpan(span, errors.Join(errs...))
	}
	return report, nil
}
