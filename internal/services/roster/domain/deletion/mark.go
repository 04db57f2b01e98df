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

// MarkForDeletion sets the deleted flag of a row and cascades to the linked
// live character when kind is character.
func (s *Service) MarkForDeletion(ctx context.Context, kind roster.Kind, id int64) (bool, error) {
	return s.SetDeletion(ctx, kind, id, true)
}

// UnmarkForDeletion clears the deleted flag of a row and cascades to the
// linked live character when kind is character.
func (s *Service) UnmarkForDeletion(ctx context.Context, kind roster.Kind, id int64) (bool, error) {
	return s.SetDeletion(ctx, kind, id, false)
}

// SetDeletion drives the deleted flag of one row to wantDeleted and returns
// the re-read flag value.
//
// Invalid kinds and ids fail before any storage access. A missing row fails
// with NOT_FOUND and nothing is written. Character writes always re-assert
// the live instance flag, including when the character already held
// wantDeleted. A re-read that disagrees with wantDeleted fails with
// VERIFICATION_FAILED and the transaction is rolled back.
func (s *Service) SetDeletion(ctx context.Context, kind roster.Kind, id int64, wantDeleted bool) (bool, error) {
	op := operationFor(wantDeleted)
	ctx, span := s.tracer.Start(ctx, "roster.deletion."+string(op), trace.WithAttributes(
		attribute.String("roster.kind", kind.String()),
		attribute.Int64("roster.id", id),
		attribute.Bool("roster.want_deleted", wantDeleted),
	))
	defer span.End()

	if !kind.Valid() {
		return false, failSpan(span, roster.ErrInvalidKind(kind.String()))
	}
	if err := roster.ValidateID(id); err != nil {
		return false, failSpan(span, err)
	}

	var verified bool
	err := s.store.InDeletionTx(ctx, func(tx storage.DeletionStore) error {
		exists, err := tx.Exists(ctx, kind, id)
		if err != nil {
			return fmt.Errorf("check %s %d: %w", kind, id, err)
		}
		if !exists {
			return errNotFound(kind, id)
		}

		current, err := tx.GetDeletedFlag(ctx, kind, id)
		if errors.Is(err, storage.ErrNotFound) {
			return errNotFound(kind, id)
		}
		if err != nil {
			return fmt.Errorf("read %s %d: %w", kind, id, err)
		}

		now := s.now().UTC()
		var written int64
		if current != wantDeleted {
			affected, err := tx.SetDeletedFlag(ctx, kind, id, wantDeleted, now)
			if err != nil {
				return fmt.Errorf("write %s %d: %w", kind, id, err)
			}
			written += affected
		}

		liveID, cascaded, linked, err := s.cascade(ctx, tx, kind, id, wantDeleted)
		if err != nil {
			return err
		}
		written += cascaded
		if linked {
			span.SetAttributes(attribute.Int64("roster.live_char_id", liveID))
		}

		got, err := tx.GetDeletedFlag(ctx, kind, id)
		if err != nil {
			return fmt.Errorf("verify %s %d: %w", kind, id, err)
		}
		if got != wantDeleted {
			return errVerification(kind, id, wantDeleted, got)
		}
		if linked {
			liveGot, err := tx.GetDeletedFlag(ctx, roster.KindLiveCharacter, liveID)
			if err != nil {
				return fmt.Errorf("verify %s %d: %w", roster.KindLiveCharacter, liveID, err)
			}
			if liveGot != wantDeleted {
				return errVerification(roster.KindLiveCharacter, liveID, wantDeleted, liveGot)
			}
		}
		verified = got

		record := s.auditRecord(ctx, op, kind, flagOutcome(got))
		record.TargetID = id
		record.RowsAffected = written
		if err := tx.AppendDeletionAudit(ctx, record); err != nil {
			return fmt.Errorf("audit %s %s %d: %w", op, kind, id, err)
		}
		return nil
	})
	if err != nil {
		return false, failSpan(span, err)
	}
	return verified, nil
}

// cascade re-asserts wantDeleted on the live instance linked to a character
// and returns the live id and the rows the write affected. Kinds without a
// cascade target, and characters with no live instance, are skipped.
func (s *Service) cascade(ctx context.Context, tx storage.DeletionStore, kind roster.Kind, id int64, wantDeleted bool) (int64, int64, bool, error) {
	if !kind.CascadesToLive() {
		return 0, 0, false, nil
	}
	liveID, ok, err := tx.FindLiveInstance(ctx, id)
	if err != nil {
		return 0, 0, false, fmt.Errorf("resolve live instance for %s %d: %w", kind, id, err)
	}
	if !ok {
		return 0, 0, false, nil
	}
	affected, err := tx.SetDeletedFlag(ctx, roster.KindLiveCharacter, liveID, wantDeleted, s.now().UTC())
	if err != nil {
		return 0, 0, false, fmt.Errorf("cascade to %s %d: %w", roster.KindLiveCharacter, liveID, err)
	}
	return liveID, affected, true, nil
}

func errNotFound(kind roster.Kind, id int64) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("%s %d not found", kind, id),
		map[string]string{"Kind": kind.String(), "ID": strconv.FormatInt(id, 10)},
	)
}

func errVerification(kind roster.Kind, id int64, want, got bool) error {
	return apperrors.WithMetadata(
		apperrors.CodeVerificationFailed,
		fmt.Sprintf("%s %d deleted flag is %t after writing %t", kind, id, got, want),
		map[string]string{"Kind": kind.String(), "ID": strconv.FormatInt(id, 10)},
	)
}
