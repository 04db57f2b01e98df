package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

const defaultAuditListLimit = 100

// AppendDeletionAudit records one mark, unmark, or purge.
func (s *Store) AppendDeletionAudit(ctx context.Context, record storage.DeletionAuditRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(record.Operation) == "" {
		return fmt.Errorf("audit operation is required")
	}
	if !record.Kind.Valid() {
		return roster.ErrInvalidKind(record.Kind.String())
	}
	if strings.TrimSpace(record.Outcome) == "" {
		return fmt.Errorf("audit outcome is required")
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}

	_, err := s.q.ExecContext(ctx, `
INSERT INTO deletion_audit (
    timestamp, operation, kind, target_id, rows_affected, outcome, actor_id, request_id, trace_id, span_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		toMillis(record.Timestamp),
		record.Operation,
		record.Kind.String(),
		toNullInt64(record.TargetID),
		record.RowsAffected,
		record.Outcome,
		toNullString(record.ActorID),
		toNullString(record.RequestID),
		toNullString(record.TraceID),
		toNullString(record.SpanID),
	)
	if err != nil {
		return fmt.Errorf("append deletion audit: %w", err)
	}
	return nil
}

// ListDeletionAudit returns the most recent audit rows, newest first.
func (s *Store) ListDeletionAudit(ctx context.Context, limit int) ([]storage.DeletionAuditRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultAuditListLimit
	}

	rows, err := s.q.QueryContext(ctx, `
SELECT id, timestamp, operation, kind, target_id, rows_affected, outcome, actor_id, request_id, trace_id, span_id
FROM deletion_audit
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list deletion audit: %w", err)
	}
	defer rows.Close()

	var records []storage.DeletionAuditRecord
	for rows.Next() {
		var (
			record    storage.DeletionAuditRecord
			timestamp int64
			kind      string
			targetID  sql.NullInt64
			actorID   sql.NullString
			requestID sql.NullString
			traceID   sql.NullString
			spanID    sql.NullString
		)
		if err := rows.Scan(
			&record.ID,
			&timestamp,
			&record.Operation,
			&kind,
			&targetID,
			&record.RowsAffected,
			&record.Outcome,
			&actorID,
			&requestID,
			&traceID,
			&spanID,
		); err != nil {
			return nil, fmt.Errorf("scan deletion audit: %w", err)
		}
		parsedKind, err := roster.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("scan deletion audit kind: %w", err)
		}
		record.Kind = parsedKind
		record.Timestamp = fromMillis(timestamp)
		record.TargetID = targetID.Int64
		record.ActorID = actorID.String
		record.RequestID = requestID.String
		record.TraceID = traceID.String
		record.SpanID = spanID.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read deletion audit: %w", err)
	}
	return records, nil
}

func toNullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func toNullInt64(value int64) sql.NullInt64 {
	if value == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value, Valid: true}
}
