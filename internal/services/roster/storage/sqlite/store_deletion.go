package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

// tableSpec names the table and primary-key column backing a kind.
type tableSpec struct {
	table    string
	idColumn string
}

var tableSpecs = map[roster.Kind]tableSpec{
	roster.KindPlayer:        {table: "players", idColumn: "player_id"},
	roster.KindCharacter:     {table: "characters", idColumn: "char_id"},
	roster.KindLiveCharacter: {table: "live_characters", idColumn: "live_char_id"},
}

// kindQueries holds the flag and purge statements for one table. They are
// built once from tableSpecs; only values are bound at call time.
type kindQueries struct {
	exists       string
	getDeleted   string
	setDeleted   string
	countDeleted string
	deleteMarked string
}

var queriesByKind = buildKindQueries(tableSpecs)

func buildKindQueries(specs map[roster.Kind]tableSpec) map[roster.Kind]kindQueries {
	out := make(map[roster.Kind]kindQueries, len(specs))
	for kind, spec := range specs {
		out[kind] = kindQueries{
			exists:       "SELECT 1 FROM " + spec.table + " WHERE " + spec.idColumn + " = ?",
			getDeleted:   "SELECT deleted FROM " + spec.table + " WHERE " + spec.idColumn + " = ?",
			setDeleted:   "UPDATE " + spec.table + " SET deleted = ?, updated_at = ? WHERE " + spec.idColumn + " = ?",
			countDeleted: "SELECT COUNT(*) FROM " + spec.table + " WHERE deleted = 1",
			deleteMarked: "DELETE FROM " + spec.table + " WHERE deleted = 1",
		}
	}
	return out
}

func queriesFor(kind roster.Kind) (kindQueries, error) {
	queries, ok := queriesByKind[kind]
	if !ok {
		return kindQueries{}, roster.ErrInvalidKind(kind.String())
	}
	return queries, nil
}

// Exists reports whether a row with id exists in the table for kind.
func (s *Store) Exists(ctx context.Context, kind roster.Kind, id int64) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	queries, err := queriesFor(kind)
	if err != nil {
		return false, err
	}

	var found int
	err = s.q.QueryRowContext(ctx, queries.exists, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s %d exists: %w", kind, id, err)
	}
	return true, nil
}

// GetDeletedFlag returns the deleted flag of a row.
func (s *Store) GetDeletedFlag(ctx context.Context, kind roster.Kind, id int64) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	queries, err := queriesFor(kind)
	if err != nil {
		return false, err
	}

	var deleted bool
	err = s.q.QueryRowContext(ctx, queries.getDeleted, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, storage.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("get %s %d deleted flag: %w", kind, id, err)
	}
	return deleted, nil
}

// SetDeletedFlag writes the deleted flag of a row and returns rows affected.
func (s *Store) SetDeletedFlag(ctx context.Context, kind roster.Kind, id int64, deleted bool, at time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	queries, err := queriesFor(kind)
	if err != nil {
		return 0, err
	}
	if at.IsZero() {
		at = s.now()
	}

	result, err := s.q.ExecContext(ctx, queries.setDeleted, boolToInt(deleted), toMillis(at), id)
	if err != nil {
		return 0, fmt.Errorf("set %s %d deleted flag: %w", kind, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set %s %d deleted flag rows: %w", kind, id, err)
	}
	return affected, nil
}

// FindLiveInstance resolves the live character linked to a character.
func (s *Store) FindLiveInstance(ctx context.Context, characterID int64) (int64, bool, error) {
	if err := s.ready(ctx); err != nil {
		return 0, false, err
	}

	var liveID int64
	err := s.q.QueryRowContext(ctx,
		"SELECT live_char_id FROM live_characters WHERE char_id = ?",
		characterID,
	).Scan(&liveID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find live instance for character %d: %w", characterID, err)
	}
	return liveID, true, nil
}

// CountDeleted returns the number of rows flagged as deleted for kind.
func (s *Store) CountDeleted(ctx context.Context, kind roster.Kind) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	queries, err := queriesFor(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.q.QueryRowContext(ctx, queries.countDeleted).Scan(&count); err != nil {
		return 0, fmt.Errorf("count deleted %s rows: %w", kind, err)
	}
	return count, nil
}

// DeleteMarked permanently removes every row flagged as deleted for kind.
func (s *Store) DeleteMarked(ctx context.Context, kind roster.Kind) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	queries, err := queriesFor(kind)
	if err != nil {
		return 0, err
	}

	result, err := s.q.ExecContext(ctx, queries.deleteMarked)
	if err != nil {
		return 0, fmt.Errorf("delete marked %s rows: %w", kind, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete marked %s rows affected: %w", kind, err)
	}
	return affected, nil
}
