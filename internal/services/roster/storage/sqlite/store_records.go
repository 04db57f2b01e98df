package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

// filterClause returns the WHERE fragment for a deletion filter.
func filterClause(filter roster.Filter) string {
	switch filter {
	case roster.FilterActive:
		return " WHERE deleted = 0"
	case roster.FilterDeleted:
		return " WHERE deleted = 1"
	default:
		return ""
	}
}

// PutPlayer inserts or replaces a player row.
func (s *Store) PutPlayer(ctx context.Context, player roster.Player) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := roster.ValidateID(player.ID); err != nil {
		return err
	}
	createdAt, updatedAt := s.stamps(player.CreatedAt, player.UpdatedAt)

	_, err := s.q.ExecContext(ctx, `
INSERT INTO players (player_id, display_name, deleted, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(player_id) DO UPDATE SET
    display_name = excluded.display_name,
    deleted = excluded.deleted,
    updated_at = excluded.updated_at`,
		player.ID,
		strings.TrimSpace(player.DisplayName),
		boolToInt(player.Deleted),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put player %d: %w", player.ID, err)
	}
	return nil
}

// PutCharacter inserts or replaces a character row.
func (s *Store) PutCharacter(ctx context.Context, character roster.Character) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := roster.ValidateID(character.ID); err != nil {
		return err
	}
	createdAt, updatedAt := s.stamps(character.CreatedAt, character.UpdatedAt)

	_, err := s.q.ExecContext(ctx, `
INSERT INTO characters (char_id, player_id, name, deleted, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(char_id) DO UPDATE SET
    player_id = excluded.player_id,
    name = excluded.name,
    deleted = excluded.deleted,
    updated_at = excluded.updated_at`,
		character.ID,
		character.PlayerID,
		strings.TrimSpace(character.Name),
		boolToInt(character.Deleted),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put character %d: %w", character.ID, err)
	}
	return nil
}

// PutLiveCharacter inserts or replaces a live character row.
func (s *Store) PutLiveCharacter(ctx context.Context, live roster.LiveCharacter) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := roster.ValidateID(live.ID); err != nil {
		return err
	}
	if err := roster.ValidateID(live.CharacterID); err != nil {
		return fmt.Errorf("live character %d character id: %w", live.ID, err)
	}
	createdAt, updatedAt := s.stamps(live.CreatedAt, live.UpdatedAt)

	_, err := s.q.ExecContext(ctx, `
INSERT INTO live_characters (live_char_id, char_id, deleted, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(live_char_id) DO UPDATE SET
    char_id = excluded.char_id,
    deleted = excluded.deleted,
    updated_at = excluded.updated_at`,
		live.ID,
		live.CharacterID,
		boolToInt(live.Deleted),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put live character %d: %w", live.ID, err)
	}
	return nil
}

// GetPlayer returns a player row or storage.ErrNotFound.
func (s *Store) GetPlayer(ctx context.Context, id int64) (roster.Player, error) {
	if err := s.ready(ctx); err != nil {
		return roster.Player{}, err
	}
	row := s.q.QueryRowContext(ctx,
		"SELECT player_id, display_name, deleted, created_at, updated_at FROM players WHERE player_id = ?", id)
	player, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Player{}, storage.ErrNotFound
	}
	if err != nil {
		return roster.Player{}, fmt.Errorf("get player %d: %w", id, err)
	}
	return player, nil
}

// GetCharacter returns a character row or storage.ErrNotFound.
func (s *Store) GetCharacter(ctx context.Context, id int64) (roster.Character, error) {
	if err := s.ready(ctx); err != nil {
		return roster.Character{}, err
	}
	row := s.q.QueryRowContext(ctx,
		"SELECT char_id, player_id, name, deleted, created_at, updated_at FROM characters WHERE char_id = ?", id)
	character, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Character{}, storage.ErrNotFound
	}
	if err != nil {
		return roster.Character{}, fmt.Errorf("get character %d: %w", id, err)
	}
	return character, nil
}

// GetLiveCharacter returns a live character row or storage.ErrNotFound.
func (s *Store) GetLiveCharacter(ctx context.Context, id int64) (roster.LiveCharacter, error) {
	if err := s.ready(ctx); err != nil {
		return roster.LiveCharacter{}, err
	}
	row := s.q.QueryRowContext(ctx,
		"SELECT live_char_id, char_id, deleted, created_at, updated_at FROM live_characters WHERE live_char_id = ?", id)
	live, err := scanLiveCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.LiveCharacter{}, storage.ErrNotFound
	}
	if err != nil {
		return roster.LiveCharacter{}, fmt.Errorf("get live character %d: %w", id, err)
	}
	return live, nil
}

// ListPlayers returns players matching filter ordered by id.
func (s *Store) ListPlayers(ctx context.Context, filter roster.Filter) ([]roster.Player, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.q.QueryContext(ctx,
		"SELECT player_id, display_name, deleted, created_at, updated_at FROM players"+filterClause(filter)+" ORDER BY player_id")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []roster.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read players: %w", err)
	}
	return players, nil
}

// ListCharacters returns characters matching filter ordered by id.
func (s *Store) ListCharacters(ctx context.Context, filter roster.Filter) ([]roster.Character, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.q.QueryContext(ctx,
		"SELECT char_id, player_id, name, deleted, created_at, updated_at FROM characters"+filterClause(filter)+" ORDER BY char_id")
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var characters []roster.Character
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read characters: %w", err)
	}
	return characters, nil
}

// ListLiveCharacters returns live characters matching filter ordered by id.
func (s *Store) ListLiveCharacters(ctx context.Context, filter roster.Filter) ([]roster.LiveCharacter, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.q.QueryContext(ctx,
		"SELECT live_char_id, char_id, deleted, created_at, updated_at FROM live_characters"+filterClause(filter)+" ORDER BY live_char_id")
	if err != nil {
		return nil, fmt.Errorf("list live characters: %w", err)
	}
	defer rows.Close()

	var lives []roster.LiveCharacter
	for rows.Next() {
		live, err := scanLiveCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan live character: %w", err)
		}
		lives = append(lives, live)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read live characters: %w", err)
	}
	return lives, nil
}

// stamps fills zero timestamps from the store clock.
func (s *Store) stamps(createdAt, updatedAt time.Time) (time.Time, time.Time) {
	now := s.now()
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return createdAt, updatedAt
}
