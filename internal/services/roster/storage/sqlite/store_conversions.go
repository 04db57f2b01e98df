package sqlite

import "github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (roster.Player, error) {
	var (
		player    roster.Player
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&player.ID, &player.DisplayName, &player.Deleted, &createdAt, &updatedAt); err != nil {
		return roster.Player{}, err
	}
	player.CreatedAt = fromMillis(createdAt)
	player.UpdatedAt = fromMillis(updatedAt)
	return player, nil
}

func scanCharacter(row rowScanner) (roster.Character, error) {
	var (
		character roster.Character
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&character.ID, &character.PlayerID, &character.Name, &character.Deleted, &createdAt, &updatedAt); err != nil {
		return roster.Character{}, err
	}
	character.CreatedAt = fromMillis(createdAt)
	character.UpdatedAt = fromMillis(updatedAt)
	return character, nil
}

func scanLiveCharacter(row rowScanner) (roster.LiveCharacter, error) {
	var (
		live      roster.LiveCharacter
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&live.ID, &live.CharacterID, &live.Deleted, &createdAt, &updatedAt); err != nil {
		return roster.LiveCharacter{}, err
	}
	live.CreatedAt = fromMillis(createdAt)
	live.UpdatedAt = fromMillis(updatedAt)
	return live, nil
}
