package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
)

// Manifest defines one roster fixture.
type Manifest struct {
	Players        []ManifestPlayer        `json:"players"`
	Characters     []ManifestCharacter     `json:"characters"`
	LiveCharacters []ManifestLiveCharacter `json:"live_characters"`
}

// ManifestPlayer defines one player row.
type ManifestPlayer struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
}

// ManifestCharacter defines one character row.
type ManifestCharacter struct {
	ID       int64  `json:"id"`
	PlayerID int64  `json:"player_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Deleted  bool   `json:"deleted,omitempty"`
}

// ManifestLiveCharacter defines one live character row.
type ManifestLiveCharacter struct {
	ID          int64 `json:"id"`
	CharacterID int64 `json:"character_id"`
	Deleted     bool  `json:"deleted,omitempty"`
}

// Records counts the rows declared by the manifest.
func (m Manifest) Records() int {
	return len(m.Players) + len(m.Characters) + len(m.LiveCharacters)
}

// DecodeManifest reads one JSON manifest. Unknown fields are rejected.
func DecodeManifest(r io.Reader) (Manifest, error) {
	if r == nil {
		return Manifest{}, errors.New("manifest reader is required")
	}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var manifest Manifest
	if err := decoder.Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if decoder.More() {
		return Manifest{}, errors.New("decode manifest: trailing data after manifest")
	}
	return manifest, nil
}

// ValidateManifest checks ids and live character links. A live character
// linked to a character in the same manifest must carry the same deleted
// flag.
func ValidateManifest(manifest Manifest) error {
	players := make(map[int64]struct{}, len(manifest.Players))
	for i, player := range manifest.Players {
		if player.ID <= 0 {
			return invalidRecord("players", i, "id must be positive")
		}
		if _, ok := players[player.ID]; ok {
			return invalidRecord("players", i, "duplicate id "+strconv.FormatInt(player.ID, 10))
		}
		players[player.ID] = struct{}{}
	}

	characters := make(map[int64]bool, len(manifest.Characters))
	for i, character := range manifest.Characters {
		if character.ID <= 0 {
			return invalidRecord("characters", i, "id must be positive")
		}
		if _, ok := characters[character.ID]; ok {
			return invalidRecord("characters", i, "duplicate id "+strconv.FormatInt(character.ID, 10))
		}
		characters[character.ID] = character.Deleted
	}

	lives := make(map[int64]struct{}, len(manifest.LiveCharacters))
	linked := make(map[int64]int64, len(manifest.LiveCharacters))
	for i, live := range manifest.LiveCharacters {
		if live.ID <= 0 {
			return invalidRecord("live_characters", i, "id must be positive")
		}
		if live.CharacterID <= 0 {
			return invalidRecord("live_characters", i, "character_id must be positive")
		}
		if _, ok := lives[live.ID]; ok {
			return invalidRecord("live_characters", i, "duplicate id "+strconv.FormatInt(live.ID, 10))
		}
		if other, ok := linked[live.CharacterID]; ok {
			return invalidRecord("live_characters", i, fmt.Sprintf("character %d already linked to live character %d", live.CharacterID, other))
		}
		if deleted, ok := characters[live.CharacterID]; ok && deleted != live.Deleted {
			return invalidRecord("live_characters", i, fmt.Sprintf("deleted=%t differs from character %d deleted=%t", live.Deleted, live.CharacterID, deleted))
		}
		lives[live.ID] = struct{}{}
		linked[live.CharacterID] = live.ID
	}
	return nil
}

func invalidRecord(section string, index int, reason string) error {
	return apperrors.WithMetadata(
		apperrors.CodeSeedInvalidRecord,
		fmt.Sprintf("%s[%d]: %s", section, index, reason),
		map[string]string{"Section": section, "Index": strconv.Itoa(index)},
	)
}
