package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

// Result summarizes an applied manifest.
type Result struct {
	Players        int `json:"players"`
	Characters     int `json:"characters"`
	LiveCharacters int `json:"live_characters"`
}

// Load decodes a manifest from r and applies it to store.
func Load(ctx context.Context, store storage.RosterTransactor, r io.Reader) (Result, error) {
	manifest, err := DecodeManifest(r)
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, store, manifest)
}

// LoadFile opens path and applies the manifest it contains.
func LoadFile(ctx context.Context, store storage.RosterTransactor, path string) (Result, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Result{}, errors.New("manifest path is required")
	}
	file, err := os.Open(trimmed)
	if err != nil {
		return Result{}, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()
	return Load(ctx, store, file)
}

// Apply validates manifest and upserts every row in one transaction. Nothing
// is written when validation or any upsert fails.
func Apply(ctx context.Context, store storage.RosterTransactor, manifest Manifest) (Result, error) {
	if store == nil {
		return Result{}, errors.New("roster store is required")
	}
	if err := ValidateManifest(manifest); err != nil {
		return Result{}, err
	}

	err := store.InRosterTx(ctx, func(tx storage.RosterStore) error {
		for _, player := range manifest.Players {
			if err := tx.PutPlayer(ctx, roster.Player{
				ID:          player.ID,
				DisplayName: player.DisplayName,
				Deleted:     player.Deleted,
			}); err != nil {
				return fmt.Errorf("put player %d: %w", player.ID, err)
			}
		}
		for _, character := range manifest.Characters {
			if err := tx.PutCharacter(ctx, roster.Character{
				ID:       character.ID,
				PlayerID: character.PlayerID,
				Name:     character.Name,
				Deleted:  character.Deleted,
			}); err != nil {
				return fmt.Errorf("put character %d: %w", character.ID, err)
			}
		}
		for _, live := range manifest.LiveCharacters {
			if err := tx.PutLiveCharacter(ctx, roster.LiveCharacter{
				ID:          live.ID,
				CharacterID: live.CharacterID,
				Deleted:     live.Deleted,
			}); err != nil {
				return fmt.Errorf("put live character %d: %w", live.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Players:        len(manifest.Players),
		Characters:     len(manifest.Characters),
		LiveCharacters: len(manifest.LiveCharacters),
	}, nil
}
