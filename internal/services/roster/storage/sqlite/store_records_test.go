package sqlite

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

func TestPutPlayerUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutPlayer(ctx, roster.Player{ID: 1, DisplayName: " Ash "}); err != nil {
		t.Fatalf("put player: %v", err)
	}
	if err := store.PutPlayer(ctx, roster.Player{ID: 1, DisplayName: "Ashley", Deleted: true}); err != nil {
		t.Fatalf("update player: %v", err)
	}

	player, err := store.GetPlayer(ctx, 1)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if player.DisplayName != "Ashley" || !player.Deleted {
		t.Fatalf("unexpected player %+v", player)
	}
}

func TestPutRejectsInvalidIDs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutPlayer(ctx, roster.Player{}); !apperrors.IsCode(err, apperrors.CodeInvalidID) {
		t.Fatalf("expected invalid id for player, got %v", err)
	}
	if err := store.PutCharacter(ctx, roster.Character{ID: -1}); !apperrors.IsCode(err, apperrors.CodeInvalidID) {
		t.Fatalf("expected invalid id for character, got %v", err)
	}
	if err := store.PutLiveCharacter(ctx, roster.LiveCharacter{ID: 50}); !apperrors.IsCode(err, apperrors.CodeInvalidID) {
		t.Fatalf("expected invalid character id for live character, got %v", err)
	}
}

func TestLiveCharacterLinkIsUnique(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 5, 1, false)
	seedLive(t, store, 50, 5, false)

	if err := store.PutLiveCharacter(ctx, roster.LiveCharacter{ID: 51, CharacterID: 5}); err == nil {
		t.Fatal("expected second live instance for the same character to fail")
	}
}

func TestGetMissingRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.GetPlayer(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected player not found, got %v", err)
	}
	if _, err := store.GetCharacter(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected character not found, got %v", err)
	}
	if _, err := store.GetLiveCharacter(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected live character not found, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 7, 1, true)
	seedCharacter(t, store, 5, 1, false)
	seedCharacter(t, store, 6, 2, true)

	tests := []struct {
		filter roster.Filter
		want   []int64
	}{
		{filter: roster.FilterAll, want: []int64{5, 6, 7}},
		{filter: roster.FilterActive, want: []int64{5}},
		{filter: roster.FilterDeleted, want: []int64{6, 7}},
	}
	for _, tc := range tests {
		characters, err := store.ListCharacters(ctx, tc.filter)
		if err != nil {
			t.Fatalf("list %s: %v", tc.filter, err)
		}
		if len(characters) != len(tc.want) {
			t.Fatalf("list %s: expected %d rows, got %d", tc.filter, len(tc.want), len(characters))
		}
		for i, id := range tc.want {
			if characters[i].ID != id {
				t.Fatalf("list %s: row %d expected id %d, got %d", tc.filter, i, id, characters[i].ID)
			}
		}
	}
}

func TestListLiveCharactersAndPlayers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedPlayer(t, store, 1, false)
	seedCharacter(t, store, 5, 1, false)
	seedLive(t, store, 50, 5, true)

	lives, err := store.ListLiveCharacters(ctx, roster.FilterDeleted)
	if err != nil {
		t.Fatalf("list live characters: %v", err)
	}
	if len(lives) != 1 || lives[0].CharacterID != 5 {
		t.Fatalf("unexpected live characters %+v", lives)
	}

	players, err := store.ListPlayers(ctx, roster.FilterDeleted)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("expected no deleted players, got %+v", players)
	}
}

func TestInRosterTxRollsBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.InRosterTx(ctx, func(tx storage.RosterStore) error {
		if err := tx.PutPlayer(ctx, roster.Player{ID: 1}); err != nil {
			return err
		}
		return tx.PutPlayer(ctx, roster.Player{ID: 0})
	})
	if !apperrors.IsCode(err, apperrors.CodeInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	if _, err := store.GetPlayer(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected rolled back player, got %v", err)
	}
}
