package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.sqlite")
	store, err := Open(path, WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("open roster store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close roster store: %v", err)
		}
	})
	return store
}

func seedPlayer(t *testing.T, store *Store, id int64, deleted bool) {
	t.Helper()
	if err := store.PutPlayer(context.Background(), roster.Player{ID: id, DisplayName: "player", Deleted: deleted}); err != nil {
		t.Fatalf("put player %d: %v", id, err)
	}
}

func seedCharacter(t *testing.T, store *Store, id, playerID int64, deleted bool) {
	t.Helper()
	if err := store.PutCharacter(context.Background(), roster.Character{ID: id, PlayerID: playerID, Name: "hero", Deleted: deleted}); err != nil {
		t.Fatalf("put character %d: %v", id, err)
	}
}

func seedLive(t *testing.T, store *Store, id, characterID int64, deleted bool) {
	t.Helper()
	if err := store.PutLiveCharacter(context.Background(), roster.LiveCharacter{ID: id, CharacterID: characterID, Deleted: deleted}); err != nil {
		t.Fatalf("put live character %d: %v", id, err)
	}
}
