package maintenance

import (
	"context"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage/sqlite"
)

// closableRosterStore is the store surface maintenance needs, plus Close for
// resource cleanup.
type closableRosterStore interface {
	storage.Transactor
	storage.RosterTransactor
	CountDeleted(ctx context.Context, kind roster.Kind) (int64, error)
	Close() error
}

// openRosterStore opens the roster database; tests replace it.
var openRosterStore = func(path string) (closableRosterStore, error) {
	return sqlite.Open(path)
}
