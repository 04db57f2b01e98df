package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// FlagStore reads and writes the deleted flag of roster rows.
type FlagStore interface {
	// Exists reports whether a row with id exists in the table for kind.
	Exists(ctx context.Context, kind roster.Kind, id int64) (bool, error)
	// GetDeletedFlag returns the deleted flag, or ErrNotFound.
	GetDeletedFlag(ctx context.Context, kind roster.Kind, id int64) (bool, error)
	// SetDeletedFlag writes the deleted flag and returns the rows affected.
	SetDeletedFlag(ctx context.Context, kind roster.Kind, id int64, deleted bool, at time.Time) (int64, error)
	// FindLiveInstance resolves the live character linked to a character.
	FindLiveInstance(ctx context.Context, characterID int64) (int64, bool, error)
}

// PurgeStore counts and removes rows flagged as deleted.
type PurgeStore interface {
	CountDeleted(ctx context.Context, kind roster.Kind) (int64, error)
	DeleteMarked(ctx context.Context, kind roster.Kind) (int64, error)
}

// DeletionAuditRecord is one journaled mark, unmark, or purge.
type DeletionAuditRecord struct {
	ID           int64
	Timestamp    time.Time
	Operation    string
	Kind         roster.Kind
	TargetID     int64 // zero for purges
	RowsAffected int64
	Outcome      string
	ActorID      string
	RequestID    string
	TraceID      string
	SpanID       string
}

// AuditStore journals deletion operations.
type AuditStore interface {
	AppendDeletionAudit(ctx context.Context, record DeletionAuditRecord) error
	ListDeletionAudit(ctx context.Context, limit int) ([]DeletionAuditRecord, error)
}

// DeletionStore is the store surface visible inside one deletion transaction.
type DeletionStore interface {
	FlagStore
	PurgeStore
	AuditStore
}

// Transactor runs fn against a DeletionStore bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InDeletionTx(ctx context.Context, fn func(DeletionStore) error) error
}

// RosterStore provisions and lists roster rows.
type RosterStore interface {
	PutPlayer(ctx context.Context, player roster.Player) error
	PutCharacter(ctx context.Context, character roster.Character) error
	PutLiveCharacter(ctx context.Context, live roster.LiveCharacter) error
	GetPlayer(ctx context.Context, id int64) (roster.Player, error)
	GetCharacter(ctx context.Context, id int64) (roster.Character, error)
	GetLiveCharacter(ctx context.Context, id int64) (roster.LiveCharacter, error)
	ListPlayers(ctx context.Context, filter roster.Filter) ([]roster.Player, error)
	ListCharacters(ctx context.Context, filter roster.Filter) ([]roster.Character, error)
	ListLiveCharacters(ctx context.Context, filter roster.Filter) ([]roster.LiveCharacter, error)
}

// RosterTransactor runs fn against a RosterStore bound to a single transaction.
type RosterTransactor interface {
	InRosterTx(ctx context.Context, fn func(RosterStore) error) error
}

// Store is the full roster persistence surface.
type Store interface {
	DeletionStore
	Transactor
	RosterStore
	RosterTransactor
	Close() error
}
