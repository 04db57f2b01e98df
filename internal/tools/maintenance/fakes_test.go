package maintenance

import (
	"context"
	"errors"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

// fakeRosterStore fails every transaction with txErr and records Close.
type fakeRosterStore struct {
	txErr    error
	counts   map[roster.Kind]int64
	countErr error
	closeErr error
	closed   bool
}

func (f *fakeRosterStore) InDeletionTx(_ context.Context, _ func(storage.DeletionStore) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return errors.New("not implemented")
}

func (f *fakeRosterStore) InRosterTx(_ context.Context, _ func(storage.RosterStore) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return errors.New("not implemented")
}

func (f *fakeRosterStore) CountDeleted(_ context.Context, kind roster.Kind) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[kind], nil
}

func (f *fakeRosterStore) Close() error {
	f.closed = true
	return f.closeErr
}
