package deletion

import (
	"context"
	"fmt"
	"maps"
	"testing"
	"time"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

// fakeStore is an in-memory storage.DeletionStore with snapshot-based
// transactions and injectable faults.
type fakeStore struct {
	flags map[roster.Kind]map[int64]bool
	// links maps character id to live character id.
	links map[int64]int64
	audit []storage.DeletionAuditRecord

	// ignoreWrites makes SetDeletedFlag report success without writing.
	ignoreWrites map[roster.Kind]bool
	// deleteMarkedNoop makes DeleteMarked report success without deleting.
	deleteMarkedNoop map[roster.Kind]bool
	existsErr        error
	countErr         map[roster.Kind]error
	auditErr         error

	// affected overrides the row count SetDeletedFlag reports for a kind.
	affected map[roster.Kind]int64

	calls   []string
	txCount int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		flags: map[roster.Kind]map[int64]bool{
			roster.KindPlayer:        {},
			roster.KindCharacter:     {},
			roster.KindLiveCharacter: {},
		},
		links:            map[int64]int64{},
		ignoreWrites:     map[roster.Kind]bool{},
		deleteMarkedNoop: map[roster.Kind]bool{},
		affected:         map[roster.Kind]int64{},
		countErr:         map[roster.Kind]error{},
	}
}

func (f *fakeStore) put(kind roster.Kind, id int64, deleted bool) {
	f.flags[kind][id] = deleted
}

func (f *fakeStore) link(characterID, liveID int64, deleted bool) {
	f.put(roster.KindLiveCharacter, liveID, deleted)
	f.links[characterID] = liveID
}

func (f *fakeStore) flag(kind roster.Kind, id int64) (bool, bool) {
	deleted, ok := f.flags[kind][id]
	return deleted, ok
}

func (f *fakeStore) snapshot() map[roster.Kind]map[int64]bool {
	out := make(map[roster.Kind]map[int64]bool, len(f.flags))
	for kind, rows := range f.flags {
		out[kind] = maps.Clone(rows)
	}
	return out
}

func (f *fakeStore) InDeletionTx(_ context.Context, fn func(storage.DeletionStore) error) error {
	f.txCount++
	saved := f.snapshot()
	savedAudit := len(f.audit)
	if err := fn(f); err != nil {
		f.flags = saved
		f.audit = f.audit[:savedAudit]
		return err
	}
	return nil
}

func (f *fakeStore) Exists(_ context.Context, kind roster.Kind, id int64) (bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("exists %s %d", kind, id))
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.flag(kind, id)
	return ok, nil
}

func (f *fakeStore) GetDeletedFlag(_ context.Context, kind roster.Kind, id int64) (bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("get %s %d", kind, id))
	deleted, ok := f.flag(kind, id)
	if !ok {
		return false, storage.ErrNotFound
	}
	return deleted, nil
}

func (f *fakeStore) SetDeletedFlag(_ context.Context, kind roster.Kind, id int64, deleted bool, _ time.Time) (int64, error) {
	f.calls = append(f.calls, fmt.Sprintf("set %s %d %t", kind, id, deleted))
	if _, ok := f.flag(kind, id); !ok {
		return 0, nil
	}
	if !f.ignoreWrites[kind] {
		f.flags[kind][id] = deleted
	}
	if affected, ok := f.affected[kind]; ok {
		return affected, nil
	}
	return 1, nil
}

func (f *fakeStore) FindLiveInstance(_ context.Context, characterID int64) (int64, bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("live %d", characterID))
	liveID, ok := f.links[characterID]
	return liveID, ok, nil
}

func (f *fakeStore) CountDeleted(_ context.Context, kind roster.Kind) (int64, error) {
	f.calls = append(f.calls, fmt.Sprintf("count %s", kind))
	if err := f.countErr[kind]; err != nil {
		return 0, err
	}
	var count int64
	for _, deleted := range f.flags[kind] {
		if deleted {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) DeleteMarked(_ context.Context, kind roster.Kind) (int64, error) {
	f.calls = append(f.calls, fmt.Sprintf("delete %s", kind))
	var removed int64
	for id, deleted := range f.flags[kind] {
		if !deleted {
			continue
		}
		removed++
		if !f.deleteMarkedNoop[kind] {
			delete(f.flags[kind], id)
		}
	}
	return removed, nil
}

func (f *fakeStore) AppendDeletionAudit(_ context.Context, record storage.DeletionAuditRecord) error {
	if f.auditErr != nil {
		return f.auditErr
	}
	f.audit = append(f.audit, record)
	return nil
}

func (f *fakeStore) ListDeletionAudit(_ context.Context, _ int) ([]storage.DeletionAuditRecord, error) {
	return f.audit, nil
}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store *fakeStore, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	service, err := NewService(store, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}
