package deletion

import "github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"

// Operation names a journaled deletion operation.
type Operation string

const (
	OperationMark   Operation = "mark"
	OperationUnmark Operation = "unmark"
	OperationPurge  Operation = "purge"
)

func operationFor(wantDeleted bool) Operation {
	if wantDeleted {
		return OperationMark
	}
	return OperationUnmark
}

// Outcome describes how an operation ended.
type Outcome string

const (
	OutcomeDeleted        Outcome = "deleted"
	OutcomeRestored       Outcome = "restored"
	OutcomePurged         Outcome = "purged"
	OutcomeNothingToPurge Outcome = "nothing_to_purge"
	OutcomeFailed         Outcome = "failed"
)

func flagOutcome(deleted bool) Outcome {
	if deleted {
		return OutcomeDeleted
	}
	return OutcomeRestored
}

// PurgeResult reports a purge of one kind.
type PurgeResult struct {
	Kind    roster.Kind
	Outcome Outcome
	// Removed counts the rows physically deleted.
	Removed int64
	// Err is set only on results gathered by PurgeAll.
	Err error
}

// Purged reports whether rows were removed.
func (r PurgeResult) Purged() bool {
	return r.Outcome == OutcomePurged
}

// PurgeAllReport collects one result per kind in purge order.
type PurgeAllReport struct {
	Results []PurgeResult
}

// Removed sums the rows removed across all kinds.
func (r PurgeAllReport) Removed() int64 {
	var total int64
	for _, result := range r.Results {
		total += result.Removed
	}
	return total
}

// Failed reports whether any kind failed to purge.
func (r PurgeAllReport) Failed() bool {
	for _, result := range r.Results {
		if result.Err != nil {
			return true
		}
	}
	return false
}
