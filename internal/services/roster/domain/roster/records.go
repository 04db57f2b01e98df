package roster

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
)

// Player is a registered player account.
type Player struct {
	ID          int64
	DisplayName string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Character is a character build owned by a player. Ownership is recorded but
// not enforced.
type Character struct {
	ID        int64
	PlayerID  int64
	Name      string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LiveCharacter is the in-play instance of exactly one character.
type LiveCharacter struct {
	ID          int64
	CharacterID int64
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter selects rows by deletion state when listing.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterDeleted
)

// String returns the query-string form of the filter.
func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterDeleted:
		return "deleted"
	default:
		return "all"
	}
}

// ParseFilter maps a query-string value to a Filter; empty means all.
func ParseFilter(value string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "deleted":
		return FilterDeleted, nil
	}
	return FilterAll, apperrors.WithMetadata(
		apperrors.CodeInvalidFilter,
		"invalid deletion filter",
		map[string]string{"Filter": value},
	)
}

// ValidateID rejects non-positive row ids before any storage access.
func ValidateID(id int64) error {
	if id <= 0 {
		return apperrors.New(apperrors.CodeInvalidID, "id must be positive")
	}
	return nil
}
