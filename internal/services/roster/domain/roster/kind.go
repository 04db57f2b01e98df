package roster

import (
	"strings"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
)

// Kind identifies one of the roster entity tables.
type Kind int

const (
	// KindUnspecified is the zero value and never names a table.
	KindUnspecified Kind = iota
	KindPlayer
	KindCharacter
	KindLiveCharacter
)

// kinds lists every valid kind in purge order.
var kinds = []Kind{KindPlayer, KindCharacter, KindLiveCharacter}

// Kinds returns every valid kind in the fixed purge order: player, character,
// live_character.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindCharacter:
		return "character"
	case KindLiveCharacter:
		return "live_character"
	default:
		return "unspecified"
	}
}

// Valid reports whether k names a roster table.
func (k Kind) Valid() bool {
	switch k {
	case KindPlayer, KindCharacter, KindLiveCharacter:
		return true
	default:
		return false
	}
}

// CascadesToLive reports whether deletion-flag writes on this kind must be
// mirrored onto the linked live character.
func (k Kind) CascadesToLive() bool {
	return k == KindCharacter
}

// ParseKind maps a wire name to a Kind. Plural forms and dashes are accepted
// so HTTP paths such as /v1/live-characters resolve.
func ParseKind(value string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "player", "players":
		return KindPlayer, nil
	case "character", "characters":
		return KindCharacter, nil
	case "live_character", "live_characters":
		return KindLiveCharacter, nil
	}
	return KindUnspecified, ErrInvalidKind(value)
}

// ErrInvalidKind builds the error returned for an unrecognized kind.
func ErrInvalidKind(value string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidKind,
		"invalid entity kind",
		map[string]string{"Kind": value},
	)
}
