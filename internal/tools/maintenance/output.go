package maintenance

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/deletion"
	"github.com/louisbranch/gamekeeper/internal/tools/seed"
)

type runResult struct {
	Mode      string       `json:"mode"`
	Kind      string       `json:"kind,omitempty"`
	ID        int64        `json:"id,omitempty"`
	Deleted   *bool        `json:"deleted,omitempty"`
	Purges    []purgeEntry `json:"purges,omitempty"`
	Counts    []countEntry `json:"counts,omitempty"`
	Seeded    *seed.Result `json:"seeded,omitempty"`
	Error     string       `json:"error,omitempty"`
	ErrorCode string       `json:"error_code,omitempty"`
	ExitCode  int          `json:"-"`
}

func (r *runResult) fail(err error) {
	r.Error = err.Error()
	if code := apperrors.GetCode(err); code != apperrors.CodeUnknown {
		r.ErrorCode = string(code)
	}
	r.ExitCode = 1
}

type purgeEntry struct {
	Kind    string `json:"kind"`
	Outcome string `json:"outcome"`
	Removed int64  `json:"removed"`
	Error   string `json:"error,omitempty"`
}

func newPurgeEntry(result deletion.PurgeResult, err error) purgeEntry {
	entry := purgeEntry{
		Kind:    result.Kind.String(),
		Outcome: string(result.Outcome),
		Removed: result.Removed,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

type countEntry struct {
	Kind    string `json:"kind"`
	Deleted int64  `json:"deleted"`
}

// kindLabel renders a wire kind name for humans: live_character becomes
// "Live Character".
func kindLabel(kind string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(kind, "_", " "))
}

func outputJSON(out io.Writer, errOut io.Writer, result runResult) {
	encoded, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintf(errOut, "Error: encode result: %v\n", err)
		return
	}
	fmt.Fprintln(out, string(encoded))
}

func printResult(out io.Writer, errOut io.Writer, result runResult) {
	switch result.Mode {
	case string(actionMark), string(actionUnmark):
		if result.Deleted != nil {
			verb := "Marked"
			if result.Mode == string(actionUnmark) {
				verb = "Unmarked"
			}
			fmt.Fprintf(out, "%s %s %d (deleted=%t)\n", verb, kindLabel(result.Kind), result.ID, *result.Deleted)
		}
	case string(actionPurge), string(actionPurgeAll):
		// Failures are reported per entry.
		for _, entry := range result.Purges {
			printPurge(out, errOut, entry)
		}
		return
	case string(actionReport):
		for _, entry := range result.Counts {
			fmt.Fprintf(out, "%s: %d marked for deletion\n", kindLabel(entry.Kind), entry.Deleted)
		}
	case string(actionSeed):
		if result.Seeded != nil {
			fmt.Fprintf(out, "Seeded %d players, %d characters, %d live characters\n",
				result.Seeded.Players, result.Seeded.Characters, result.Seeded.LiveCharacters)
		}
	}
	if result.Error != "" {
		fmt.Fprintf(errOut, "Error: %s\n", result.Error)
	}
}

func printPurge(out io.Writer, errOut io.Writer, entry purgeEntry) {
	label := kindLabel(entry.Kind)
	switch {
	case entry.Error != "":
		fmt.Fprintf(errOut, "Error: purge %s: %s\n", label, entry.Error)
	case entry.Outcome == string(deletion.OutcomeNothingToPurge):
		fmt.Fprintf(out, "%s: nothing to purge\n", label)
	default:
		fmt.Fprintf(out, "%s: purged %d rows\n", label, entry.Removed)
	}
}
