package httpapi

import (
	"time"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/deletion"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

type playerView struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type characterView struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"player_id"`
	Name      string    `json:"name"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type liveCharacterView struct {
	ID          int64     `json:"id"`
	CharacterID int64     `json:"character_id"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listResponse struct {
	Kind           string              `json:"kind"`
	Filter         string              `json:"filter"`
	Players        []playerView        `json:"players,omitempty"`
	Characters     []characterView     `json:"characters,omitempty"`
	LiveCharacters []liveCharacterView `json:"live_characters,omitempty"`
}

type deletionResponse struct {
	Kind    string `json:"kind"`
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
}

type purgeResponse struct {
	Kind    string `json:"kind"`
	Outcome string `json:"outcome"`
	Removed int64  `json:"removed"`
	Error   string `json:"error,omitempty"`
}

type purgeAllResponse struct {
	Results []purgeResponse `json:"results"`
	Removed int64           `json:"removed"`
}

type auditView struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Operation    string    `json:"operation"`
	Kind         string    `json:"kind"`
	TargetID     int64     `json:"target_id,omitempty"`
	RowsAffected int64     `json:"rows_affected"`
	Outcome      string    `json:"outcome"`
	ActorID      string    `json:"actor_id,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
	TraceID      string    `json:"trace_id,omitempty"`
}

type auditResponse struct {
	Entries []auditView `json:"entries"`
}

func playerViews(rows []roster.Player) []playerView {
	views := make([]playerView, 0, len(rows))
	for _, row := range rows {
		views = append(views, playerView{
			ID:          row.ID,
			DisplayName: row.DisplayName,
			Deleted:     row.Deleted,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return views
}

func characterViews(rows []roster.Character) []characterView {
	views := make([]characterView, 0, len(rows))
	for _, row := range rows {
		views = append(views, characterView{
			ID:        row.ID,
			PlayerID:  row.PlayerID,
			Name:      row.Name,
			Deleted:   row.Deleted,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return views
}

func liveCharacterViews(rows []roster.LiveCharacter) []liveCharacterView {
	views := make([]liveCharacterView, 0, len(rows))
	for _, row := range rows {
		views = append(views, liveCharacterView{
			ID:          row.ID,
			CharacterID: row.CharacterID,
			Deleted:     row.Deleted,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return views
}

func purgeView(result deletion.PurgeResult, err error) purgeResponse {
	view := purgeResponse{
		Kind:    result.Kind.String(),
		Outcome: string(result.Outcome),
		Removed: result.Removed,
	}
	if err != nil {
		view.Error = err.Error()
	}
	return view
}

func auditViews(records []storage.DeletionAuditRecord) []auditView {
	views := make([]auditView, 0, len(records))
	for _, record := range records {
		views = append(views, auditView{
			ID:           record.ID,
			Timestamp:    record.Timestamp,
			Operation:    record.Operation,
			Kind:         record.Kind.String(),
			TargetID:     record.TargetID,
			RowsAffected: record.RowsAffected,
			Outcome:      record.Outcome,
			ActorID:      record.ActorID,
			RequestID:    record.RequestID,
			TraceID:      record.TraceID,
		})
	}
	return views
}
