package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
	"github.com/louisbranch/gamekeeper/internal/platform/httpx"
	"github.com/louisbranch/gamekeeper/internal/platform/timeouts"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/deletion"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/grant"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
	"github.com/louisbranch/gamekeeper/internal/services/roster/storage"
)

const defaultAuditLimit = 50

// Records is the read surface the handler lists from.
type Records interface {
	storage.RosterStore
	ListDeletionAudit(ctx context.Context, limit int) ([]storage.DeletionAuditRecord, error)
}

// Handler routes roster admin requests.
type Handler struct {
	deletions      *deletion.Service
	records        Records
	grants         *grant.Config
	requestTimeout time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithGrantVerifier requires operator grants on mutating routes.
func WithGrantVerifier(cfg grant.Config) Option {
	return func(h *Handler) {
		h.grants = &cfg
	}
}

// WithRequestTimeout bounds the store work of a single request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.requestTimeout = timeout
		}
	}
}

// NewHandler builds a roster admin handler.
func NewHandler(deletions *deletion.Service, records Records, opts ...Option) (*Handler, error) {
	if deletions == nil {
		return nil, errors.New("deletion service is required")
	}
	if records == nil {
		return nil, errors.New("roster records are required")
	}
	h := &Handler{
		deletions:      deletions,
		records:        records,
		requestTimeout: timeouts.Request,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Routes returns the admin API wrapped with request id, panic recovery, and
// access logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /v1/audit", h.handleListAudit)
	mux.HandleFunc("GET /v1/{kind}", h.handleList)
	mux.Handle("POST /v1/{kind}/{id}/deletion", h.requireGrant(http.HandlerFunc(h.handleMark)))
	mux.Handle("DELETE /v1/{kind}/{id}/deletion", h.requireGrant(http.HandlerFunc(h.handleUnmark)))
	mux.Handle("POST /v1/{kind}/purge", h.requireGrant(http.HandlerFunc(h.handlePurge)))
	mux.Handle("POST /v1/purge", h.requireGrant(http.HandlerFunc(h.handlePurgeAll)))
	return httpx.Chain(mux, httpx.RequestID(), httpx.RecoverPanic(), httpx.AccessLog("roster"))
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.requestTimeout)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	kind, err := roster.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter, err := roster.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	response := listResponse{Kind: kind.String(), Filter: filter.String()}
	switch kind {
	case roster.KindPlayer:
		rows, err := h.records.ListPlayers(ctx, filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Players = playerViews(rows)
	case roster.KindCharacter:
		rows, err := h.records.ListCharacters(ctx, filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Characters = characterViews(rows)
	case roster.KindLiveCharacter:
		rows, err := h.records.ListLiveCharacters(ctx, filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.LiveCharacters = liveCharacterViews(rows)
	}
	_ = httpx.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSONError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	records, err := h.records.ListDeletionAudit(ctx, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, auditResponse{Entries: auditViews(records)})
}

func (h *Handler) handleMark(w http.ResponseWriter, r *http.Request) {
	h.handleSetDeletion(w, r, true)
}

func (h *Handler) handleUnmark(w http.ResponseWriter, r *http.Request) {
	h.handleSetDeletion(w, r, false)
}

func (h *Handler) handleSetDeletion(w http.ResponseWriter, r *http.Request, wantDeleted bool) {
	kind, err := roster.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	deleted, err := h.deletions.SetDeletion(ctx, kind, id, wantDeleted)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, deletionResponse{Kind: kind.String(), ID: id, Deleted: deleted})
}

func (h *Handler) handlePurge(w http.ResponseWriter, r *http.Request) {
	kind, err := roster.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.deletions.Purge(ctx, kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, purgeView(result, nil))
}

func (h *Handler) handlePurgeAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	report, err := h.deletions.PurgeAll(ctx)
	response := purgeAllResponse{Removed: report.Removed()}
	for _, result := range report.Results {
		response.Results = append(response.Results, purgeView(result, result.Err))
	}
	status := http.StatusOK
	if err != nil {
		status = apperrors.GetCode(err).HTTPStatus()
		log.Printf("roster purge all failed request_id=%s: %v", requestIDOf(r), err)
	}
	_ = httpx.WriteJSON(w, status, response)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperrors.WithMetadata(
			apperrors.CodeInvalidID,
			"id must be an integer",
			map[string]string{"ID": raw},
		)
	}
	if err := roster.ValidateID(id); err != nil {
		return 0, err
	}
	return id, nil
}
