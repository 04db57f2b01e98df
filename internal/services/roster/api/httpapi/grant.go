package httpapi

import (
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
	"github.com/louisbranch/gamekeeper/internal/platform/requestctx"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/grant"
)

const bearerPrefix = "Bearer "

// requireGrant validates the bearer operator grant and records its subject
// in the request context. Requests pass through untouched when no verifier is
// configured.
func (h *Handler) requireGrant(next http.Handler) http.Handler {
	if h.grants == nil {
		return next
	}
	cfg := *h.grants
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="roster"`)
			writeError(w, r, apperrors.New(apperrors.CodeGrantInvalid, "operator grant is required"))
			return
		}
		claims, err := grant.Validate(token, grant.ScopeAdmin, cfg)
		if err != nil {
			if code := apperrors.GetCode(err); code == apperrors.CodeGrantInvalid || code == apperrors.CodeGrantExpired {
				w.Header().Set("WWW-Authenticate", `Bearer realm="roster", error="invalid_token"`)
			}
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithOperator(r.Context(), claims.Subject)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
