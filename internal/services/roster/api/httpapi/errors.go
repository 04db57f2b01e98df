package httpapi

import (
	"log"
	"net/http"

	apperrors "github.com/louisbranch/gamekeeper/internal/platform/errors"
	"github.com/louisbranch/gamekeeper/internal/platform/httpx"
	"github.com/louisbranch/gamekeeper/internal/platform/requestctx"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeError maps err to an HTTP status through its code. Messages of
// unclassified errors are logged, not returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := code.HTTPStatus()
	message := err.Error()
	if code == apperrors.CodeUnknown {
		log.Printf("roster request failed request_id=%s: %v", requestIDOf(r), err)
		message = "internal error"
	}
	writeJSONError(w, status, string(code), message)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	_ = httpx.WriteJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func requestIDOf(r *http.Request) string {
	if r == nil {
		return "-"
	}
	if id := requestctx.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return "-"
}
