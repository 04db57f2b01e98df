// Package errors provides structured error handling with machine-readable codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Roster errors
	CodeInvalidKind        Code = "INVALID_KIND"
	CodeInvalidID          Code = "INVALID_ID"
	CodeInvalidFilter      Code = "INVALID_FILTER"
	CodeNotFound           Code = "NOT_FOUND"
	CodeVerificationFailed Code = "VERIFICATION_FAILED"

	// Seed errors
	CodeSeedInvalidRecord Code = "SEED_INVALID_RECORD"

	// Operator grant errors
	CodeGrantInvalid   Code = "GRANT_INVALID"
	CodeGrantExpired   Code = "GRANT_EXPIRED"
	CodeGrantForbidden Code = "GRANT_FORBIDDEN"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// BadRequest - validation failures, bad input
	case CodeInvalidKind,
		CodeInvalidID,
		CodeInvalidFilter,
		CodeSeedInvalidRecord:
		return http.StatusBadRequest

	case CodeNotFound:
		return http.StatusNotFound

	case CodeGrantInvalid,
		CodeGrantExpired:
		return http.StatusUnauthorized

	case CodeGrantForbidden:
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}
