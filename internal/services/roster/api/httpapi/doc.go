// Package httpapi serves the roster admin API: listing rows, marking and
// unmarking them for deletion, and purging marked rows.
//
// Mutating routes require an operator grant when a grant verifier is
// configured. Errors are written as {"error":{"code":...,"message":...}}
// with the HTTP status derived from the error code.
package httpapi
