// Package storage defines persistence interfaces for the roster service.
//
// It covers existence checks and deletion-flag reads/writes across the
// players, characters and live_characters tables, purge of flagged rows, the
// deletion audit journal, and roster provisioning. Implementations (e.g.,
// SQLite) live in subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
package storage
