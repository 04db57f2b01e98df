package migrations

import "embed"

// RosterFS holds the roster schema history under roster/.
//
//go:embed roster/*.sql
var RosterFS embed.FS
