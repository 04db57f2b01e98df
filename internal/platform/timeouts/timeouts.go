// Package timeouts defines shared timeout constants used across gamekeeper
// processes.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Request caps the time a single admin HTTP request may spend in the store.
const Request = 10 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Maintenance is the default overall deadline for one maintenance run.
const Maintenance = time.Minute
