// Package seed loads roster fixtures from JSON manifests.
//
// A manifest lists players, characters, and live characters. Every record is
// validated before any row is written, and the whole manifest is applied in a
// single store transaction.
package seed
