// Package roster defines the entity kinds and records tracked by the roster
// administration backend: players, their characters, and the live (in-play)
// instance of each character.
//
// Rows are soft-deleted through a per-row deleted flag before they are purged.
// A character and its live instance are linked 1:1 by character id.
package roster
