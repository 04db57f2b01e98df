// Package deletion implements the roster soft-delete state machine.
//
// Rows move between active and logically deleted by rewriting their deleted
// flag (mark/unmark) and leave the store only through purge, which removes
// every flagged row of a kind and is irreversible.
//
// A character and its live instance never diverge: every flag write on a
// character re-asserts the same value on the linked live character, even when
// the character already held it. Each operation runs in a single store
// transaction and re-reads the flags it wrote before committing.
package deletion
