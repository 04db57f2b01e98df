// Package sqlite implements roster persistence contracts on SQLite.
//
// Table and column names are resolved from a fixed kind lookup; caller input
// only ever reaches SQL as bound parameters. Deletion transactions begin
// IMMEDIATE so the check-then-act sequences of mark, unmark and purge hold the
// write lock from their first read.
package sqlite
