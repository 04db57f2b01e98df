// Package migrations embeds the SQL migration scripts for the roster SQLite store.
package migrations
