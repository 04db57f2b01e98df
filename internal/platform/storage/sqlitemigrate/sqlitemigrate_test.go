package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

const createPlayers = "-- +migrate Up\nCREATE TABLE players(player_id INTEGER PRIMARY KEY);\n-- +migrate Down\nDROP TABLE players;"

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_players.sql": &fstest.MapFile{Data: []byte(createPlayers)},
	}
	if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}
	if !tableExists(t, db, "players") {
		t.Fatal("expected players table to exist")
	}
}

func TestApplyMigrationsSkipsAlreadyApplied(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_players.sql": &fstest.MapFile{Data: []byte(createPlayers)},
	}
	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
			t.Fatalf("apply migrations pass %d: %v", i+1, err)
		}
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected single migration row after replay, got %d", rows)
	}
}

func TestApplyMigrationsRunsInLexicalOrder(t *testing.T) {
	db := openInMemoryDB(t)

	// 002 references the table created by 001.
	migrations := fstest.MapFS{
		"002_characters.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE characters(char_id INTEGER PRIMARY KEY, player_id INTEGER REFERENCES players(player_id));\nINSERT INTO players(player_id) VALUES (1);"),
		},
		"001_players.sql": &fstest.MapFile{Data: []byte(createPlayers)},
		"notes.txt":       &fstest.MapFile{Data: []byte("not a migration")},
	}
	if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if got := queryString(t, db, "SELECT name FROM schema_migrations ORDER BY applied_at, name LIMIT 1"); got != "001_players.sql" {
		t.Fatalf("first migration = %q, want 001_players.sql", got)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 2 {
		t.Fatalf("expected 2 migration rows, got %d", rows)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM players"); rows != 1 {
		t.Fatalf("expected seeded player row, got %d", rows)
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)

	bad := fstest.MapFS{
		"001_players.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT TABLE players(player_id INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected error for invalid migration")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d rows", rows)
	}

	good := fstest.MapFS{
		"001_players.sql": &fstest.MapFile{Data: []byte(createPlayers)},
	}
	if err := ApplyMigrations(context.Background(), db, good, ""); err != nil {
		t.Fatalf("apply corrected migration: %v", err)
	}
	if !tableExists(t, db, "players") {
		t.Fatal("expected corrected migration to apply")
	}
}

func TestApplyMigrationsRespectsMigrationRoot(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"roster/001_live_characters.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE live_characters(live_char_id INTEGER PRIMARY KEY, char_id INTEGER UNIQUE);"),
		},
	}
	if err := ApplyMigrations(context.Background(), db, migrations, "roster"); err != nil {
		t.Fatalf("apply migrations with root: %v", err)
	}

	if key := queryString(t, db, "SELECT name FROM schema_migrations LIMIT 1"); key != "roster/001_live_characters.sql" {
		t.Fatalf("expected migration key with root path, got %q", key)
	}
	if !tableExists(t, db, "live_characters") {
		t.Fatal("expected migrated table in root-based migration")
	}
}

func TestApplyMigrationsValidatesInputs(t *testing.T) {
	if err := ApplyMigrations(context.Background(), nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected error for nil db")
	}

	db := openInMemoryDB(t)
	if err := ApplyMigrations(context.Background(), db, fstest.MapFS{}, "missing"); err == nil {
		t.Fatal("expected error for missing migration root")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	migrations := fstest.MapFS{
		"001_players.sql": &fstest.MapFile{Data: []byte(createPlayers)},
	}
	if err := ApplyMigrations(ctx, db, migrations, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE players(player_id INTEGER);", want: "CREATE TABLE players(player_id INTEGER);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE players(player_id INTEGER);", want: "\nCREATE TABLE players(player_id INTEGER);"},
		{name: "up and down", content: createPlayers, want: "\nCREATE TABLE players(player_id INTEGER PRIMARY KEY);\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractUpMigration(tc.content); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	if IsAlreadyExistsError(nil) {
		t.Fatal("nil error should not match")
	}
	if !IsAlreadyExistsError(errors.New("table players already exists")) {
		t.Fatal("expected already exists to match")
	}
	if !IsAlreadyExistsError(errors.New("duplicate column name: deleted")) {
		t.Fatal("expected duplicate column to match")
	}
	if IsAlreadyExistsError(errors.New("syntax error")) {
		t.Fatal("syntax error should not match")
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	row := db.QueryRow(query)
	if err := row.Scan(&value); err != nil {
		t.Fatalf("query int value: %v", err)
	}
	return value
}

func queryString(t *testing.T, db *sql.DB, query string) string {
	t.Helper()
	var value string
	row := db.QueryRow(query)
	if err := row.Scan(&value); err != nil {
		t.Fatalf("query string value: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	query := "SELECT name FROM sqlite_master WHERE type='table' AND name = ?"
	var name string
	row := db.QueryRow(query, tableName)
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return false
		}
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
