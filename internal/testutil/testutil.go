// Package testutil opens migrated databases for package tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/partnerdesk/internal/db"
	"github.com/Simplici0/partnerdesk/internal/migrations"
)

// NewDB returns a migrated SQLite database in a temporary directory, closed on cleanup.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

// Exec runs a seeding statement and fails the test on error.
func Exec(t testing.TB, database *sql.DB, query string, args ...any) sql.Result {
	t.Helper()

	res, err := database.Exec(query, args...)
	if err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
	return res
}
