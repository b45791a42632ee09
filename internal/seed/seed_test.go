package seed

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/partnerdesk/internal/catalog"
	"github.com/Simplici0/partnerdesk/internal/material"
	"github.com/Simplici0/partnerdesk/internal/testutil"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)

	cfg := Config{
		AdminEmail:    "admin@partnerdesk.local",
		AdminPassword: "12345",
		BcryptCost:    bcrypt.MinCost,
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, database, cfg)
		require.NoError(t, err, "iteration %d", i)
		if i == 0 {
			assert.Equal(t, 15, stats.Inserts)
			continue
		}
		assert.Zero(t, stats.Inserts, "iteration %d", i)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM users WHERE email = ?`, 1, "admin@partnerdesk.local")
	assertCount(t, database, `SELECT COUNT(*) FROM partner_types`, 4)
	assertCount(t, database, `SELECT COUNT(*) FROM product_types`, 5)
	assertCount(t, database, `SELECT COUNT(*) FROM material_types`, 5)

	var hash string
	require.NoError(t, database.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, cfg.AdminEmail).Scan(&hash))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("12345")))
}

func TestRunWithoutAdmin(t *testing.T) {
	database := testutil.NewDB(t)

	stats, err := Run(context.Background(), database, Config{})
	require.NoError(t, err)
	assert.Equal(t, 14, stats.Inserts)
	assertCount(t, database, `SELECT COUNT(*) FROM users`, 0)
}

func TestSeededLookupMatchesDefaultTables(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	_, err := Run(ctx, database, Config{})
	require.NoError(t, err)

	lookup := catalog.NewLookup(database)
	tables := material.DefaultTables()
	for id, want := range tables.Coefficients {
		got, err := lookup.Coefficient(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "coefficient %d: %s != %s", id, got, want)
	}
	for id, want := range tables.DefectRates {
		got, err := lookup.DefectRate(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "defect rate %d: %s != %s", id, got, want)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, expected int, args ...any) {
	t.Helper()

	var count int
	require.NoError(t, database.QueryRow(query, args...).Scan(&count))
	assert.Equal(t, expected, count, query)
}
