package seed

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/partnerdesk/internal/material"
)

var partnerTypes = []string{"ЗАО", "ООО", "ОАО", "ПАО"}

var productTypeNames = map[int64]string{
	1: "Древесно-плитные материалы",
	2: "Декоративные панели",
	3: "Плитка",
	4: "Фасадные материалы",
	5: "Напольные покрытия",
}

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	steps := []func(context.Context, *sql.Tx, *Stats) error{
		func(ctx context.Context, tx *sql.Tx, stats *Stats) error {
			return seedAdmin(ctx, tx, cfg, stats)
		},
		ensurePartnerTypes,
		ensureReferenceTypes,
	}
	for _, step := range steps {
		if err := step(ctx, tx, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, cfg Config, stats *Stats) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, cfg.AdminEmail).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, cfg.AdminEmail, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensurePartnerTypes(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	for _, name := range partnerTypes {
		res, err := tx.ExecContext(ctx, `INSERT INTO partner_types (type_name) VALUES (?) ON CONFLICT (type_name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("insert partner type %q: %w", name, err)
		}
		if err := countInsert(res, stats); err != nil {
			return err
		}
	}
	return nil
}

// ensureReferenceTypes stores the default calculator tables under the same ids, so the
// database lookup and material.DefaultTables agree on a fresh install.
func ensureReferenceTypes(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	tables := material.DefaultTables()

	for _, id := range sortedIDs(tables.Coefficients) {
		name, ok := productTypeNames[id]
		if !ok {
			name = fmt.Sprintf("Тип продукции %d", id)
		}
		if err := insertReference(ctx, tx, stats, "product_types", "coefficient", id, name, tables.Coefficients[id]); err != nil {
			return err
		}
	}
	for _, id := range sortedIDs(tables.DefectRates) {
		name := fmt.Sprintf("Тип материала %d", id)
		if err := insertReference(ctx, tx, stats, "material_types", "defect_rate", id, name, tables.DefectRates[id]); err != nil {
			return err
		}
	}
	return nil
}

func insertReference(ctx context.Context, tx *sql.Tx, stats *Stats, table, column string, id int64, name string, value decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO `+table+` (id, type_name, `+column+`) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		id, name, value)
	if err != nil {
		return fmt.Errorf("insert %s %d: %w", table, id, err)
	}
	return countInsert(res, stats)
}

func countInsert(res sql.Result, stats *Stats) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read seed rows affected: %w", err)
	}
	stats.Inserts += int(n)
	return nil
}

func sortedIDs(m map[int64]decimal.Decimal) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
