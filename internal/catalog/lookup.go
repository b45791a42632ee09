package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/Simplici0/partnerdesk/internal/material"
)

var _ material.Lookup = (*Lookup)(nil)

// Lookup serves calculator coefficients from the product_types and material_types tables.
// Concurrent reads of the same id share one query.
type Lookup struct {
	db    *sql.DB
	group singleflight.Group
	query func(ctx context.Context, query string, id int64) (decimal.Decimal, error)
}

// NewLookup returns a Lookup reading from db.
func NewLookup(db *sql.DB) *Lookup {
	l := &Lookup{db: db}
	l.query = l.queryRow
	return l
}

// Coefficient implements material.Lookup.
func (l *Lookup) Coefficient(ctx context.Context, productTypeID int64) (decimal.Decimal, error) {
	return l.read(ctx, "product_type:"+strconv.FormatInt(productTypeID, 10),
		`SELECT coefficient FROM product_types WHERE id = ?`, productTypeID)
}

// DefectRate implements material.Lookup.
func (l *Lookup) DefectRate(ctx context.Context, materialTypeID int64) (decimal.Decimal, error) {
	return l.read(ctx, "material_type:"+strconv.FormatInt(materialTypeID, 10),
		`SELECT defect_rate FROM material_types WHERE id = ?`, materialTypeID)
}

// read shares one query between concurrent callers of the same key. The shared
// query runs detached from the caller that started it; each caller stops waiting
// when its own ctx is done.
func (l *Lookup) read(ctx context.Context, key, query string, id int64) (decimal.Decimal, error) {
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		d, err := l.query(shared, query, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", key, material.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", key, err)
		}
		return d, nil
	})

	select {
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return decimal.Zero, res.Err
		}
		return res.Val.(decimal.Decimal), nil
	}
}

func (l *Lookup) queryRow(ctx context.Context, query string, id int64) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := l.db.QueryRowContext(ctx, query, id).Scan(&d)
	return d, err
}
