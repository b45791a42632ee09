package material

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Lookup resolves the reference coefficients used by the calculator.
// Implementations return an error wrapping ErrNotFound for a missing id and must be
// safe for concurrent reads.
type Lookup interface {
	Coefficient(ctx context.Context, productTypeID int64) (decimal.Decimal, error)
	DefectRate(ctx context.Context, materialTypeID int64) (decimal.Decimal, error)
}

// Tables is an in-memory Lookup. It must not be mutated once shared.
type Tables struct {
	Coefficients map[int64]decimal.Decimal
	DefectRates  map[int64]decimal.Decimal
}

// DefaultTables returns the reference values shipped with the application.
// Seeding uses the same values so both lookups agree out of the box.
func DefaultTables() Tables {
	return Tables{
		Coefficients: map[int64]decimal.Decimal{
			1: decimal.RequireFromString("1.5"),
			2: decimal.RequireFromString("3.5"),
			3: decimal.RequireFromString("5.25"),
			4: decimal.RequireFromString("4.5"),
			5: decimal.RequireFromString("2.17"),
		},
		DefectRates: map[int64]decimal.Decimal{
			1: decimal.RequireFromString("0.002"),
			2: decimal.RequireFromString("0.005"),
			3: decimal.RequireFromString("0.003"),
			4: decimal.RequireFromString("0.0015"),
			5: decimal.RequireFromString("0.0018"),
		},
	}
}

// Coefficient implements Lookup.
func (t Tables) Coefficient(_ context.Context, productTypeID int64) (decimal.Decimal, error) {
	c, ok := t.Coefficients[productTypeID]
	if !ok {
		return decimal.Zero, fmt.Errorf("product type %d: %w", productTypeID, ErrNotFound)
	}
	return c, nil
}

// DefectRate implements Lookup.
func (t Tables) DefectRate(_ context.Context, materialTypeID int64) (decimal.Decimal, error) {
	r, ok := t.DefectRates[materialTypeID]
	if !ok {
		return decimal.Zero, fmt.Errorf("material type %d: %w", materialTypeID, ErrNotFound)
	}
	return r, nil
}

// ValidCoefficient reports whether c may be used as a product type coefficient.
func ValidCoefficient(c decimal.Decimal) bool {
	return c.IsPositive() && inPrecision(c)
}

// ValidDefectRate reports whether r lies in [0, 1).
func ValidDefectRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThan(decimal.NewFromInt(1)) && inPrecision(r)
}
