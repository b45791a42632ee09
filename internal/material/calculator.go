// Package material computes the amount of raw material to procure for a
// shortfall of finished product.
package material

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Request holds the caller-supplied inputs of a material calculation.
type Request struct {
	ProductTypeID    int64
	MaterialTypeID   int64
	RequiredQuantity int64
	StockQuantity    int64
	// Param1 and Param2 are the physical dimensions of one unit of product.
	Param1 decimal.Decimal
	Param2 decimal.Decimal
}

// Shortfall returns the quantity still to be manufactured after stock on hand.
func (r Request) Shortfall() int64 {
	if r.RequiredQuantity <= r.StockQuantity {
		return 0
	}
	return r.RequiredQuantity - r.StockQuantity
}

// Validate checks the request fields that do not need the lookup.
func (r Request) Validate() error {
	if r.RequiredQuantity < 0 {
		return fmt.Errorf("%w: required quantity %d is negative", ErrInvalidQuantity, r.RequiredQuantity)
	}
	if r.StockQuantity < 0 {
		return fmt.Errorf("%w: stock quantity %d is negative", ErrInvalidQuantity, r.StockQuantity)
	}
	if !r.Param1.IsPositive() {
		return fmt.Errorf("%w: param1 must be greater than 0, got %s", ErrInvalidParameter, r.Param1)
	}
	if !r.Param2.IsPositive() {
		return fmt.Errorf("%w: param2 must be greater than 0, got %s", ErrInvalidParameter, r.Param2)
	}
	if !inPrecision(r.Param1) {
		return fmt.Errorf("%w: param1 is outside the supported precision", ErrInvalidInput)
	}
	if !inPrecision(r.Param2) {
		return fmt.Errorf("%w: param2 is outside the supported precision", ErrInvalidInput)
	}
	if r.ProductTypeID <= 0 {
		return fmt.Errorf("%w: product type %d", ErrUnknownType, r.ProductTypeID)
	}
	if r.MaterialTypeID <= 0 {
		return fmt.Errorf("%w: material type %d", ErrUnknownType, r.MaterialTypeID)
	}
	return nil
}

// Calculator binds a Lookup. The zero value is not usable.
type Calculator struct {
	lookup Lookup
}

// NewCalculator returns a Calculator reading coefficients from lookup.
func NewCalculator(lookup Lookup) *Calculator {
	return &Calculator{lookup: lookup}
}

// Calculate is Calculate with the bound lookup.
func (c *Calculator) Calculate(ctx context.Context, req Request) (int64, error) {
	return Calculate(ctx, c.lookup, req)
}

// Calculate returns the whole amount of material needed to produce the shortfall
// of req, inflated by the material's defect rate and rounded up.
//
// All validation, including both lookups, happens before any arithmetic. A zero
// shortfall yields 0 only once the request is known to be valid.
func Calculate(ctx context.Context, lookup Lookup, req Request) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	coefficient, err := lookup.Coefficient(ctx, req.ProductTypeID)
	if err != nil {
		return 0, lookupError("product type", req.ProductTypeID, err)
	}
	if !ValidCoefficient(coefficient) {
		return 0, fmt.Errorf("%w: product type %d has coefficient %s", ErrLookupUnavailable, req.ProductTypeID, coefficient)
	}

	defectRate, err := lookup.DefectRate(ctx, req.MaterialTypeID)
	if err != nil {
		return 0, lookupError("material type", req.MaterialTypeID, err)
	}
	if !ValidDefectRate(defectRate) {
		return 0, fmt.Errorf("%w: material type %d has defect rate %s", ErrLookupUnavailable, req.MaterialTypeID, defectRate)
	}

	shortfall := req.Shortfall()
	if shortfall == 0 {
		return 0, nil
	}

	perUnit := req.Param1.Mul(req.Param2).Mul(coefficient)
	base := perUnit.Mul(decimal.NewFromInt(shortfall))
	amount, ok := ceilQuo(base, decimal.NewFromInt(1).Sub(defectRate))
	if !ok {
		return 0, fmt.Errorf("%w: amount exceeds %d", ErrInvalidInput, int64(math.MaxInt64))
	}
	return amount, nil
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ceilQuo returns ceil(n / d) for n >= 0 and d > 0 without rounding the quotient first.
// ok is false when the ceiling does not fit in an int64.
func ceilQuo(n, d decimal.Decimal) (amount int64, ok bool) {
	q, r := n.QuoRem(d, 0)
	if r.IsPositive() {
		q = q.Add(decimal.NewFromInt(1))
	}
	if q.GreaterThan(maxAmount) {
		return 0, false
	}
	return q.IntPart(), true
}

// Decimal inputs are limited to maxScale digits on either side of the exponent and
// a coefficient below 10^maxDigits, which keeps every step of Calculate small.
const (
	maxScale  = 20
	maxDigits = 40
)

var maxCoefficient = new(big.Int).Exp(big.NewInt(10), big.NewInt(maxDigits), nil)

func inPrecision(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxScale || exp > maxScale {
		return false
	}
	return d.Coefficient().CmpAbs(maxCoefficient) < 0
}

func lookupError(what string, id int64, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrUnknownType, what, id)
	}
	return fmt.Errorf("%w: %s %d: %w", ErrLookupUnavailable, what, id, err)
}
