package material

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const maxInputLen = 64

// RawRequest carries calculator inputs as received from a form or a JSON body.
type RawRequest struct {
	ProductTypeID    string
	MaterialTypeID   string
	RequiredQuantity string
	StockQuantity    string
	Param1           string
	Param2           string
}

// ParseRequest converts raw into a Request. Non-numeric values yield ErrInvalidInput;
// range checks are left to Calculate.
func ParseRequest(raw RawRequest) (Request, error) {
	var (
		req Request
		err error
	)
	if req.ProductTypeID, err = parseInt(raw.ProductTypeID, "product_type_id"); err != nil {
		return Request{}, err
	}
	if req.MaterialTypeID, err = parseInt(raw.MaterialTypeID, "material_type_id"); err != nil {
		return Request{}, err
	}
	if req.RequiredQuantity, err = parseInt(raw.RequiredQuantity, "required_quantity"); err != nil {
		return Request{}, err
	}
	if req.StockQuantity, err = parseInt(raw.StockQuantity, "stock_quantity"); err != nil {
		return Request{}, err
	}
	if req.Param1, err = parseDecimal(raw.Param1, "param1"); err != nil {
		return Request{}, err
	}
	if req.Param2, err = parseDecimal(raw.Param2, "param2"); err != nil {
		return Request{}, err
	}
	return req, nil
}

func parseInt(raw, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidInput, field, raw)
	}
	return v, nil
}

func parseDecimal(raw, field string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if len(raw) > maxInputLen {
		return decimal.Zero, fmt.Errorf("%w: %s is too long", ErrInvalidInput, field)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be numeric, got %q", ErrInvalidInput, field, raw)
	}
	if !inPrecision(d) {
		return decimal.Zero, fmt.Errorf("%w: %s %q is outside the supported precision", ErrInvalidInput, field, raw)
	}
	return d, nil
}
