package material

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest_Success(t *testing.T) {
	req, err := ParseRequest(RawRequest{
		ProductTypeID:    "1",
		MaterialTypeID:   " 1 ",
		RequiredQuantity: "100",
		StockQuantity:    "20",
		Param1:           "2.5",
		Param2:           "3.0",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), req.RequiredQuantity)
	assert.True(t, req.Param1.Equal(dec("2.5")))

	got, err := Calculate(context.Background(), DefaultTables(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(902), got)
}

func TestParseRequest_InvalidInput(t *testing.T) {
	base := RawRequest{
		ProductTypeID:    "1",
		MaterialTypeID:   "1",
		RequiredQuantity: "100",
		StockQuantity:    "20",
		Param1:           "2.5",
		Param2:           "3.0",
	}

	tests := []struct {
		name   string
		mutate func(*RawRequest)
	}{
		{"non-numeric param", func(r *RawRequest) { r.Param1 = "abc" }},
		{"empty param", func(r *RawRequest) { r.Param2 = "" }},
		{"fractional quantity", func(r *RawRequest) { r.RequiredQuantity = "10.5" }},
		{"non-numeric type id", func(r *RawRequest) { r.ProductTypeID = "tile" }},
		{"missing stock", func(r *RawRequest) { r.StockQuantity = "  " }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := base
			tc.mutate(&raw)
			_, err := ParseRequest(raw)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, "invalid_input", Kind(err))
		})
	}
}

func TestParseRequest_RejectsUnsupportedPrecision(t *testing.T) {
	base := RawRequest{
		ProductTypeID:    "1",
		MaterialTypeID:   "1",
		RequiredQuantity: "10",
		StockQuantity:    "0",
		Param1:           "1",
		Param2:           "1",
	}

	for _, param := range []string{
		"1e-50000000",
		"1e50000000",
		"0.000000000000000000001",
		"12345678901234567890123456789012345678901",
		strings.Repeat("9", 65),
		"NaN",
		"Inf",
	} {
		raw := base
		raw.Param1 = param

		start := time.Now()
		_, err := ParseRequest(raw)
		require.ErrorIs(t, err, ErrInvalidInput, "param1=%.20s", param)
		assert.Less(t, time.Since(start), time.Second)
	}
}

func TestParseRequest_AcceptsExponentWithinPrecision(t *testing.T) {
	req, err := ParseRequest(RawRequest{
		ProductTypeID:    "1",
		MaterialTypeID:   "1",
		RequiredQuantity: "10",
		StockQuantity:    "0",
		Param1:           "2.5e-3",
		Param2:           "4e2",
	})
	require.NoError(t, err)
	assert.True(t, req.Param1.Equal(dec("0.0025")))
	assert.True(t, req.Param2.Equal(dec("400")))
}
