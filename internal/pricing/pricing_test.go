package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func equalDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func TestCalculate_SumsLines(t *testing.T) {
	result := Calculate([]Line{
		{Quantity: 10, UnitCost: decimal.RequireFromString("100.50")},
		{Quantity: 5, UnitCost: decimal.RequireFromString("200.00")},
	})

	equalDecimal(t, "line 0", result.LineCosts[0], "1005")
	equalDecimal(t, "line 1", result.LineCosts[1], "1000")
	equalDecimal(t, "total", result.Total, "2005.00")
}

func TestCalculate_Empty(t *testing.T) {
	result := Calculate(nil)

	if len(result.LineCosts) != 0 {
		t.Fatalf("expected no line costs, got %v", result.LineCosts)
	}
	equalDecimal(t, "total", result.Total, "0")
}

func TestCalculate_RoundsHalfUpToCents(t *testing.T) {
	equalDecimal(t, "half", OrderTotal([]Line{{Quantity: 1, UnitCost: decimal.RequireFromString("0.125")}}), "0.13")
	equalDecimal(t, "below half", OrderTotal([]Line{{Quantity: 3, UnitCost: decimal.RequireFromString("0.333")}}), "1.00")
	equalDecimal(t, "exact tenths", OrderTotal([]Line{{Quantity: 3, UnitCost: decimal.RequireFromString("0.1")}}), "0.3")
}

func TestCalculate_NegativeTotalIsClamped(t *testing.T) {
	total := OrderTotal([]Line{{Quantity: 2, UnitCost: decimal.RequireFromString("-5")}})
	equalDecimal(t, "total", total, "0")
}

func TestLineTotal(t *testing.T) {
	equalDecimal(t, "line total", LineTotal(7, decimal.RequireFromString("3.335")), "23.35")
}
