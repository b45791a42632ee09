package pricing

import "github.com/shopspring/decimal"

// Line is one product position of a partner request.
type Line struct {
	Quantity int64
	UnitCost decimal.Decimal
}

// Result groups the per-line costs and the rounded request total.
type Result struct {
	LineCosts []decimal.Decimal
	Total     decimal.Decimal
}

// Calculate computes every line cost and the request total.
// Line costs are exact; the total is rounded half-up to cents and never negative.
func Calculate(lines []Line) Result {
	result := Result{LineCosts: make([]decimal.Decimal, len(lines))}

	sum := decimal.Zero
	for i, line := range lines {
		cost := line.UnitCost.Mul(decimal.NewFromInt(line.Quantity))
		result.LineCosts[i] = cost
		sum = sum.Add(cost)
	}

	result.Total = roundCents(sum)
	if result.Total.IsNegative() {
		result.Total = decimal.Zero
	}
	return result
}

// OrderTotal returns Calculate(lines).Total.
func OrderTotal(lines []Line) decimal.Decimal {
	return Calculate(lines).Total
}

// LineTotal returns quantity × unit cost rounded to cents, as shown on a request line.
func LineTotal(quantity int64, unitCost decimal.Decimal) decimal.Decimal {
	return roundCents(unitCost.Mul(decimal.NewFromInt(quantity)))
}

// roundCents rounds half away from zero, which is half-up for the non-negative amounts here.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
