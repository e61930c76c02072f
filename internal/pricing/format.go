package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// FormatAmount renders v with two decimals, rounding half away from zero.
func FormatAmount(v float64) string {
	return decimalOf(v).StringFixed(2)
}

// FormatCurrency renders v as "$1234.56".
func FormatCurrency(v float64) string {
	return "$" + FormatAmount(v)
}

// FormatPercent renders v as a whole percentage, e.g. "31%".
func FormatPercent(v float64) string {
	return decimalOf(v).StringFixed(0) + "%"
}

func decimalOf(v float64) decimal.Decimal {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
