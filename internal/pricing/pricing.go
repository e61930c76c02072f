package pricing

import "math"

const (
	// YUnit is the number of points in one Y.
	YUnit = 48.0
	// UnitScale converts dosed points into units of the colorant's purchase price.
	UnitScale = 1536.0
	// TaxRate is the IVA applied to and removed from prices.
	TaxRate = 0.16
	// DefaultBaseListPrice is the list price of the unmixed base paint.
	DefaultBaseListPrice = 298.31
	// DefaultSalePriceGross is the tax-inclusive sale price offered for a new report.
	DefaultSalePriceGross = 1000.00
)

// Params holds the pricing parameters shared by every colorant of a mix.
type Params struct {
	BaseListPrice  float64 `json:"baseListPrice"`
	SalePriceGross float64 `json:"salePriceGross"`
}

// DefaultParams returns the parameters a new report starts with.
func DefaultParams() Params {
	return Params{BaseListPrice: DefaultBaseListPrice, SalePriceGross: DefaultSalePriceGross}
}

// Totals contains every value derived from measurements and parameters.
type Totals struct {
	ColorantTotal     float64 `json:"colorantTotal"`
	TotalBaseColorant float64 `json:"totalBaseColorant"`
	SalePrice         float64 `json:"salePrice"`
	NetSalePrice      float64 `json:"netSalePrice"`
	MarginPercent     float64 `json:"marginPercent"`
	ProfitAmount      float64 `json:"profitAmount"`
}

// Contribution is the cost of the dosed amount of a single colorant.
func Contribution(m Measurement) float64 {
	y := ParseAmount(m.Y)
	points := ParseAmount(m.Points)
	unitCost := ParseAmount(m.UnitCost)
	return ((y * YUnit) + points) * unitCost / UnitScale
}

// ComputeTotals derives colorant cost, base cost, net sale price and margin.
//
// The gross sale price has tax removed twice before the margin is taken; this
// mirrors the reports already in circulation and must not be collapsed into a
// single removal without the business signing off.
func ComputeTotals(measurements Measurements, params Params) Totals {
	colorantTotal := 0.0
	for _, m := range measurements {
		colorantTotal += Contribution(m)
	}

	totalBaseColorant := params.BaseListPrice + colorantTotal
	salePrice := RemoveTax(params.SalePriceGross)
	netSalePrice := RemoveTax(salePrice)

	margin := 0.0
	if netSalePrice != 0 {
		margin = (1 - totalBaseColorant/netSalePrice) * 100
	}

	return Totals{
		ColorantTotal:     colorantTotal,
		TotalBaseColorant: totalBaseColorant,
		SalePrice:         salePrice,
		NetSalePrice:      netSalePrice,
		MarginPercent:     finite(margin),
		ProfitAmount:      finite(netSalePrice - totalBaseColorant),
	}
}

// ApplyTax returns value with IVA added.
func ApplyTax(value float64) float64 {
	return value * (1 + TaxRate)
}

// RemoveTax returns value with IVA removed once.
func RemoveTax(value float64) float64 {
	return value / (1 + TaxRate)
}

func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
