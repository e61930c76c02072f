// Package report turns measurements and pricing parameters into the
// labelled cost table shown on screen and handed to the print collaborator.
package report

import (
	"time"

	"github.com/cirovladimir/ral-color-mix/internal/colorants"
	"github.com/cirovladimir/ral-color-mix/internal/mixes"
	"github.com/cirovladimir/ral-color-mix/internal/pricing"
)

// Row keys, in display order.
const (
	RowColorantTotal     = "colorant_total"
	RowBaseListPrice     = "base_list_price"
	RowDiscount          = "discount"
	RowBaseCost          = "base_cost"
	RowTotalBaseColorant = "total_base_colorant"
	RowSalePrice         = "sale_price"
	RowNetSalePrice      = "net_sale_price"
	RowMarginPercent     = "margin_percent"
	RowProfitAmount      = "profit_amount"
)

// Row is one line of the cost table.
type Row struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	WithTax string  `json:"withTax"`
}

// Summary is the full cost table for one set of inputs.
type Summary struct {
	Params pricing.Params `json:"params"`
	Totals pricing.Totals `json:"totals"`
	Rows   []Row          `json:"rows"`
}

// Build computes totals and lays them out as the nine report rows.
func Build(measurements pricing.Measurements, params pricing.Params) Summary {
	return FromTotals(params, pricing.ComputeTotals(measurements, params))
}

// FromTotals lays out already computed totals.
func FromTotals(params pricing.Params, totals pricing.Totals) Summary {
	money := func(key, label string, v float64) Row {
		return Row{
			Key:     key,
			Label:   label,
			Value:   v,
			Display: pricing.FormatCurrency(v),
			WithTax: pricing.FormatCurrency(pricing.ApplyTax(v)),
		}
	}

	rows := []Row{
		money(RowColorantTotal, "Costo Total Colorantes", totals.ColorantTotal),
		money(RowBaseListPrice, "Precio de Lista de Base", params.BaseListPrice),
		money(RowDiscount, "Descuento Semestral", 0),
		money(RowBaseCost, "Costo de Base", params.BaseListPrice),
		money(RowTotalBaseColorant, "TOTAL BASE + COLORANTE", totals.TotalBaseColorant),
		money(RowSalePrice, "Precio de Venta", totals.SalePrice),
		money(RowNetSalePrice, "PRECIO DE VENTAS", totals.NetSalePrice),
		{
			Key:     RowMarginPercent,
			Label:   "UTILIDAD EN %",
			Value:   totals.MarginPercent,
			Display: pricing.FormatPercent(totals.MarginPercent),
		},
		money(RowProfitAmount, "UTILIDAD TOTAL", totals.ProfitAmount),
	}

	return Summary{Params: params, Totals: totals, Rows: rows}
}

// FromSnapshot lays out the totals stored with a mix without recomputing them.
func FromSnapshot(mix mixes.Mix) Summary {
	totals := pricing.Totals{
		ColorantTotal:     mix.ColorantTotal,
		TotalBaseColorant: mix.TotalBaseColorant,
		SalePrice:         pricing.ApplyTax(mix.SalePriceNet),
		NetSalePrice:      mix.SalePriceNet,
		MarginPercent:     mix.MarginPercent,
		ProfitAmount:      mix.ProfitAmount,
	}
	return FromTotals(mix.Params(), totals)
}

// Snapshot computes totals and captures them in a mix record.
func Snapshot(id, name string, measurements pricing.Measurements, params pricing.Params, now time.Time) mixes.Mix {
	totals := pricing.ComputeTotals(measurements, params)
	return mixes.Mix{
		ID:                id,
		Name:              name,
		Measurements:      measurements.Clone(),
		BaseListPrice:     params.BaseListPrice,
		SalePriceGross:    params.SalePriceGross,
		ColorantTotal:     totals.ColorantTotal,
		TotalBaseColorant: totals.TotalBaseColorant,
		MarginPercent:     totals.MarginPercent,
		ProfitAmount:      totals.ProfitAmount,
		SalePriceNet:      totals.NetSalePrice,
		SavedAt:           now.UTC(),
	}
}

// ColorantRow is one line of the printed colorant table.
type ColorantRow struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Y      string `json:"y"`
	Points string `json:"points"`
}

// ColorantRows lists every palette colorant with its dosing. Undosed
// colorants show "0".
func ColorantRows(measurements pricing.Measurements) []ColorantRow {
	palette := colorants.All()
	rows := make([]ColorantRow, 0, len(palette))
	for _, c := range palette {
		m := measurements[c.Name]
		rows = append(rows, ColorantRow{
			Code:   c.Code,
			Name:   c.Name,
			Color:  c.Color,
			Y:      orZero(m.Y),
			Points: orZero(m.Points),
		})
	}
	return rows
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
