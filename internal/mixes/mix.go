package mixes

import (
	"encoding/json"
	"time"

	"github.com/cirovladimir/ral-color-mix/internal/pricing"
)

// Mix is a named snapshot of a colorant formulation and the totals computed
// for it when it was saved. Totals are never recomputed on load.
type Mix struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Measurements      pricing.Measurements `json:"measurements"`
	BaseListPrice     float64              `json:"baseListPrice"`
	SalePriceGross    float64              `json:"salePriceGross"`
	ColorantTotal     float64              `json:"colorantTotal"`
	TotalBaseColorant float64              `json:"totalBaseColorant"`
	MarginPercent     float64              `json:"marginPercent"`
	ProfitAmount      float64              `json:"profitAmount"`
	SalePriceNet      float64              `json:"salePriceNet"`
	SavedAt           time.Time            `json:"savedAt"`
}

// Clone returns a copy that shares no mutable state with m.
func (m Mix) Clone() Mix {
	out := m
	out.Measurements = m.Measurements.Clone()
	return out
}

// Params returns the pricing parameters the snapshot was computed from.
func (m Mix) Params() pricing.Params {
	return pricing.Params{BaseListPrice: m.BaseListPrice, SalePriceGross: m.SalePriceGross}
}

// UnmarshalJSON reads canonical records as well as the shapes written by the
// first mobile release ("points", "salePrice", "utilidad", "total", "date").
func (m *Mix) UnmarshalJSON(data []byte) error {
	type canonical Mix
	var c canonical
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	var legacy struct {
		Points    pricing.Measurements `json:"points"`
		SalePrice *flexFloat           `json:"salePrice"`
		Utilidad  *flexFloat           `json:"utilidad"`
		Total     *flexFloat           `json:"total"`
		Date      *time.Time           `json:"date"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}

	has := func(key string) bool {
		_, ok := keys[key]
		return ok
	}

	if !has("measurements") && legacy.Points != nil {
		c.Measurements = legacy.Points
	}
	if !has("marginPercent") && legacy.Utilidad != nil {
		c.MarginPercent = float64(*legacy.Utilidad)
	}
	if !has("profitAmount") && legacy.Total != nil {
		c.ProfitAmount = float64(*legacy.Total)
	}
	if !has("savedAt") && legacy.Date != nil {
		c.SavedAt = *legacy.Date
	}
	// The legacy salePrice is the gross price with tax removed once.
	if !has("salePriceGross") {
		c.SalePriceGross = pricing.DefaultSalePriceGross
		if legacy.SalePrice != nil {
			c.SalePriceGross = pricing.ApplyTax(float64(*legacy.SalePrice))
		}
	}
	if !has("salePriceNet") && legacy.SalePrice != nil {
		c.SalePriceNet = pricing.RemoveTax(float64(*legacy.SalePrice))
	}

	*m = Mix(c)
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexFloat(pricing.ParseAmount(s))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
