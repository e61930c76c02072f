package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cirovladimir/ral-color-mix/internal/pricing"
)

func TestBuildReturnsNineRowsInOrder(t *testing.T) {
	summary := Build(pricing.Measurements{"Negro": {Y: "10", Points: "5", UnitCost: "100"}}, pricing.Params{BaseListPrice: 298.31, SalePriceGross: 1000})

	wantKeys := []string{
		RowColorantTotal, RowBaseListPrice, RowDiscount, RowBaseCost, RowTotalBaseColorant,
		RowSalePrice, RowNetSalePrice, RowMarginPercent, RowProfitAmount,
	}
	if len(summary.Rows) != len(wantKeys) {
		t.Fatalf("expected %d rows, got %d", len(wantKeys), len(summary.Rows))
	}
	for i, key := range wantKeys {
		if summary.Rows[i].Key != key {
			t.Fatalf("row %d key = %q, want %q", i, summary.Rows[i].Key, key)
		}
	}

	want := map[string][2]string{
		RowColorantTotal:     {"$31.58", "$36.63"},
		RowBaseListPrice:     {"$298.31", "$346.04"},
		RowDiscount:          {"$0.00", "$0.00"},
		RowBaseCost:          {"$298.31", "$346.04"},
		RowTotalBaseColorant: {"$329.89", "$382.67"},
		RowSalePrice:         {"$862.07", "$1000.00"},
		RowNetSalePrice:      {"$743.16", "$862.07"},
		RowMarginPercent:     {"56%", ""},
		RowProfitAmount:      {"$413.28", "$479.40"},
	}
	for _, row := range summary.Rows {
		got := [2]string{row.Display, row.WithTax}
		if got != want[row.Key] {
			t.Fatalf("row %s = %v, want %v", row.Key, got, want[row.Key])
		}
	}
}

func TestFromSnapshotUsesStoredTotals(t *testing.T) {
	mix := Snapshot("RAL-1", "Uno", pricing.Measurements{"Negro": {Y: "1", UnitCost: "32"}}, pricing.Params{BaseListPrice: 100, SalePriceGross: 1160}, time.Now())
	mix.ColorantTotal = 555

	summary := FromSnapshot(mix)

	if summary.Rows[0].Display != "$555.00" {
		t.Fatalf("expected stored colorant total, got %s", summary.Rows[0].Display)
	}
	if summary.Rows[5].Display != "$1000.00" {
		t.Fatalf("expected sale price derived from stored net, got %s", summary.Rows[5].Display)
	}
}

func TestSnapshotCopiesMeasurements(t *testing.T) {
	measurements := pricing.Measurements{"Negro": {Y: "1", Points: "0", UnitCost: "32"}}
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("CST", -6*3600))

	mix := Snapshot("RAL-1", "Uno", measurements, pricing.Params{BaseListPrice: 100, SalePriceGross: 1160}, now)
	measurements["Negro"] = pricing.Measurement{Y: "50"}

	if mix.Measurements["Negro"].Y != "1" {
		t.Fatalf("snapshot shares measurements with caller")
	}
	if mix.ColorantTotal != 1 || mix.TotalBaseColorant != 101 {
		t.Fatalf("unexpected totals: %+v", mix)
	}
	if mix.SavedAt.Location() != time.UTC || !mix.SavedAt.Equal(now) {
		t.Fatalf("expected savedAt in UTC, got %s", mix.SavedAt)
	}
}

func TestColorantRowsCoverPalette(t *testing.T) {
	rows := ColorantRows(pricing.Measurements{"Sombra": {Y: "2", Points: "7"}})
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Name == "Sombra" {
			if row.Code != "L" || row.Y != "2" || row.Points != "7" {
				t.Fatalf("unexpected Sombra row: %+v", row)
			}
			continue
		}
		if row.Y != "0" || row.Points != "0" {
			t.Fatalf("expected zero dosing for %s, got %+v", row.Name, row)
		}
	}
}

func TestDecodeHandoffMeasurementMapping(t *testing.T) {
	raw := `{"Negro":{"y":"1","pts":"2","cost":"300"},"Azul":{"y":"","pts":"","cost":""}}`

	in, err := DecodeHandoff([]byte(raw), pricing.DefaultParams())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Mix != nil {
		t.Fatalf("expected no mix for a plain mapping")
	}
	if in.Params != pricing.DefaultParams() {
		t.Fatalf("expected default params, got %+v", in.Params)
	}
	if in.Measurements["Negro"] != (pricing.Measurement{Y: "1", Points: "2", UnitCost: "300"}) {
		t.Fatalf("unexpected measurement: %+v", in.Measurements["Negro"])
	}
}

func TestDecodeHandoffMixRecord(t *testing.T) {
	raw := `{"id":"RAL-6018","name":"Verde amarillo","measurements":{"Verde":{"y":"2","points":"1","unitCost":"410"}},` +
		`"baseListPrice":310,"salePriceGross":1500,"colorantTotal":53.65,"savedAt":"2025-06-01T12:00:00Z"}`

	in, err := DecodeHandoff([]byte(raw), pricing.DefaultParams())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Mix == nil || in.Mix.ID != "RAL-6018" || in.Mix.Name != "Verde amarillo" {
		t.Fatalf("expected editing info, got %+v", in.Mix)
	}
	if in.Params != (pricing.Params{BaseListPrice: 310, SalePriceGross: 1500}) {
		t.Fatalf("unexpected params: %+v", in.Params)
	}
	if in.Measurements["Verde"].UnitCost != "410" {
		t.Fatalf("unexpected measurements: %+v", in.Measurements)
	}
}

func TestDecodeHandoffLegacyMixWithoutPrices(t *testing.T) {
	raw := `{"points":{"Negro":{"y":"1","pts":"0","cost":"32"}}}`

	in, err := DecodeHandoff([]byte(raw), pricing.Params{BaseListPrice: 250, SalePriceGross: 900})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Mix != nil {
		t.Fatalf("a record without id and name is not an edit")
	}
	if in.Params.BaseListPrice != 250 {
		t.Fatalf("expected default base list price, got %v", in.Params.BaseListPrice)
	}
	if in.Params.SalePriceGross != pricing.DefaultSalePriceGross {
		t.Fatalf("expected legacy default sale price, got %v", in.Params.SalePriceGross)
	}
	if in.Measurements["Negro"].UnitCost != "32" {
		t.Fatalf("unexpected measurements: %+v", in.Measurements)
	}
}

func TestDecodeHandoffRejectsMalformedPayload(t *testing.T) {
	for _, raw := range []string{"", "{", "[1,2]"} {
		if _, err := DecodeHandoff([]byte(raw), pricing.DefaultParams()); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestRenderText(t *testing.T) {
	measurements := pricing.Measurements{"Negro": {Y: "10", Points: "5", UnitCost: "100"}}
	params := pricing.Params{BaseListPrice: 298.31, SalePriceGross: 1000}
	mix := Snapshot("RAL-9005", "Negro intenso", measurements, params, time.Now())
	in := Input{Measurements: measurements, Params: params, Mix: &mix}

	var buf bytes.Buffer
	if err := RenderText(&buf, in, Build(measurements, params), time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("render: %v", err)
	}

	body := buf.String()
	for _, expected := range []string{
		"Reporte de Costo de Producción RAL",
		"Mix: Negro intenso (ID: RAL-9005)",
		"Fecha: 2025-02-01 14:00",
		"Costo Total Colorantes",
		"$31.58",
		"UTILIDAD EN %",
		"56%",
	} {
		if !strings.Contains(body, expected) {
			t.Fatalf("expected body to contain %q, got: %s", expected, body)
		}
	}
}
