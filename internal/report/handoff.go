package report

import (
	"encoding/json"
	"fmt"

	"github.com/cirovladimir/ral-color-mix/internal/mixes"
	"github.com/cirovladimir/ral-color-mix/internal/pricing"
)

// Input is what a report is computed from.
type Input struct {
	Measurements pricing.Measurements `json:"measurements"`
	Params       pricing.Params       `json:"params"`
	// Mix is set when the report edits a saved mix.
	Mix *mixes.Mix `json:"mix,omitempty"`
}

// DecodeHandoff accepts either a measurement mapping keyed by colorant name
// or a full mix record. Zero prices fall back to defaults.
func DecodeHandoff(raw []byte, defaults pricing.Params) (Input, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return Input{}, fmt.Errorf("decode report payload: %w", err)
	}

	if !isMixRecord(keys) {
		var measurements pricing.Measurements
		if err := json.Unmarshal(raw, &measurements); err != nil {
			return Input{}, fmt.Errorf("decode measurements: %w", err)
		}
		if measurements == nil {
			measurements = pricing.Measurements{}
		}
		return Input{Measurements: measurements, Params: defaults}, nil
	}

	var mix mixes.Mix
	if err := json.Unmarshal(raw, &mix); err != nil {
		return Input{}, fmt.Errorf("decode mix: %w", err)
	}

	params := mix.Params()
	if params.BaseListPrice == 0 {
		params.BaseListPrice = defaults.BaseListPrice
	}
	if params.SalePriceGross == 0 {
		params.SalePriceGross = defaults.SalePriceGross
	}

	in := Input{Measurements: mix.Measurements.Clone(), Params: params}
	if mix.ID != "" && mix.Name != "" {
		in.Mix = &mix
	}
	return in, nil
}

func isMixRecord(keys map[string]json.RawMessage) bool {
	for _, k := range []string{"id", "measurements", "points"} {
		if _, ok := keys[k]; ok {
			return true
		}
	}
	return false
}
