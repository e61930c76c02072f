package pricing

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Measurement is the raw text a user typed for one colorant.
type Measurement struct {
	Y        string `json:"y"`
	Points   string `json:"points"`
	UnitCost string `json:"unitCost"`
}

// Measurements maps colorant names to their measurement.
type Measurements map[string]Measurement

// Clone returns a deep copy of the mapping.
func (ms Measurements) Clone() Measurements {
	if ms == nil {
		return Measurements{}
	}
	out := make(Measurements, len(ms))
	for name, m := range ms {
		out[name] = m
	}
	return out
}

// UnmarshalJSON accepts numbers as well as strings, and the short keys
// ("pts", "cost") written by older clients.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Y = rawText(raw["y"])
	m.Points = rawText(firstPresent(raw, "points", "pts"))
	m.UnitCost = rawText(firstPresent(raw, "unitCost", "cost"))
	return nil
}

func firstPresent(raw map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

func rawText(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads the leading decimal number of text. Empty, unparseable
// and non-finite input yields 0.
func ParseAmount(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		match := leadingNumber.FindString(s)
		if match == "" {
			return 0
		}
		if v, err = strconv.ParseFloat(match, 64); err != nil {
			return 0
		}
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
