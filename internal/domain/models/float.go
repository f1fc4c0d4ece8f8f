package models

import (
	"bytes"
	"encoding/json"
	"math"

	"RiskKit/internal/services/risk"
)

// Float is a float64 that encodes NaN and ±Inf as JSON null. Degenerate
// statistics (e.g. the skewness of a constant series) are NaN and must not
// break the whole response.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Floats converts a float slice for encoding.
func Floats(xs []float64) []Float {
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

// NamedFloat is one per-column scalar.
type NamedFloat struct {
	Name  string `json:"name"`
	Value Float  `json:"value"`
}

// NamedFloats converts per-column results for encoding, keeping column order.
func NamedFloats(v risk.Values[float64]) []NamedFloat {
	out := make([]NamedFloat, len(v))
	for i, n := range v {
		out[i] = NamedFloat{Name: n.Name, Value: Float(n.Value)}
	}
	return out
}
