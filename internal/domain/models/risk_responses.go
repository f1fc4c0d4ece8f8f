package models

import "RiskKit/internal/services/risk"

// Responses of the risk HTTP endpoints. NaN figures encode as null.

type DrawdownResponse struct {
	Name              string   `json:"name"`
	Index             []string `json:"index,omitempty"`
	Wealth            []Float  `json:"wealth"`
	Peaks             []Float  `json:"peaks"`
	Drawdown          []Float  `json:"drawdown"`
	MaxDrawdown       Float    `json:"max_drawdown"`
	MaxDrawdownPeriod string   `json:"max_drawdown_period,omitempty"`
}

// NewDrawdownResponse encodes a drawdown frame of series name.
func NewDrawdownResponse(name string, f risk.Frame) DrawdownResponse {
	maxDD, _, label := f.MaxDrawdown()
	return DrawdownResponse{
		Name:              name,
		Index:             f.Index,
		Wealth:            Floats(f.Wealth),
		Peaks:             Floats(f.Peaks),
		Drawdown:          Floats(f.Drawdown),
		MaxDrawdown:       Float(maxDD),
		MaxDrawdownPeriod: label,
	}
}

type MomentsRow struct {
	Name     string `json:"name"`
	Skewness Float  `json:"skewness"`
	Kurtosis Float  `json:"kurtosis"`
}

type NormalityRow struct {
	Name       string `json:"name"`
	IsNormal   bool   `json:"is_normal"`
	JarqueBera Float  `json:"jarque_bera"`
	PValue     Float  `json:"p_value"`
}

type NormalityResponse struct {
	Level   float64        `json:"level"`
	Columns []NormalityRow `json:"columns"`
}

type VaRResponse struct {
	Method  string       `json:"method"`
	Level   float64      `json:"level"`
	Columns []NamedFloat `json:"columns"`
}

type SemideviationRow struct {
	Name           string `json:"name"`
	Semideviation  Float  `json:"semideviation"`
	Semideviation3 Float  `json:"semideviation3"`
}

type PerformanceRow struct {
	Name             string `json:"name"`
	AnnualizedReturn Float  `json:"annualized_return"`
	AnnualizedVol    Float  `json:"annualized_vol"`
	SharpeRatio      Float  `json:"sharpe_ratio"`
}

type PerformanceResponse struct {
	PeriodsPerYear float64          `json:"periods_per_year"`
	RiskFreeRate   float64          `json:"riskfree_rate"`
	Columns        []PerformanceRow `json:"columns"`
}

type IngestResponse struct {
	Accepted int    `json:"accepted"`
	Backend  string `json:"backend"`
}

// StreamMessage is one websocket frame of the report stream.
type StreamMessage struct {
	Type    string      `json:"type"` // report | error
	Report  *RiskReport `json:"report,omitempty"`
	Message string      `json:"message,omitempty"`
}
