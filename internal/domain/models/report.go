package models

import "time"

// ReportParams are the knobs shared by every column of a report.
type ReportParams struct {
	Level          float64 `json:"level"`
	PeriodsPerYear float64 `json:"periods_per_year"`
	RiskFreeRate   float64 `json:"riskfree_rate"`
	NormalityLevel float64 `json:"normality_level"`
}

// ColumnReport summarizes the risk profile of one return series.
type ColumnReport struct {
	Name              string `json:"name"`
	Observations      int    `json:"observations"`
	FirstPeriod       string `json:"first_period,omitempty"`
	LastPeriod        string `json:"last_period,omitempty"`
	AnnualizedReturn  Float  `json:"annualized_return"`
	AnnualizedVol     Float  `json:"annualized_vol"`
	SharpeRatio       Float  `json:"sharpe_ratio"`
	Skewness          Float  `json:"skewness"`
	Kurtosis          Float  `json:"kurtosis"`
	JarqueBera        Float  `json:"jarque_bera"`
	JarqueBeraPValue  Float  `json:"jarque_bera_p_value"`
	IsNormal          bool   `json:"is_normal"`
	Semideviation     Float  `json:"semideviation"`
	Semideviation3    Float  `json:"semideviation3"`
	VaRHistoric       Float  `json:"var_historic"`
	CVaRHistoric      Float  `json:"cvar_historic"`
	VaRGaussian       Float  `json:"var_gaussian"`
	VaRCornishFisher  Float  `json:"var_cornish_fisher"`
	MaxDrawdown       Float  `json:"max_drawdown"`
	MaxDrawdownPeriod string `json:"max_drawdown_period,omitempty"`
}

// RiskReport is the per-column summary of a table, in input column order.
type RiskReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Params      ReportParams   `json:"params"`
	Columns     []ColumnReport `json:"columns"`
}

// Column finds a column by name.
func (r *RiskReport) Column(name string) (ColumnReport, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnReport{}, false
}
