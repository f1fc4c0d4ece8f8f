package models

import (
	"fmt"
	"strconv"

	"RiskKit/internal/services/risk"
	"RiskKit/pkg/util"
)

// Requests for the risk HTTP endpoints. Bound and validated by pkg/http.

type SeriesInput struct {
	Name   string    `json:"name" validate:"max=128"`
	Index  []string  `json:"index" validate:"omitempty,max=100000"`
	Values []float64 `json:"values" validate:"required,min=1,max=100000"`
}

// Series converts the input; fallback names an unnamed series.
func (in SeriesInput) Series(fallback string) risk.Series {
	name := in.Name
	if name == "" {
		name = fallback
	}
	return risk.Series{Name: name, Index: in.Index, Values: in.Values}
}

type TableInput struct {
	Columns []SeriesInput `json:"columns" validate:"required,min=1,max=256,dive"`
}

// Table converts the input, naming unnamed columns col_0, col_1, ...
func (in TableInput) Table() risk.Table {
	t := risk.Table{Columns: make([]risk.Series, len(in.Columns))}
	for i, c := range in.Columns {
		t.Columns[i] = c.Series("col_" + strconv.Itoa(i))
	}
	return t
}

// ParamsInput carries optional report parameters; nil fields fall back to
// the configured defaults. Frequency is used only when PeriodsPerYear is unset.
type ParamsInput struct {
	Level          *float64 `json:"level" validate:"omitempty,gt=0,lt=100"`
	PeriodsPerYear *float64 `json:"periods_per_year" validate:"omitempty,gt=0"`
	Frequency      string   `json:"frequency" validate:"omitempty,oneof=D W M Q Y"`
	RiskFreeRate   *float64 `json:"riskfree_rate" validate:"omitempty,gt=-1"`
	NormalityLevel *float64 `json:"normality_level" validate:"omitempty,gt=0,lt=1"`
}

// Resolve fills def with whatever the caller supplied.
func (in ParamsInput) Resolve(def ReportParams) ReportParams {
	p := def
	if in.Level != nil {
		p.Level = *in.Level
	}
	if in.PeriodsPerYear != nil {
		p.PeriodsPerYear = *in.PeriodsPerYear
	} else if ppy, ok := risk.PeriodsPerYear(in.Frequency); ok {
		p.PeriodsPerYear = ppy
	}
	if in.RiskFreeRate != nil {
		p.RiskFreeRate = *in.RiskFreeRate
	}
	if in.NormalityLevel != nil {
		p.NormalityLevel = *in.NormalityLevel
	}
	return p
}

type DrawdownRequest struct {
	Series SeriesInput `json:"series"`
}

type MomentsRequest struct {
	Table TableInput `json:"table"`
}

type NormalityRequest struct {
	Table TableInput `json:"table"`
	Level *float64   `json:"level" validate:"omitempty,gt=0,lt=1"`
}

type VaRRequest struct {
	Table  TableInput `json:"table"`
	Level  *float64   `json:"level" validate:"omitempty,gt=0,lt=100"`
	Method string     `json:"method" default:"historic" validate:"oneof=historic cvar gaussian cornish_fisher"`
}

type SemideviationRequest struct {
	Table TableInput `json:"table"`
}

type PerformanceRequest struct {
	Table TableInput `json:"table"`
	ParamsInput
}

type ReportRequest struct {
	Table TableInput `json:"table"`
	ParamsInput
}

// StoredReportQuery selects stored series for GET /api/risk/report.
// Numeric parameters arrive as strings so an explicit zero can be told from
// an absent value.
type StoredReportQuery struct {
	Names          string `query:"names" validate:"required"`
	From           string `query:"from"`
	To             string `query:"to"`
	Limit          int    `query:"limit" validate:"gte=0,lte=100000"`
	Level          string `query:"level" validate:"omitempty,numeric"`
	PeriodsPerYear string `query:"periods_per_year" validate:"omitempty,numeric"`
	Frequency      string `query:"frequency" validate:"omitempty,oneof=D W M Q Y"`
	RiskFreeRate   string `query:"riskfree_rate" validate:"omitempty,numeric"`
	NormalityLevel string `query:"normality_level" validate:"omitempty,numeric"`
}

// Returns converts the query into a store query.
func (q StoredReportQuery) Returns() (ReturnsQuery, error) {
	rq := ReturnsQuery{Series: util.SplitList(q.Names), Limit: q.Limit}
	if len(rq.Series) == 0 {
		return rq, fmt.Errorf("names: at least one series is required")
	}
	if q.From != "" {
		t, err := util.ParsePeriod(q.From)
		if err != nil {
			return rq, fmt.Errorf("from: %w", err)
		}
		rq.From = t
	}
	if q.To != "" {
		t, err := util.ParsePeriod(q.To)
		if err != nil {
			return rq, fmt.Errorf("to: %w", err)
		}
		rq.To = t
	}
	if !rq.From.IsZero() && !rq.To.IsZero() && rq.To.Before(rq.From) {
		return rq, fmt.Errorf("to must not be before from")
	}
	return rq, nil
}

// Params parses the optional numeric parameters.
func (q StoredReportQuery) Params() (ParamsInput, error) {
	in := ParamsInput{Frequency: q.Frequency}
	fields := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"level", q.Level, &in.Level},
		{"periods_per_year", q.PeriodsPerYear, &in.PeriodsPerYear},
		{"riskfree_rate", q.RiskFreeRate, &in.RiskFreeRate},
		{"normality_level", q.NormalityLevel, &in.NormalityLevel},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return in, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = &v
	}
	return in, nil
}

type ObservationInput struct {
	Series string   `json:"series" validate:"required,max=128"`
	Period string   `json:"period" validate:"required"`
	Return *float64 `json:"return" validate:"required"`
}

type IngestRequest struct {
	Observations []ObservationInput `json:"observations" validate:"required,min=1,max=10000,dive"`
}

// Observations parses every period; the first bad row fails the batch.
func (r IngestRequest) ToObservations() ([]Observation, error) {
	out := make([]Observation, 0, len(r.Observations))
	for i, in := range r.Observations {
		p, err := util.ParsePeriod(in.Period)
		if err != nil {
			return nil, fmt.Errorf("observations[%d]: %w", i, err)
		}
		out = append(out, Observation{Series: in.Series, Period: p, Return: *in.Return})
	}
	return out, nil
}
