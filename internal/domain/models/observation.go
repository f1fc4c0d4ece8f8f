package models

import (
	"encoding/json"
	"fmt"
	"time"

	"RiskKit/pkg/util"
)

// Observation is one periodic return of one series, e.g. the May 2020
// return of "SmallCap".
type Observation struct {
	Series string
	Period time.Time
	Return float64
}

type observationWire struct {
	Series string  `json:"series"`
	Period string  `json:"period"`
	Return float64 `json:"return"`
}

// MarshalJSON writes the period as YYYY-MM-DD.
func (o Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal(observationWire{Series: o.Series, Period: util.FormatPeriod(o.Period), Return: o.Return})
}

func (o *Observation) UnmarshalJSON(b []byte) error {
	var w observationWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	p, err := util.ParsePeriod(w.Period)
	if err != nil {
		return err
	}
	*o = Observation{Series: w.Series, Period: p, Return: w.Return}
	return nil
}

// Validate checks the fields a stored observation cannot do without.
func (o Observation) Validate() error {
	if o.Series == "" {
		return fmt.Errorf("observation: series is required")
	}
	if o.Period.IsZero() {
		return fmt.Errorf("observation %s: period is required", o.Series)
	}
	return nil
}

// ReturnsQuery selects stored observations. Zero From/To leave the range open.
// Limit keeps the latest Limit periods per series when positive.
type ReturnsQuery struct {
	Series []string
	From   time.Time
	To     time.Time
	Limit  int
}
