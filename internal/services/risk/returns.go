package risk

import "errors"

// ErrUnsupportedReturns is returned when the input is neither a Series nor a Table.
var ErrUnsupportedReturns = errors.New("risk: expected returns to be a Series or a Table")

// Returns is either a single Series or a Table of Series.
type Returns interface {
	isReturns()
}

// Series is an ordered sequence of periodic returns (0.01 = 1%).
// Index holds the period labels and may be empty or shorter than Values.
type Series struct {
	Name   string    `json:"name"`
	Index  []string  `json:"index,omitempty"`
	Values []float64 `json:"values"`
}

// Table maps asset names to their return series. Column order is preserved.
type Table struct {
	Columns []Series `json:"columns"`
}

func (Series) isReturns() {}

func (Table) isReturns() {}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Values) }

// Label returns the period label at i, or "" when the series carries no index.
func (s Series) Label(i int) string {
	if i < 0 || i >= len(s.Index) {
		return ""
	}
	return s.Index[i]
}

// Names returns the column names in order.
func (t Table) Names() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Name)
	}
	return out
}

// Column finds a column by name.
func (t Table) Column(name string) (Series, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Series{}, false
}

// Named is one per-column result.
type Named[T any] struct {
	Name  string `json:"name"`
	Value T      `json:"value"`
}

// Values holds per-column results in input column order.
type Values[T any] []Named[T]

// Get returns the value computed for column name.
func (v Values[T]) Get(name string) (T, bool) {
	for _, n := range v {
		if n.Name == name {
			return n.Value, true
		}
	}
	var zero T
	return zero, false
}

// Scalar returns the first value; it is the result when the input was a Series.
func (v Values[T]) Scalar() T {
	if len(v) == 0 {
		var zero T
		return zero
	}
	return v[0].Value
}

// Map converts the result to a name -> value map.
func (v Values[T]) Map() map[string]T {
	out := make(map[string]T, len(v))
	for _, n := range v {
		out[n.Name] = n.Value
	}
	return out
}

// Apply runs fn independently over every column of r. A Series is treated as a
// single-column table so each statistic only has to be written once.
func Apply[T any](r Returns, fn func(Series) T) (Values[T], error) {
	cols, err := columnsOf(r)
	if err != nil {
		return nil, err
	}
	out := make(Values[T], 0, len(cols))
	for _, c := range cols {
		out = append(out, Named[T]{Name: c.Name, Value: fn(c)})
	}
	return out, nil
}

func columnsOf(r Returns) ([]Series, error) {
	switch v := r.(type) {
	case Series:
		return []Series{v}, nil
	case Table:
		return v.Columns, nil
	case *Series:
		if v != nil {
			return []Series{*v}, nil
		}
	case *Table:
		if v != nil {
			return v.Columns, nil
		}
	}
	return nil, ErrUnsupportedReturns
}
