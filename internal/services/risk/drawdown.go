package risk

import "math"

// DrawdownBase is the starting wealth of every drawdown frame.
const DrawdownBase = 1000.0

// Frame is the wealth index, previous peaks and percentage drawdowns of a
// return series. All slices share the length and labels of the input.
type Frame struct {
	Index    []string  `json:"index,omitempty"`
	Wealth   []float64 `json:"wealth"`
	Peaks    []float64 `json:"peaks"`
	Drawdown []float64 `json:"drawdown"`
}

// Drawdown compounds s from DrawdownBase and measures each point against the
// running peak. Drawdown is <= 0 and is 0 at every new peak. A -100% return
// with a zero peak yields NaN, which is left as is.
func Drawdown(s Series) Frame {
	n := s.Len()
	f := Frame{
		Wealth:   make([]float64, n),
		Peaks:    make([]float64, n),
		Drawdown: make([]float64, n),
	}
	if len(s.Index) > 0 {
		f.Index = append([]string(nil), s.Index...)
	}

	wealth := DrawdownBase
	peak := math.Inf(-1)
	for i, r := range s.Values {
		wealth *= 1 + r
		if wealth > peak {
			peak = wealth
		}
		f.Wealth[i] = wealth
		f.Peaks[i] = peak
		f.Drawdown[i] = (wealth - peak) / peak
	}
	return f
}

// DrawdownOf computes a frame per column.
func DrawdownOf(r Returns) (Values[Frame], error) {
	return Apply(r, Drawdown)
}

// Len returns the number of rows.
func (f Frame) Len() int { return len(f.Wealth) }

// MaxDrawdown returns the deepest drawdown, its row and its period label.
// An empty frame returns NaN and position -1.
func (f Frame) MaxDrawdown() (value float64, pos int, label string) {
	value, pos = math.NaN(), -1
	for i, d := range f.Drawdown {
		if math.IsNaN(d) {
			continue
		}
		if pos < 0 || d < value {
			value, pos = d, i
		}
	}
	if pos >= 0 && pos < len(f.Index) {
		label = f.Index[pos]
	}
	return value, pos, label
}
