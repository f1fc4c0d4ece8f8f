package risk

import "math"

// Semideviation is the population standard deviation of the strictly
// negative returns only.
func Semideviation(s Series) float64 {
	neg := make([]float64, 0, s.Len())
	for _, v := range s.Values {
		if v < 0 {
			neg = append(neg, v)
		}
	}
	return popStdDev(neg)
}

// Semideviation3 measures dispersion below the mean: deviations from the
// overall mean that are negative are squared, averaged over their count and
// square-rooted. It is not the same number as Semideviation.
func Semideviation3(s Series) float64 {
	mu := mean(s.Values)
	var sum float64
	var n int
	for _, v := range s.Values {
		if d := v - mu; d < 0 {
			sum += d * d
			n++
		}
	}
	return math.Sqrt(sum / float64(n))
}

// SemideviationOf applies Semideviation per column.
func SemideviationOf(r Returns) (Values[float64], error) {
	return Apply(r, Semideviation)
}

// Semideviation3Of applies Semideviation3 per column.
func Semideviation3Of(r Returns) (Values[float64], error) {
	return Apply(r, Semideviation3)
}
