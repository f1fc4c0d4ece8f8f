package risk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

func mean(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// popStdDev is the standard deviation normalized by N.
func popStdDev(xs []float64) float64 {
	_, std := stat.PopMeanStdDev(xs, nil)
	return std
}

// Percentile returns the p-th percentile (0..100) of xs using linear
// interpolation between the two closest ranks, rank = p/100*(n-1).
// p outside [0, 100] yields NaN.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 || !(p >= 0 && p <= 100) {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// PeriodsPerYear maps a sampling frequency code to the number of periods in a year.
func PeriodsPerYear(freq string) (float64, bool) {
	switch freq {
	case "D", "1d":
		return 252, true
	case "W", "1w":
		return 52, true
	case "M", "1M":
		return 12, true
	case "Q":
		return 4, true
	case "Y", "A":
		return 1, true
	default:
		return 0, false
	}
}
