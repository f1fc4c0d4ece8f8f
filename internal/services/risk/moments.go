package risk

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Skewness is E[(r-mean)^3] / sigma^3 with the population sigma.
// A constant series divides by zero and yields NaN.
func Skewness(s Series) float64 {
	sigma := popStdDev(s.Values)
	return stat.Moment(3, s.Values, nil) / math.Pow(sigma, 3)
}

// Kurtosis is E[(r-mean)^4] / sigma^4 with the population sigma. This is the
// raw kurtosis: a normal distribution scores 3.
func Kurtosis(s Series) float64 {
	sigma := popStdDev(s.Values)
	return stat.Moment(4, s.Values, nil) / math.Pow(sigma, 4)
}

// SkewnessOf applies Skewness per column.
func SkewnessOf(r Returns) (Values[float64], error) {
	return Apply(r, Skewness)
}

// KurtosisOf applies Kurtosis per column.
func KurtosisOf(r Returns) (Values[float64], error) {
	return Apply(r, Kurtosis)
}
