package risk

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// AnnualizeRets compounds the series and rescales the growth geometrically:
// (prod(1+r))^(periodsPerYear/n) - 1. An empty series returns NaN.
func AnnualizeRets(s Series, periodsPerYear float64) float64 {
	n := s.Len()
	if n == 0 {
		return math.NaN()
	}
	growth := 1.0
	for _, r := range s.Values {
		growth *= 1 + r
	}
	return math.Pow(growth, periodsPerYear/float64(n)) - 1
}

// AnnualizeVol scales the sample standard deviation (divisor n-1) by
// sqrt(periodsPerYear).
func AnnualizeVol(s Series, periodsPerYear float64) float64 {
	return stat.StdDev(s.Values, nil) * math.Sqrt(periodsPerYear)
}

// SharpeRatio converts the annual risk-free rate to a per-period rate,
// annualizes the excess returns and divides by the annualized volatility of
// the raw returns.
func SharpeRatio(s Series, riskfreeRate, periodsPerYear float64) float64 {
	rfPerPeriod := math.Pow(1+riskfreeRate, 1/periodsPerYear) - 1
	excess := Series{Name: s.Name, Index: s.Index, Values: make([]float64, s.Len())}
	for i, r := range s.Values {
		excess.Values[i] = r - rfPerPeriod
	}
	return AnnualizeRets(excess, periodsPerYear) / AnnualizeVol(s, periodsPerYear)
}

// AnnualizeRetsOf applies AnnualizeRets per column.
func AnnualizeRetsOf(r Returns, periodsPerYear float64) (Values[float64], error) {
	return Apply(r, func(s Series) float64 { return AnnualizeRets(s, periodsPerYear) })
}

// AnnualizeVolOf applies AnnualizeVol per column.
func AnnualizeVolOf(r Returns, periodsPerYear float64) (Values[float64], error) {
	return Apply(r, func(s Series) float64 { return AnnualizeVol(s, periodsPerYear) })
}

// SharpeRatioOf applies SharpeRatio per column.
func SharpeRatioOf(r Returns, riskfreeRate, periodsPerYear float64) (Values[float64], error) {
	return Apply(r, func(s Series) float64 { return SharpeRatio(s, riskfreeRate, periodsPerYear) })
}
