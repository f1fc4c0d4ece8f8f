package risk

import "gonum.org/v1/gonum/stat/distuv"

// DefaultNormalityLevel is the significance level used by IsNormal callers
// that have no preference (1%).
const DefaultNormalityLevel = 0.01

// JarqueBera returns the Jarque-Bera statistic of s and its p-value under a
// chi-square distribution with two degrees of freedom.
func JarqueBera(s Series) (statistic, pValue float64) {
	n := float64(s.Len())
	sk := Skewness(s)
	ek := Kurtosis(s) - 3
	statistic = n / 6 * (sk*sk + ek*ek/4)
	pValue = distuv.ChiSquared{K: 2}.Survival(statistic)
	return statistic, pValue
}

// IsNormal reports whether normality is not rejected at the given level,
// i.e. the Jarque-Bera p-value is above level.
func IsNormal(s Series, level float64) bool {
	_, p := JarqueBera(s)
	return p > level
}

// IsNormalOf runs the test independently for every column.
func IsNormalOf(r Returns, level float64) (Values[bool], error) {
	return Apply(r, func(s Series) bool { return IsNormal(s, level) })
}
