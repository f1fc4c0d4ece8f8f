package risk

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultVaRLevel is the default tail percentile (5 = 5th percentile).
const DefaultVaRLevel = 5.0

// VaRMethod selects how a VaR figure is estimated.
type VaRMethod string

const (
	VaRMethodHistoric      VaRMethod = "historic"
	VaRMethodConditional   VaRMethod = "cvar"
	VaRMethodGaussian      VaRMethod = "gaussian"
	VaRMethodCornishFisher VaRMethod = "cornish_fisher"
)

// VaRHistoric is the negated level-th percentile of the observed returns, so a
// larger positive number means a larger loss.
func VaRHistoric(s Series, level float64) float64 {
	return -Percentile(s.Values, level)
}

// CVaRHistoric is the negated mean of every return at or below the historic
// VaR threshold.
func CVaRHistoric(s Series, level float64) float64 {
	cutoff := -VaRHistoric(s, level)
	beyond := make([]float64, 0, s.Len())
	for _, v := range s.Values {
		if v <= cutoff {
			beyond = append(beyond, v)
		}
	}
	return -mean(beyond)
}

// VaRGaussian is the parametric VaR -(mean + z*sigma) with z the standard
// normal quantile at level/100 and sigma the population standard deviation.
// When modified is set z is adjusted by the Cornish-Fisher expansion using the
// sample skewness s and raw kurtosis k:
//
//	z + (z²-1)s/6 + (z³-3z)(k-3)/24 - (2z³-5z)s²/36
func VaRGaussian(s Series, level float64, modified bool) float64 {
	z := distuv.UnitNormal.Quantile(level / 100)
	if modified {
		sk := Skewness(s)
		k := Kurtosis(s)
		z = z +
			(z*z-1)*sk/6 +
			(z*z*z-3*z)*(k-3)/24 -
			(2*z*z*z-5*z)*(sk*sk)/36
	}
	return -(mean(s.Values) + z*popStdDev(s.Values))
}

var estimators = map[VaRMethod]func(Series, float64) float64{
	VaRMethodHistoric:      VaRHistoric,
	VaRMethodConditional:   CVaRHistoric,
	VaRMethodGaussian:      gaussianVaR,
	VaRMethodCornishFisher: cornishFisherVaR,
}

func gaussianVaR(s Series, level float64) float64 { return VaRGaussian(s, level, false) }
func cornishFisherVaR(s Series, level float64) float64 { return VaRGaussian(s, level, true) }

// Valid reports whether m names a known estimator.
func (m VaRMethod) Valid() bool {
	_, ok := estimators[m]
	return ok
}

func (m VaRMethod) estimator() (func(Series, float64) float64, error) {
	fn, ok := estimators[m]
	if !ok {
		return nil, fmt.Errorf("risk: unknown var method %q", m)
	}
	return fn, nil
}

// VaR dispatches to the estimator named by method.
func VaR(s Series, level float64, method VaRMethod) (float64, error) {
	fn, err := method.estimator()
	if err != nil {
		return 0, err
	}
	return fn(s, level), nil
}

// VaRHistoricOf applies VaRHistoric per column.
func VaRHistoricOf(r Returns, level float64) (Values[float64], error) {
	return Apply(r, func(s Series) float64 { return VaRHistoric(s, level) })
}

// CVaRHistoricOf applies CVaRHistoric per column.
func CVaRHistoricOf(r Returns, level float64) (Values[float64], error) {
	return Apply(r, func(s Series) float64 { return CVaRHistoric(s, level) })
}

// VaRGaussianOf applies VaRGaussian per column.
func VaRGaussianOf(r Returns, level float64, modified bool) (Values[float64], error) {
	return Apply(r, func(s Series) float64 { return VaRGaussian(s, level, modified) })
}

// VaROf applies VaR per column. An unknown method fails before any column is visited.
func VaROf(r Returns, level float64, method VaRMethod) (Values[float64], error) {
	fn, err := method.estimator()
	if err != nil {
		return nil, err
	}
	return Apply(r, func(s Series) float64 { return fn(s, level) })
}
