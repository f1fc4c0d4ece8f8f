package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	xs := []float64{3, 1, 2, 5, 4}
	assert.InDelta(t, 3, Percentile(xs, 50), tol)
	assert.InDelta(t, 1, Percentile(xs, 0), tol)
	assert.InDelta(t, 5, Percentile(xs, 100), tol)
	assert.InDelta(t, 1.2, Percentile(xs, 5), tol)
	assert.Equal(t, []float64{3, 1, 2, 5, 4}, xs, "input must not be reordered")
	assert.True(t, math.IsNaN(Percentile(nil, 5)))
	assert.True(t, math.IsNaN(Percentile(xs, 150)))
	assert.True(t, math.IsNaN(Percentile(xs, -50)))
	assert.True(t, math.IsNaN(Percentile(xs, math.NaN())))
}

func TestVaRHistoric(t *testing.T) {
	assert.InDelta(t, 0.018, VaRHistoric(shortSeries, DefaultVaRLevel), tol)
	assert.InDelta(t, 0.0665, VaRHistoric(tenSeries, DefaultVaRLevel), tol)
	assert.InDelta(t, -0.01, VaRHistoric(shortSeries, 50), tol)
	assert.InDelta(t, 0, VaRHistoric(tenSeries, 50), tol)
}

func TestCVaRHistoric(t *testing.T) {
	assert.InDelta(t, 0.02, CVaRHistoric(shortSeries, DefaultVaRLevel), tol)
	assert.InDelta(t, 0.08, CVaRHistoric(tenSeries, DefaultVaRLevel), tol)
	assert.GreaterOrEqual(t, CVaRHistoric(tenSeries, 10), VaRHistoric(tenSeries, 10))
}

func TestVaRGaussian(t *testing.T) {
	assert.InDelta(t, 0.024507490034560736, VaRGaussian(shortSeries, DefaultVaRLevel, false), tol)
	assert.InDelta(t, 0.06904974990117355, VaRGaussian(tenSeries, DefaultVaRLevel, false), tol)
}

func TestVaRCornishFisher(t *testing.T) {
	assert.InDelta(t, 0.025889738871998927, VaRGaussian(shortSeries, DefaultVaRLevel, true), tol)
	assert.InDelta(t, 0.07432569650386905, VaRGaussian(tenSeries, DefaultVaRLevel, true), tol)
}

func TestCornishFisherUsesExcessKurtosis(t *testing.T) {
	z := -1.6448536269514726
	s, k := Skewness(tenSeries), Kurtosis(tenSeries)
	zcf := z + (z*z-1)*s/6 + (z*z*z-3*z)*(k-3)/24 - (2*z*z*z-5*z)*s*s/36
	want := -(mean(tenSeries.Values) + zcf*popStdDev(tenSeries.Values))
	assert.InDelta(t, want, VaRGaussian(tenSeries, DefaultVaRLevel, true), 1e-9)
}

func TestVaRDispatch(t *testing.T) {
	cases := []struct {
		method VaRMethod
		want   float64
	}{
		{VaRMethodHistoric, 0.018},
		{VaRMethodConditional, 0.02},
		{VaRMethodGaussian, 0.024507490034560736},
		{VaRMethodCornishFisher, 0.025889738871998927},
	}
	for _, tc := range cases {
		t.Run(string(tc.method), func(t *testing.T) {
			got, err := VaR(shortSeries, DefaultVaRLevel, tc.method)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, tol)
		})
	}

	_, err := VaR(shortSeries, DefaultVaRLevel, "monte_carlo")
	assert.Error(t, err)
}

func TestVaROf(t *testing.T) {
	out, err := VaROf(fixtureTable(), DefaultVaRLevel, VaRMethodHistoric)
	require.NoError(t, err)
	assert.InDelta(t, 0.0665, out.Map()["ten"], tol)

	_, err = VaROf(fixtureTable(), DefaultVaRLevel, "bogus")
	assert.Error(t, err)

	cf, err := VaROf(fixtureTable(), DefaultVaRLevel, VaRMethodCornishFisher)
	require.NoError(t, err)
	want, err := VaRGaussianOf(fixtureTable(), DefaultVaRLevel, true)
	require.NoError(t, err)
	assert.Equal(t, want, cf)

	cv, err := CVaRHistoricOf(fixtureTable(), DefaultVaRLevel)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, cv.Map()["short"], tol)

	g, err := VaRGaussianOf(tenSeries, DefaultVaRLevel, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.06904974990117355, g.Scalar(), tol)
}

func TestVaRMethodValid(t *testing.T) {
	for _, m := range []VaRMethod{VaRMethodHistoric, VaRMethodConditional, VaRMethodGaussian, VaRMethodCornishFisher} {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, VaRMethod("monte_carlo").Valid())
	assert.False(t, VaRMethod("").Valid())
}

func TestVaRHistoricOutOfRangeLevel(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.True(t, math.IsNaN(VaRHistoric(shortSeries, 150)))
		assert.True(t, math.IsNaN(VaRHistoric(shortSeries, -50)))
	})
}
