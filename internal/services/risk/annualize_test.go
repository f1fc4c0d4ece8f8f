package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualizeRets(t *testing.T) {
	assert.InDelta(t, 0.0722303532497861, AnnualizeRets(shortSeries, 12), tol)
	assert.InDelta(t, -0.05604560041001627, AnnualizeRets(tenSeries, 12), tol)
	assert.True(t, math.IsNaN(AnnualizeRets(Series{}, 12)))
}

func TestAnnualizeRetsFullYearIsCompoundedGrowth(t *testing.T) {
	s := Series{Values: []float64{0.01, 0.01, 0.01, 0.01}}
	assert.InDelta(t, math.Pow(1.01, 4)-1, AnnualizeRets(s, 4), tol)
}

func TestAnnualizeVol(t *testing.T) {
	assert.InDelta(t, 0.07183313998427188, AnnualizeVol(shortSeries, 12), tol)
	assert.InDelta(t, 0.14440683270999793, AnnualizeVol(tenSeries, 12), tol)
}

func TestSharpeRatio(t *testing.T) {
	assert.InDelta(t, 0.5721326295915237, SharpeRatio(shortSeries, 0.03, 12), tol)
	assert.InDelta(t, -0.5800241179931305, SharpeRatio(tenSeries, 0.03, 12), tol)
}

func TestSharpeRatioZeroVolatility(t *testing.T) {
	s := Series{Values: []float64{0.5, 0.5, 0.5}}
	assert.True(t, math.IsInf(SharpeRatio(s, 0, 12), 1))
}

func TestPerformanceOf(t *testing.T) {
	r, err := AnnualizeRetsOf(fixtureTable(), 12)
	require.NoError(t, err)
	v, err := AnnualizeVolOf(fixtureTable(), 12)
	require.NoError(t, err)
	sr, err := SharpeRatioOf(fixtureTable(), 0.03, 12)
	require.NoError(t, err)

	assert.InDelta(t, 0.0722303532497861, r.Map()["short"], tol)
	assert.InDelta(t, 0.14440683270999793, v.Map()["ten"], tol)
	assert.InDelta(t, -0.5800241179931305, sr.Map()["ten"], tol)
}

func TestPeriodsPerYear(t *testing.T) {
	for freq, want := range map[string]float64{"D": 252, "W": 52, "M": 12, "Q": 4, "Y": 1, "1M": 12} {
		got, ok := PeriodsPerYear(freq)
		assert.True(t, ok, freq)
		assert.Equal(t, want, got, freq)
	}
	_, ok := PeriodsPerYear("H")
	assert.False(t, ok)
}
