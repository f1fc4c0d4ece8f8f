package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkewnessAndKurtosis(t *testing.T) {
	assert.InDelta(t, -0.15798755143759594, Skewness(shortSeries), tol)
	assert.InDelta(t, 1.5091941590048674, Kurtosis(shortSeries), tol)
	assert.InDelta(t, -0.419839580480529, Skewness(tenSeries), tol)
	assert.InDelta(t, 2.13896429248893, Kurtosis(tenSeries), tol)
}

func TestSkewnessOfSymmetricSeriesIsZero(t *testing.T) {
	s := Series{Values: []float64{-0.02, -0.01, 0, 0.01, 0.02}}
	assert.InDelta(t, 0, Skewness(s), tol)
}

func TestKurtosisIsRaw(t *testing.T) {
	// Two-point distribution: every deviation equals sigma, so E[d^4]/sigma^4 = 1.
	s := Series{Values: []float64{-0.01, 0.01, -0.01, 0.01}}
	assert.InDelta(t, 1, Kurtosis(s), tol)
}

func TestMomentsOfConstantSeriesAreNaN(t *testing.T) {
	s := Series{Values: []float64{0.25, 0.25, 0.25}}
	assert.True(t, math.IsNaN(Skewness(s)))
	assert.True(t, math.IsNaN(Kurtosis(s)))
}

func TestMomentsOf(t *testing.T) {
	sk, err := SkewnessOf(fixtureTable())
	require.NoError(t, err)
	k, err := KurtosisOf(fixtureTable())
	require.NoError(t, err)

	v, _ := sk.Get("ten")
	assert.InDelta(t, -0.419839580480529, v, tol)
	v, _ = k.Get("short")
	assert.InDelta(t, 1.5091941590048674, v, tol)
}

func TestJarqueBera(t *testing.T) {
	stat, p := JarqueBera(shortSeries)
	assert.InDelta(t, 0.48382131691295677, stat, tol)
	assert.InDelta(t, 0.7851263188157009, p, 1e-9)

	stat, p = JarqueBera(tenSeries)
	assert.InDelta(t, 0.602684826233898, stat, tol)
	assert.InDelta(t, 0.7398244037906593, p, 1e-9)
}

func TestJarqueBeraUsesExcessKurtosis(t *testing.T) {
	n := float64(tenSeries.Len())
	sk, k := Skewness(tenSeries), Kurtosis(tenSeries)
	stat, _ := JarqueBera(tenSeries)
	assert.InDelta(t, n/6*(sk*sk+(k-3)*(k-3)/4), stat, tol)
}

func TestIsNormal(t *testing.T) {
	assert.True(t, IsNormal(tenSeries, DefaultNormalityLevel))
	// p ~= 0.74, so a level above it rejects.
	assert.False(t, IsNormal(tenSeries, 0.8))

	heavy := make([]float64, 0, 200)
	for i := 0; i < 198; i++ {
		heavy = append(heavy, 0.001*float64(i%3-1))
	}
	heavy = append(heavy, 0.5, -0.5)
	assert.False(t, IsNormal(Series{Values: heavy}, DefaultNormalityLevel))
}

func TestIsNormalOf(t *testing.T) {
	out, err := IsNormalOf(fixtureTable(), DefaultNormalityLevel)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"short": true, "ten": true}, out.Map())
}
