package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawdown(t *testing.T) {
	f := Drawdown(shortSeries)
	require.Equal(t, 5, f.Len())
	assert.Equal(t, shortSeries.Index, f.Index)

	wantWealth := []float64{1010, 989.8, 1019.494, 1009.29906, 1029.4850412}
	wantPeaks := []float64{1010, 1010, 1019.494, 1019.494, 1029.4850412}
	wantDD := []float64{0, -0.02, 0, -0.01, 0}
	assert.InDeltaSlice(t, wantWealth, f.Wealth, 1e-7)
	assert.InDeltaSlice(t, wantPeaks, f.Peaks, 1e-7)
	assert.InDeltaSlice(t, wantDD, f.Drawdown, tol)
}

func TestDrawdownInvariants(t *testing.T) {
	f := Drawdown(tenSeries)
	for i := range f.Wealth {
		assert.GreaterOrEqual(t, f.Peaks[i], f.Wealth[i])
		assert.LessOrEqual(t, f.Drawdown[i], 0.0)
		if i > 0 {
			assert.GreaterOrEqual(t, f.Peaks[i], f.Peaks[i-1])
		}
		if f.Wealth[i] == f.Peaks[i] {
			assert.Equal(t, 0.0, f.Drawdown[i])
		}
	}
	assert.Nil(t, f.Index)
}

func TestDrawdownAllZeroReturns(t *testing.T) {
	f := Drawdown(Series{Values: []float64{0, 0, 0, 0}})
	require.Equal(t, 4, f.Len())
	assert.Equal(t, []float64{1000, 1000, 1000, 1000}, f.Wealth)
	assert.Equal(t, f.Wealth, f.Peaks)
	assert.Equal(t, []float64{0, 0, 0, 0}, f.Drawdown)
}

func TestDrawdownStrictlyIncreasing(t *testing.T) {
	f := Drawdown(Series{Values: []float64{0.01, 0.02, 0.005}})
	require.Equal(t, 3, f.Len())
	for i := range f.Wealth {
		if i > 0 {
			assert.Greater(t, f.Wealth[i], f.Wealth[i-1])
		}
		assert.Equal(t, f.Wealth[i], f.Peaks[i])
		assert.Equal(t, 0.0, f.Drawdown[i])
	}
}

func TestDrawdownFirstLossBecomesPeak(t *testing.T) {
	f := Drawdown(Series{Values: []float64{-0.1, 0.05}})
	assert.InDelta(t, 900, f.Peaks[0], tol)
	assert.Equal(t, 0.0, f.Drawdown[0])
	assert.InDelta(t, 945, f.Wealth[1], tol)
	assert.InDelta(t, 945, f.Peaks[1], tol)
}

func TestDrawdownTotalLossIsNaN(t *testing.T) {
	f := Drawdown(Series{Values: []float64{-1}})
	assert.Equal(t, 0.0, f.Wealth[0])
	assert.True(t, math.IsNaN(f.Drawdown[0]))
}

func TestDrawdownEmpty(t *testing.T) {
	f := Drawdown(Series{})
	assert.Equal(t, 0, f.Len())
	v, pos, label := f.MaxDrawdown()
	assert.True(t, math.IsNaN(v))
	assert.Equal(t, -1, pos)
	assert.Empty(t, label)
}

func TestMaxDrawdown(t *testing.T) {
	v, pos, label := Drawdown(shortSeries).MaxDrawdown()
	assert.InDelta(t, -0.02, v, tol)
	assert.Equal(t, 1, pos)
	assert.Equal(t, "2020-02", label)
}

func TestDrawdownOfTable(t *testing.T) {
	out, err := DrawdownOf(fixtureTable())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 10, out[1].Value.Len())
}
