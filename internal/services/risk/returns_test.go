package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySeriesIsSingleColumn(t *testing.T) {
	out, err := Apply(shortSeries, func(s Series) int { return s.Len() })
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "short", out[0].Name)
	assert.Equal(t, 5, out.Scalar())
}

func TestApplyTableKeepsColumnOrder(t *testing.T) {
	out, err := Apply(fixtureTable(), func(s Series) int { return s.Len() })
	require.NoError(t, err)
	assert.Equal(t, Values[int]{{Name: "short", Value: 5}, {Name: "ten", Value: 10}}, out)

	v, ok := out.Get("ten")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	_, ok = out.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, map[string]int{"short": 5, "ten": 10}, out.Map())
}

func TestApplyPointers(t *testing.T) {
	tbl := fixtureTable()
	out, err := Apply(&tbl, func(s Series) string { return s.Name })
	require.NoError(t, err)
	assert.Len(t, out, 2)

	s := shortSeries
	out, err = Apply(&s, func(s Series) string { return s.Name })
	require.NoError(t, err)
	assert.Equal(t, "short", out.Scalar())
}

func TestApplyRejectsUnsupportedInput(t *testing.T) {
	cases := []struct {
		name string
		in   Returns
	}{
		{"nil", nil},
		{"nil series pointer", (*Series)(nil)},
		{"nil table pointer", (*Table)(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(tc.in, func(Series) float64 { return 0 })
			assert.ErrorIs(t, err, ErrUnsupportedReturns)
		})
	}
}

func TestLiftedOperationsPropagateTypeError(t *testing.T) {
	_, err := SkewnessOf(nil)
	assert.ErrorIs(t, err, ErrUnsupportedReturns)
	_, err = VaRHistoricOf(nil, DefaultVaRLevel)
	assert.ErrorIs(t, err, ErrUnsupportedReturns)
	_, err = DrawdownOf(nil)
	assert.ErrorIs(t, err, ErrUnsupportedReturns)
}

func TestEmptyTable(t *testing.T) {
	out, err := KurtosisOf(Table{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTableNamesAndColumn(t *testing.T) {
	tbl := fixtureTable()
	assert.Equal(t, []string{"short", "ten"}, tbl.Names())

	c, ok := tbl.Column("ten")
	require.True(t, ok)
	assert.Equal(t, 10, c.Len())
	_, ok = tbl.Column("nope")
	assert.False(t, ok)

	assert.Equal(t, "2020-02", shortSeries.Label(1))
	assert.Equal(t, "", tenSeries.Label(1))
	assert.Equal(t, "", shortSeries.Label(99))
}
