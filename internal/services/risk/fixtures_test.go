package risk

const tol = 1e-9

var (
	shortSeries = Series{
		Name:   "short",
		Index:  []string{"2020-01", "2020-02", "2020-03", "2020-04", "2020-05"},
		Values: []float64{0.01, -0.02, 0.03, -0.01, 0.02},
	}
	tenSeries = Series{
		Name:   "ten",
		Values: []float64{-0.05, 0.03, -0.02, 0.01, -0.08, 0.04, -0.01, 0.02, -0.03, 0.05},
	}
)

func fixtureTable() Table {
	return Table{Columns: []Series{shortSeries, tenSeries}}
}
