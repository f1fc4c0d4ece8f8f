package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"RiskKit/internal/domain/models"
	domrepo "RiskKit/internal/domain/repository"
	"RiskKit/internal/service/cache"
	"RiskKit/internal/services/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore() *fakeStore {
	s := &fakeStore{}
	for i, v := range short.Values {
		s.obs = append(s.obs, models.Observation{Series: "A", Period: month(2020, time.Month(i+1)), Return: v})
		s.obs = append(s.obs, models.Observation{Series: "B", Period: month(2020, time.Month(i+1)), Return: -v})
	}
	return s
}

func newTestReporter(store *fakeStore, pub *fakePublisher, c cache.BytesCache, m *fakeMetrics) *RiskReporter {
	// a nil *fakePublisher must reach the reporter as a nil interface
	var rp domrepo.ReportPublisher
	if pub != nil {
		rp = pub
	}
	return NewRiskReporter(store, rp, c, m, nil, RiskReporterConfig{
		Defaults:        defaultParams(),
		CacheTTL:        time.Minute,
		Timeout:         time.Second,
		MaxObservations: 100,
	})
}

func TestRiskReporter_ReportKeepsColumnOrder(t *testing.T) {
	m := newFakeMetrics()
	r := newTestReporter(nil, nil, nil, m)
	names := []string{"z", "a", "m", "b", "y", "c"}
	tbl := risk.Table{}
	for _, n := range names {
		s := short
		s.Name = n
		tbl.Columns = append(tbl.Columns, s)
	}

	rep, err := r.Report(context.Background(), tbl, defaultParams())

	require.NoError(t, err)
	require.Len(t, rep.Columns, len(names))
	for i, n := range names {
		assert.Equal(t, n, rep.Columns[i].Name)
		assert.Equal(t, 1, m.reports[n])
	}
	assert.Equal(t, defaultParams(), rep.Params)
}

func TestRiskReporter_ReportErrors(t *testing.T) {
	r := newTestReporter(nil, nil, nil, newFakeMetrics())

	_, err := r.Report(context.Background(), risk.Table{}, defaultParams())
	assert.ErrorIs(t, err, ErrEmptyTable)

	p := defaultParams()
	p.PeriodsPerYear = 0
	_, err = r.Report(context.Background(), risk.Table{Columns: []risk.Series{short}}, p)
	assert.ErrorIs(t, err, ErrInvalidParams)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Report(ctx, risk.Table{Columns: []risk.Series{short}}, defaultParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRiskReporter_StoredReportCachesAndPublishes(t *testing.T) {
	store := seedStore()
	pub := &fakePublisher{}
	r := newTestReporter(store, pub, cache.NewTTLCache(), newFakeMetrics())
	q := models.ReturnsQuery{Series: []string{"B", "A"}}

	first, err := r.StoredReport(context.Background(), q, defaultParams())
	require.NoError(t, err)
	require.Len(t, first.Columns, 2)
	assert.Equal(t, "B", first.Columns[0].Name)
	assert.Equal(t, "2020-01-01", first.Columns[1].FirstPeriod)
	assert.Equal(t, 100, store.queries[0].Limit)

	second, err := r.StoredReport(context.Background(), q, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, store.queryCount())
	assert.Equal(t, first.Columns[1].Name, second.Columns[1].Name)
	assert.InDelta(t, float64(first.Columns[1].VaRHistoric), float64(second.Columns[1].VaRHistoric), 1e-15)
	assert.Len(t, pub.reports, 1)

	// other parameters miss the cache
	p := defaultParams()
	p.Level = 1
	_, err = r.StoredReport(context.Background(), q, p)
	require.NoError(t, err)
	assert.Equal(t, 2, store.queryCount())

	_, err = r.RefreshReport(context.Background(), q, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, 3, store.queryCount())
}

func TestRiskReporter_StoredReportNaNSurvivesCache(t *testing.T) {
	store := &fakeStore{obs: []models.Observation{
		{Series: "flat", Period: month(2020, 1), Return: 0.25},
		{Series: "flat", Period: month(2020, 2), Return: 0.25},
	}}
	r := newTestReporter(store, nil, cache.NewTTLCache(), newFakeMetrics())
	q := models.ReturnsQuery{Series: []string{"flat"}}

	_, err := r.StoredReport(context.Background(), q, defaultParams())
	require.NoError(t, err)
	rep, err := r.StoredReport(context.Background(), q, defaultParams())
	require.NoError(t, err)

	assert.Equal(t, 1, store.queryCount())
	assert.True(t, math.IsNaN(float64(rep.Columns[0].Skewness)))
}

func TestRiskReporter_StoredReportMissingSeries(t *testing.T) {
	r := newTestReporter(seedStore(), nil, nil, newFakeMetrics())

	_, err := r.StoredReport(context.Background(), models.ReturnsQuery{Series: []string{"A", "nope"}}, defaultParams())

	assert.ErrorIs(t, err, ErrSeriesNotFound)
	assert.Contains(t, err.Error(), "nope")
}

func TestRiskReporter_PublishFailureIsNotFatal(t *testing.T) {
	m := newFakeMetrics()
	r := newTestReporter(seedStore(), &fakePublisher{err: errors.New("broker down")}, nil, m)

	rep, err := r.StoredReport(context.Background(), models.ReturnsQuery{Series: []string{"A"}}, defaultParams())

	require.NoError(t, err)
	assert.Len(t, rep.Columns, 1)
	assert.Equal(t, 1, m.errors["publish_report"])
}

func TestRiskReporter_StoreError(t *testing.T) {
	m := newFakeMetrics()
	r := newTestReporter(&fakeStore{err: errors.New("ch down")}, nil, nil, m)

	_, err := r.StoredReport(context.Background(), models.ReturnsQuery{Series: []string{"A"}}, defaultParams())

	assert.ErrorContains(t, err, "ch down")
	assert.Equal(t, 1, m.errors["query_returns"])
}
