package usecase

import (
	"context"
	"sync"
	"time"

	"RiskKit/internal/domain/models"
)

type fakeStore struct {
	mu      sync.Mutex
	obs     []models.Observation
	queries []models.ReturnsQuery
	err     error
}

func (s *fakeStore) Init(context.Context) error { return nil }

func (s *fakeStore) Store(ctx context.Context, o models.Observation) error {
	return s.StoreBatch(ctx, []models.Observation{o})
}

func (s *fakeStore) StoreBatch(_ context.Context, obs []models.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.obs = append(s.obs, obs...)
	return nil
}

func (s *fakeStore) Query(_ context.Context, q models.ReturnsQuery) ([]models.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	want := make(map[string]bool, len(q.Series))
	for _, name := range q.Series {
		want[name] = true
	}
	var out []models.Observation
	for _, o := range s.obs {
		if want[o.Series] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeStore) ListSeries(context.Context) ([]string, error) { return nil, nil }
func (s *fakeStore) Health(context.Context) error                 { return nil }
func (s *fakeStore) Close() error                                 { return nil }

func (s *fakeStore) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

type fakePublisher struct {
	mu      sync.Mutex
	obs     []models.Observation
	reports []*models.RiskReport
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, o models.Observation) error {
	return p.PublishBatch(ctx, []models.Observation{o})
}

func (p *fakePublisher) PublishBatch(_ context.Context, obs []models.Observation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.obs = append(p.obs, obs...)
	return nil
}

func (p *fakePublisher) PublishReport(_ context.Context, r *models.RiskReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.reports = append(p.reports, r)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu           sync.Mutex
	observations map[string]int
	errors       map[string]int
	reports      map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		observations: map[string]int{},
		errors:       map[string]int{},
		reports:      map[string]int{},
	}
}

func (m *fakeMetrics) RecordObservation(backend, series string) {
	m.mu.Lock()
	m.observations[backend+"/"+series]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

func (m *fakeMetrics) RecordReport(series string, _, _ float64) {
	m.mu.Lock()
	m.reports[series]++
	m.mu.Unlock()
}

type recordingStream struct {
	mu       sync.Mutex
	notified []string
}

func (s *recordingStream) Subscribe([]string) (<-chan struct{}, func()) {
	return make(chan struct{}), func() {}
}

func (s *recordingStream) Notify(series ...string) {
	s.mu.Lock()
	s.notified = append(s.notified, series...)
	s.mu.Unlock()
}

func month(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }

func defaultParams() models.ReportParams {
	return models.ReportParams{Level: 5, PeriodsPerYear: 12, RiskFreeRate: 0.03, NormalityLevel: 0.01}
}
