package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	"RiskKit/internal/domain/models"
	domrepo "RiskKit/internal/domain/repository"
	"RiskKit/internal/service/cache"
	"RiskKit/internal/services/risk"
	applogger "RiskKit/pkg/logger"
	"RiskKit/pkg/util"

	"golang.org/x/sync/errgroup"
)

// RiskReporterConfig holds the reporter's defaults and limits.
type RiskReporterConfig struct {
	Defaults        models.ReportParams
	CacheTTL        time.Duration
	Timeout         time.Duration
	MaxObservations int
}

// RiskReporter composes per-column risk reports. Stored reports are cached
// and announced on the reports topic.
type RiskReporter struct {
	store   domrepo.ReturnStore
	pub     domrepo.ReportPublisher
	cache   cache.BytesCache
	metrics domrepo.Metrics
	l       *applogger.Logger
	cfg     RiskReporterConfig
	workers int
	now     func() time.Time
}

// NewRiskReporter creates a reporter. store, pub and c may be nil: without a
// store only supplied tables can be reported, without pub or c reports are
// neither published nor cached.
func NewRiskReporter(
	store domrepo.ReturnStore,
	pub domrepo.ReportPublisher,
	c cache.BytesCache,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	cfg RiskReporterConfig,
) *RiskReporter {
	if l == nil {
		l = applogger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &RiskReporter{
		store:   store,
		pub:     pub,
		cache:   c,
		metrics: metrics,
		l:       l.With(applogger.String("component", "risk_reporter")),
		cfg:     cfg,
		workers: runtime.GOMAXPROCS(0),
		now:     time.Now,
	}
}

// Defaults returns the configured report parameters.
func (r *RiskReporter) Defaults() models.ReportParams { return r.cfg.Defaults }

// Report computes one ColumnReport per column concurrently, keeping column order.
func (r *RiskReporter) Report(ctx context.Context, t risk.Table, p models.ReportParams) (*models.RiskReport, error) {
	if len(t.Columns) == 0 {
		return nil, ErrEmptyTable
	}
	if err := ValidateParams(p); err != nil {
		return nil, err
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cols := make([]models.ColumnReport, len(t.Columns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, s := range t.Columns {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cols[i] = BuildColumnReport(s, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.recordError("report")
		return nil, fmt.Errorf("build report: %w", err)
	}

	if r.metrics != nil {
		for _, c := range cols {
			r.metrics.RecordReport(c.Name, float64(c.VaRHistoric), float64(c.MaxDrawdown))
		}
		r.metrics.RecordLatency("report", time.Since(start).Seconds())
	}
	return &models.RiskReport{GeneratedAt: r.now().UTC(), Params: p, Columns: cols}, nil
}

// StoredReport loads the queried series from the store and reports on them.
// A cached report for the same query and parameters is served while fresh.
func (r *RiskReporter) StoredReport(ctx context.Context, q models.ReturnsQuery, p models.ReportParams) (*models.RiskReport, error) {
	return r.storedReport(ctx, q, p, true)
}

// RefreshReport is StoredReport without the cache read; the result still
// replaces the cached entry. Streams use it after new observations arrive.
func (r *RiskReporter) RefreshReport(ctx context.Context, q models.ReturnsQuery, p models.ReportParams) (*models.RiskReport, error) {
	return r.storedReport(ctx, q, p, false)
}

func (r *RiskReporter) storedReport(ctx context.Context, q models.ReturnsQuery, p models.ReportParams, useCache bool) (*models.RiskReport, error) {
	if r.store == nil {
		return nil, fmt.Errorf("stored report: no return store configured")
	}
	if len(q.Series) == 0 {
		return nil, ErrEmptyTable
	}
	if err := ValidateParams(p); err != nil {
		return nil, err
	}
	if q.Limit <= 0 || (r.cfg.MaxObservations > 0 && q.Limit > r.cfg.MaxObservations) {
		q.Limit = r.cfg.MaxObservations
	}

	key := reportKey(q, p)
	if useCache {
		if rep, ok := r.cached(ctx, key); ok {
			return rep, nil
		}
	}

	start := time.Now()
	obs, err := r.store.Query(ctx, q)
	if err != nil {
		r.recordError("query_returns")
		return nil, fmt.Errorf("load returns: %w", err)
	}
	if r.metrics != nil {
		r.metrics.RecordLatency("query_returns", time.Since(start).Seconds())
	}

	t, missing := TableFromObservations(q.Series, obs)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, strings.Join(missing, ","))
	}

	rep, err := r.Report(ctx, t, p)
	if err != nil {
		return nil, err
	}
	r.remember(ctx, key, rep)
	r.publish(ctx, rep)
	return rep, nil
}

func (r *RiskReporter) cached(ctx context.Context, key string) (*models.RiskReport, bool) {
	if r.cache == nil || r.cfg.CacheTTL <= 0 {
		return nil, false
	}
	b, ok, err := r.cache.GetBytes(ctx, key)
	if err != nil {
		r.l.Warn("report cache get", applogger.String("key", key), applogger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var rep models.RiskReport
	if err := json.Unmarshal(b, &rep); err != nil {
		r.l.Warn("report cache decode", applogger.String("key", key), applogger.Error(err))
		return nil, false
	}
	return &rep, true
}

func (r *RiskReporter) remember(ctx context.Context, key string, rep *models.RiskReport) {
	if r.cache == nil || r.cfg.CacheTTL <= 0 {
		return
	}
	b, err := json.Marshal(rep)
	if err == nil {
		err = r.cache.SetBytes(ctx, key, b, r.cfg.CacheTTL)
	}
	if err != nil {
		r.l.Warn("report cache set", applogger.String("key", key), applogger.Error(err))
	}
}

// publish is best effort: a report that was computed is returned even if
// the reports topic is unavailable.
func (r *RiskReporter) publish(ctx context.Context, rep *models.RiskReport) {
	if r.pub == nil {
		return
	}
	if err := r.pub.PublishReport(ctx, rep); err != nil {
		r.recordError("publish_report")
		r.l.Warn("publish report", applogger.Int("columns", len(rep.Columns)), applogger.Error(err))
	}
}

func (r *RiskReporter) recordError(kind string) {
	if r.metrics != nil {
		r.metrics.RecordError(kind)
	}
}

func reportKey(q models.ReturnsQuery, p models.ReportParams) string {
	var from, to string
	if !q.From.IsZero() {
		from = util.FormatPeriod(q.From)
	}
	if !q.To.IsZero() {
		to = util.FormatPeriod(q.To)
	}
	return cache.Key("report", strings.Join(q.Series, ","), from, to, q.Limit,
		p.Level, p.PeriodsPerYear, p.RiskFreeRate, p.NormalityLevel)
}
