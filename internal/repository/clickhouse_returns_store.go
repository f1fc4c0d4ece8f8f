package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"RiskKit/internal/domain/models"
	"RiskKit/internal/domain/repository"
	applogger "RiskKit/pkg/logger"
	"RiskKit/pkg/util"
)

// ReturnsSchema creates the returns table. Re-ingesting a (series, period)
// pair replaces the older row on merge; reads use FINAL.
func ReturnsSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	series String,
	period Date,
	ret Float64,
	ingested_at DateTime
) ENGINE = ReplacingMergeTree(ingested_at)
ORDER BY (series, period)`, database, table),
	}
}

// ClickHouseReturnStore implements ReturnStore for ClickHouse.
type ClickHouseReturnStore struct {
	db    *sql.DB
	table string
	now   func() time.Time
	l     *applogger.Logger
}

// NewClickHouseReturnStore creates the store; table is database-qualified.
func NewClickHouseReturnStore(db *sql.DB, table string) *ClickHouseReturnStore {
	return &ClickHouseReturnStore{db: db, table: table, now: time.Now, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *ClickHouseReturnStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

var _ repository.ReturnStore = (*ClickHouseReturnStore)(nil)

func (s *ClickHouseReturnStore) Init(ctx context.Context) error {
	return s.Health(ctx) // schema init in pkg/clickhouse
}

func (s *ClickHouseReturnStore) Store(ctx context.Context, o models.Observation) error {
	return s.StoreBatch(ctx, []models.Observation{o})
}

func (s *ClickHouseReturnStore) StoreBatch(ctx context.Context, obs []models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	const chunkSize = 2000
	ingested := s.now().UTC().Truncate(time.Second)
	for start := 0; start < len(obs); start += chunkSize {
		end := start + chunkSize
		if end > len(obs) {
			end = len(obs)
		}
		q, args := buildInsert(s.table, obs[start:end], ingested)
		if len(args) == 0 {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse insert returns error",
				applogger.String("table", s.table),
				applogger.Int("rows", len(args)/4),
				applogger.Error(err),
			)
			return fmt.Errorf("insert returns: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseReturnStore) Query(ctx context.Context, q models.ReturnsQuery) ([]models.Observation, error) {
	if len(q.Series) == 0 {
		return nil, nil
	}
	start := time.Now()
	stmt, args := buildSelect(s.table, q)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		s.l.Error("clickhouse query returns error",
			applogger.String("table", s.table),
			applogger.Strings("series", q.Series),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query returns: %w", err)
	}
	defer rows.Close()

	var out []models.Observation
	for rows.Next() {
		var o models.Observation
		if err := rows.Scan(&o.Series, &o.Period, &o.Return); err != nil {
			return nil, fmt.Errorf("scan returns: %w", err)
		}
		o.Period = util.TruncateDay(o.Period)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Debug("clickhouse query returns",
		applogger.Strings("series", q.Series),
		applogger.Int("rows", len(out)),
		applogger.Duration("took", time.Since(start)),
	)
	return out, nil
}

func (s *ClickHouseReturnStore) ListSeries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT DISTINCT series FROM %s ORDER BY series", s.table))
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *ClickHouseReturnStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseReturnStore) Close() error {
	return nil // managed by pkg/clickhouse
}

// buildInsert renders a multi-row VALUES insert, skipping invalid rows.
func buildInsert(table string, obs []models.Observation, ingested time.Time) (string, []interface{}) {
	values := make([]string, 0, len(obs))
	args := make([]interface{}, 0, len(obs)*4)
	for _, o := range obs {
		if o.Validate() != nil {
			continue
		}
		values = append(values, "(?, ?, ?, ?)")
		args = append(args, o.Series, util.FormatPeriod(o.Period), o.Return, ingested)
	}
	q := fmt.Sprintf("INSERT INTO %s (series, period, ret, ingested_at) VALUES %s", table, strings.Join(values, ","))
	return q, args
}

// buildSelect renders the range query. With a limit the latest Limit periods
// of each series are kept, still returned in ascending order.
func buildSelect(table string, q models.ReturnsQuery) (string, []interface{}) {
	marks := make([]string, len(q.Series))
	args := make([]interface{}, 0, len(q.Series)+2)
	for i, name := range q.Series {
		marks[i] = "?"
		args = append(args, name)
	}
	where := []string{fmt.Sprintf("series IN (%s)", strings.Join(marks, ", "))}
	if !q.From.IsZero() {
		where = append(where, "period >= ?")
		args = append(args, util.FormatPeriod(q.From))
	}
	if !q.To.IsZero() {
		where = append(where, "period <= ?")
		args = append(args, util.FormatPeriod(q.To))
	}
	inner := fmt.Sprintf("SELECT series, period, ret FROM %s FINAL WHERE %s", table, strings.Join(where, " AND "))
	if q.Limit <= 0 {
		return inner + " ORDER BY series, period", args
	}
	return fmt.Sprintf("SELECT series, period, ret FROM (%s ORDER BY series, period DESC LIMIT %d BY series) ORDER BY series, period",
		inner, q.Limit), args
}
