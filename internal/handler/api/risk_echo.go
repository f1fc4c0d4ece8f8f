package api

import (
	"context"
	"errors"
	"time"

	"RiskKit/internal/domain/models"
	"RiskKit/internal/domain/service"
	"RiskKit/internal/service/metrics"
	"RiskKit/internal/services/risk"
	"RiskKit/internal/usecase"
	xhttp "RiskKit/pkg/http"
	xlogger "RiskKit/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RiskEchoHandler serves the risk statistics and ingest endpoints.
type RiskEchoHandler struct {
	logger   *xlogger.Logger
	analyzer service.RiskAnalyzer
	ingestor service.ReturnsIngestor
	health   HealthChecker
}

// NewRiskEchoHandler creates the handler. ingestor and health may be nil, in
// which case POST /api/returns answers 503 and /healthz only reports liveness.
func NewRiskEchoHandler(logger *xlogger.Logger, analyzer service.RiskAnalyzer, ingestor service.ReturnsIngestor, health HealthChecker) *RiskEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	metrics.Register(nil)
	return &RiskEchoHandler{logger: logger, analyzer: analyzer, ingestor: ingestor, health: health}
}

func (h *RiskEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/risk")
	g.POST("/drawdown", h.Drawdown)
	g.POST("/moments", h.Moments)
	g.POST("/normality", h.Normality)
	g.POST("/var", h.VaR)
	g.POST("/semideviation", h.Semideviation)
	g.POST("/performance", h.Performance)
	g.POST("/report", h.Report)
	g.GET("/report", h.StoredReport)

	e.POST("/api/returns", h.Ingest)
}

func (h *RiskEchoHandler) Health(c echo.Context) error {
	if h.health != nil {
		if err := h.health.Health(c.Request().Context()); err != nil {
			h.logger.Warn("health check failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("storage unavailable").WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *RiskEchoHandler) Drawdown(c echo.Context) error {
	defer observe("drawdown", time.Now())
	req := &models.DrawdownRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s := req.Series.Series("series")
	if err := checkIndex(s); err != nil {
		return h.fail(c, "drawdown", err)
	}
	return xhttp.SuccessResponse(c, models.NewDrawdownResponse(s.Name, risk.Drawdown(s)))
}

func (h *RiskEchoHandler) Moments(c echo.Context) error {
	defer observe("moments", time.Now())
	req := &models.MomentsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	t := req.Table.Table()
	if err := checkTable(t); err != nil {
		return h.fail(c, "moments", err)
	}
	rows, err := risk.Apply(t, func(s risk.Series) models.MomentsRow {
		return models.MomentsRow{
			Name:     s.Name,
			Skewness: models.Float(risk.Skewness(s)),
			Kurtosis: models.Float(risk.Kurtosis(s)),
		}
	})
	if err != nil {
		return h.fail(c, "moments", err)
	}
	return xhttp.SuccessResponse(c, values(rows))
}

func (h *RiskEchoHandler) Normality(c echo.Context) error {
	defer observe("normality", time.Now())
	req := &models.NormalityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	level := h.analyzer.Defaults().NormalityLevel
	if req.Level != nil {
		level = *req.Level
	}
	t := req.Table.Table()
	if err := checkTable(t); err != nil {
		return h.fail(c, "normality", err)
	}
	rows, err := risk.Apply(t, func(s risk.Series) models.NormalityRow {
		stat, p := risk.JarqueBera(s)
		return models.NormalityRow{
			Name:       s.Name,
			IsNormal:   p > level,
			JarqueBera: models.Float(stat),
			PValue:     models.Float(p),
		}
	})
	if err != nil {
		return h.fail(c, "normality", err)
	}
	return xhttp.SuccessResponse(c, models.NormalityResponse{Level: level, Columns: values(rows)})
}

func (h *RiskEchoHandler) VaR(c echo.Context) error {
	defer observe("var", time.Now())
	req := &models.VaRRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	level := h.analyzer.Defaults().Level
	if req.Level != nil {
		level = *req.Level
	}
	t := req.Table.Table()
	if err := checkTable(t); err != nil {
		return h.fail(c, "var", err)
	}
	v, err := risk.VaROf(t, level, risk.VaRMethod(req.Method))
	if err != nil {
		return h.fail(c, "var", err)
	}
	return xhttp.SuccessResponse(c, models.VaRResponse{Method: req.Method, Level: level, Columns: models.NamedFloats(v)})
}

func (h *RiskEchoHandler) Semideviation(c echo.Context) error {
	defer observe("semideviation", time.Now())
	req := &models.SemideviationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	t := req.Table.Table()
	if err := checkTable(t); err != nil {
		return h.fail(c, "semideviation", err)
	}
	rows, err := risk.Apply(t, func(s risk.Series) models.SemideviationRow {
		return models.SemideviationRow{
			Name:           s.Name,
			Semideviation:  models.Float(risk.Semideviation(s)),
			Semideviation3: models.Float(risk.Semideviation3(s)),
		}
	})
	if err != nil {
		return h.fail(c, "semideviation", err)
	}
	return xhttp.SuccessResponse(c, values(rows))
}

func (h *RiskEchoHandler) Performance(c echo.Context) error {
	defer observe("performance", time.Now())
	req := &models.PerformanceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p := req.ParamsInput.Resolve(h.analyzer.Defaults())
	t := req.Table.Table()
	if err := checkTable(t); err != nil {
		return h.fail(c, "performance", err)
	}
	rows, err := risk.Apply(t, func(s risk.Series) models.PerformanceRow {
		return models.PerformanceRow{
			Name:             s.Name,
			AnnualizedReturn: models.Float(risk.AnnualizeRets(s, p.PeriodsPerYear)),
			AnnualizedVol:    models.Float(risk.AnnualizeVol(s, p.PeriodsPerYear)),
			SharpeRatio:      models.Float(risk.SharpeRatio(s, p.RiskFreeRate, p.PeriodsPerYear)),
		}
	})
	if err != nil {
		return h.fail(c, "performance", err)
	}
	return xhttp.SuccessResponse(c, models.PerformanceResponse{
		PeriodsPerYear: p.PeriodsPerYear,
		RiskFreeRate:   p.RiskFreeRate,
		Columns:        values(rows),
	})
}

func (h *RiskEchoHandler) Report(c echo.Context) error {
	defer observe("report", time.Now())
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	t := req.Table.Table()
	if err := checkTable(t); err != nil {
		return h.fail(c, "report", err)
	}
	res, err := h.analyzer.Report(c.Request().Context(), t, req.ParamsInput.Resolve(h.analyzer.Defaults()))
	if err != nil {
		return h.fail(c, "report", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) StoredReport(c echo.Context) error {
	defer observe("stored_report", time.Now())
	req := &models.StoredReportQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q, p, err := storedQuery(req, h.analyzer.Defaults())
	if err != nil {
		return h.fail(c, "stored_report", err)
	}
	res, err := h.analyzer.StoredReport(c.Request().Context(), q, p)
	if err != nil {
		return h.fail(c, "stored_report", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Ingest(c echo.Context) error {
	defer observe("ingest", time.Now())
	if h.ingestor == nil {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("ingest is disabled"))
	}
	req := &models.IngestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	obs, err := req.ToObservations()
	if err != nil {
		return h.fail(c, "ingest", xhttp.BadRequestError(err.Error()))
	}
	if err := h.ingestor.ProcessBatch(c.Request().Context(), obs); err != nil {
		return h.fail(c, "ingest", err)
	}
	return xhttp.AcceptedResponse(c, models.IngestResponse{Accepted: len(obs), Backend: h.ingestor.Backend()})
}

// fail maps domain errors onto AppErrors, logging the unexpected ones.
func (h *RiskEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	metrics.RiskErrors.WithLabelValues(endpoint, appErr.Code).Inc()
	if appErr.Status >= 500 {
		h.logger.Error("risk endpoint error",
			xlogger.String("endpoint", endpoint),
			xlogger.Error(err),
		)
	} else {
		h.logger.Debug("risk endpoint rejected",
			xlogger.String("endpoint", endpoint),
			xlogger.String("code", appErr.Code),
			xlogger.Error(err),
		)
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, usecase.ErrSeriesNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, risk.ErrUnsupportedReturns),
		errors.Is(err, usecase.ErrEmptyTable),
		errors.Is(err, usecase.ErrInvalidParams):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.ServiceUnavailableError("computation timed out").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}

// checkTable rejects index/value length mismatches; an empty index is allowed.
func checkTable(t risk.Table) error {
	for _, s := range t.Columns {
		if err := checkIndex(s); err != nil {
			return err
		}
	}
	return nil
}

func checkIndex(s risk.Series) error {
	if len(s.Index) > 0 && len(s.Index) != len(s.Values) {
		return xhttp.BadRequestErrorf("%s: index has %d labels for %d values", s.Name, len(s.Index), len(s.Values)).
			WithParam("series", s.Name)
	}
	return nil
}

// storedQuery turns query parameters into a store query and report params.
func storedQuery(req *models.StoredReportQuery, def models.ReportParams) (models.ReturnsQuery, models.ReportParams, error) {
	q, err := req.Returns()
	if err != nil {
		return q, def, xhttp.BadRequestError(err.Error())
	}
	in, err := req.Params()
	if err != nil {
		return q, def, xhttp.BadRequestError(err.Error())
	}
	return q, in.Resolve(def), nil
}

func values[T any](v risk.Values[T]) []T {
	out := make([]T, len(v))
	for i, n := range v {
		out[i] = n.Value
	}
	return out
}

func observe(endpoint string, start time.Time) {
	metrics.RiskLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
