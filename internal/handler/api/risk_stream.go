package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"RiskKit/internal/domain/models"
	"RiskKit/internal/domain/service"
	"RiskKit/internal/service/metrics"
	"RiskKit/internal/usecase"
	xhttp "RiskKit/pkg/http"
	xlogger "RiskKit/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamWriteWait = 10 * time.Second
	streamReadLimit = 4096
)

// RiskStreamHandler pushes a fresh stored report over a websocket on connect
// and whenever observations of a subscribed series are ingested.
type RiskStreamHandler struct {
	logger       *xlogger.Logger
	analyzer     service.RiskAnalyzer
	stream       service.ReportStream
	upgrader     websocket.Upgrader
	pingInterval time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

func NewRiskStreamHandler(logger *xlogger.Logger, analyzer service.RiskAnalyzer, stream service.ReportStream, pingInterval time.Duration) *RiskStreamHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	metrics.Register(nil)
	return &RiskStreamHandler{
		logger:       logger.With(xlogger.String("component", "risk_stream")),
		analyzer:     analyzer,
		stream:       stream,
		pingInterval: pingInterval,
		done:         make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *RiskStreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/risk", h.Stream)
}

// Close ends every open stream with a going-away close frame. Hijacked
// connections are not tracked by http.Server.Shutdown, so the server calls
// this when it shuts down.
func (h *RiskStreamHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *RiskStreamHandler) Stream(c echo.Context) error {
	req := &models.StoredReportQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q, p, err := storedQuery(req, h.analyzer.Defaults())
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already answered the client
		h.logger.Warn("websocket upgrade", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	wake, cancel := h.stream.Subscribe(q.Series)
	defer cancel()

	ctx, stop := context.WithCancel(c.Request().Context())
	defer stop()
	go h.readLoop(conn, stop)
	go func() {
		select {
		case <-h.done:
			stop()
		case <-ctx.Done():
		}
	}()

	h.logger.Info("stream opened", xlogger.Strings("series", q.Series), xlogger.String("remote", c.RealIP()))
	defer h.logger.Info("stream closed", xlogger.Strings("series", q.Series))

	defer h.goingAway(conn)

	if err := h.push(ctx, conn, q, p); err != nil {
		return nil
	}

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
			if err := h.push(ctx, conn, q, p); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return nil
			}
		}
	}
}

// goingAway sends a close frame when the stream ends because of Close.
func (h *RiskStreamHandler) goingAway(conn *websocket.Conn) {
	select {
	case <-h.done:
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))
	default:
	}
}

// push sends a fresh report, or an error frame when it cannot be built. Only
// write failures end the stream.
func (h *RiskStreamHandler) push(ctx context.Context, conn *websocket.Conn, q models.ReturnsQuery, p models.ReportParams) error {
	msg := models.StreamMessage{Type: "report"}
	rep, err := h.analyzer.RefreshReport(ctx, q, p)
	switch {
	case err == nil:
		msg.Report = rep
	case errors.Is(err, context.Canceled):
		return err
	default:
		if !errors.Is(err, usecase.ErrSeriesNotFound) {
			h.logger.Warn("stream report", xlogger.Strings("series", q.Series), xlogger.Error(err))
		}
		msg = models.StreamMessage{Type: "error", Message: err.Error()}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("stream write", xlogger.Error(err))
		return err
	}
	return nil
}

// readLoop drains client frames so pongs and close frames are processed.
// The stream is stopped when the client goes away.
func (h *RiskStreamHandler) readLoop(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
