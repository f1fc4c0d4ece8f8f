package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook observes message handling. BeforeHandle may replace the context
// or payload; an error from it skips the handler and counts as a failed attempt.
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
	OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, _ string, _ kafka.Message, data []byte) (context.Context, []byte, error) {
	return ctx, data, nil
}

func (NoopHook) AfterHandle(context.Context, string, kafka.Message, []byte, error) {}

func (NoopHook) OnError(context.Context, string, kafka.Message, []byte, error) {}

// HookError classifies a failure raised by a hook, e.g. ERR_PANIC.
type HookError struct {
	Code string
	Err  error
}

func (e *HookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *HookError) Unwrap() error { return e.Err }

// HookFuncs adapts plain functions to ConsumerHook. Nil functions are no-ops.
type HookFuncs struct {
	Before func(context.Context, string, kafka.Message, []byte) (context.Context, []byte, error)
	After  func(context.Context, string, kafka.Message, []byte, error)
	Err    func(context.Context, string, kafka.Message, []byte, error)
}

func (h HookFuncs) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, []byte, error) {
	if h.Before == nil {
		return ctx, data, nil
	}
	return h.Before(ctx, topic, km, data)
}

func (h HookFuncs) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.After != nil {
		h.After(ctx, topic, km, data, err)
	}
}

func (h HookFuncs) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.Err != nil {
		h.Err(ctx, topic, km, data, err)
	}
}

// HookChain runs hooks in order for BeforeHandle and in reverse for
// AfterHandle. A panicking hook is recovered and never reaches the worker.
type HookChain struct {
	hooks []ConsumerHook
}

// NewHookChain ignores nil hooks.
func NewHookChain(hooks ...ConsumerHook) *HookChain {
	c := &HookChain{}
	for _, h := range hooks {
		if h != nil {
			c.hooks = append(c.hooks, h)
		}
	}
	return c
}

func (c *HookChain) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, []byte, error) {
	for _, h := range c.hooks {
		nextCtx, nextData, err := safeBefore(h, ctx, topic, km, data)
		if err != nil {
			return ctx, data, err
		}
		ctx, data = nextCtx, nextData
	}
	return ctx, data, nil
}

func (c *HookChain) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	for i := len(c.hooks) - 1; i >= 0; i-- {
		h := c.hooks[i]
		recoverHook(func() { h.AfterHandle(ctx, topic, km, data, err) })
	}
}

func (c *HookChain) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	for _, h := range c.hooks {
		h := h
		recoverHook(func() { h.OnError(ctx, topic, km, data, err) })
	}
}

func safeBefore(h ConsumerHook, ctx context.Context, topic string, km kafka.Message, data []byte) (outCtx context.Context, out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			outCtx, out, err = ctx, data, &HookError{Code: "ERR_PANIC", Err: fmt.Errorf("hook panic: %v", r)}
		}
	}()
	return h.BeforeHandle(ctx, topic, km, data)
}

func recoverHook(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

type ctxKey string

const (
	// CtxStartTime holds the time.Time at which handling started.
	CtxStartTime ctxKey = "kafka_hook_start_time"
	// CtxTraceID holds the trace id carried in message headers.
	CtxTraceID ctxKey = "kafka_hook_trace_id"
)

// WithStartTime stores t in ctx.
func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, CtxStartTime, t)
}

// StartTime returns the time stored by WithStartTime.
func StartTime(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(CtxStartTime).(time.Time)
	return t, ok
}

// WithTraceID stores a non-empty trace id in ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, CtxTraceID, traceID)
}

// TraceID returns the trace id stored by WithTraceID.
func TraceID(ctx context.Context) string {
	s, _ := ctx.Value(CtxTraceID).(string)
	return s
}

// ExtractTraceID reads the trace_id header.
func ExtractTraceID(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "trace_id" && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return ""
}
