package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) written() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

type fakeReader struct {
	ch        chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{ch: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.ch <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.ch:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type flakyHandler struct {
	topic    string
	failures int32
	calls    atomic.Int32
}

func (h *flakyHandler) Topic() string { return h.topic }

func (h *flakyHandler) Handle(_ context.Context, b []byte) error {
	n := h.calls.Add(1)
	if string(b) == "poison" || n <= h.failures {
		return errors.New("cannot handle")
	}
	return nil
}

func startConsumer(t *testing.T, r *fakeReader, dlq Writer, h MessageHandler, opts ...ConsumerOption) *Consumer {
	t.Helper()
	opts = append([]ConsumerOption{
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(2, time.Millisecond, 2*time.Millisecond),
	}, opts...)
	c, err := NewConsumer(nil, opts...)
	require.NoError(t, err)
	c.SetReaderFactory(func(*ConsumerConfig, string) Reader { return r })
	c.SetDLQWriter(dlq)
	c.RegisterHandler(h)
	require.NoError(t, c.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = c.Stop(ctx)
	})
	return c
}

func TestConsumerRetriesThenCommits(t *testing.T) {
	r := newFakeReader(kafka.Message{Topic: "returns", Offset: 7, Value: []byte("ok")})
	h := &flakyHandler{topic: "returns", failures: 2}
	startConsumer(t, r, nil, h)

	assert.Eventually(t, func() bool { return len(r.commits()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{7}, r.commits())
	assert.Equal(t, int32(3), h.calls.Load())
}

func TestConsumerSendsPoisonToDLQ(t *testing.T) {
	r := newFakeReader(kafka.Message{Topic: "returns", Offset: 3, Key: []byte("k"), Value: []byte("poison")})
	dlq := &fakeWriter{}
	h := &flakyHandler{topic: "returns"}
	startConsumer(t, r, dlq, h, WithConsumerDLQ("returns.dlq"))

	assert.Eventually(t, func() bool { return len(r.commits()) == 1 }, time.Second, 5*time.Millisecond)
	msgs := dlq.written()
	require.Len(t, msgs, 1)
	assert.Equal(t, "returns.dlq", msgs[0].Topic)
	assert.Equal(t, []byte("poison"), msgs[0].Value)
	assert.Equal(t, "source_topic", msgs[0].Headers[0].Key)
	assert.Equal(t, int32(3), h.calls.Load(), "one attempt plus two retries")
}

func TestConsumerWithoutDLQLeavesOffset(t *testing.T) {
	r := newFakeReader(kafka.Message{Topic: "returns", Offset: 1, Value: []byte("poison")})
	h := &flakyHandler{topic: "returns"}
	startConsumer(t, r, nil, h)

	assert.Eventually(t, func() bool { return h.calls.Load() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, r.commits())
}

func TestConsumerRequiresHandlers(t *testing.T) {
	c, err := NewConsumer(nil, WithConsumerBrokers([]string{"b:1"}))
	require.NoError(t, err)
	assert.Error(t, c.Start())

	_, err = NewConsumer(nil)
	assert.Error(t, err)
}

func TestProducerEncodesPayloads(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "gzip")

	require.NoError(t, p.Publish(context.Background(), "reports", []byte("a"), map[string]int{"n": 1}))
	require.NoError(t, p.PublishMessage(context.Background(), "logs", "plain"))
	require.NoError(t, p.PublishBatch(context.Background(), "raw", nil))

	msgs := w.written()
	require.Len(t, msgs, 2)
	assert.Equal(t, "reports", msgs[0].Topic)
	assert.JSONEq(t, `{"n":1}`, string(msgs[0].Value))
	assert.Equal(t, []byte("plain"), msgs[1].Value)
	assert.Nil(t, msgs[1].Key)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducerWrapsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, "gzip")
	err := p.Publish(context.Background(), "reports", nil, "x")
	assert.ErrorIs(t, err, w.err)
}

func TestHookChainOrderAndPanics(t *testing.T) {
	var order []string
	mk := func(name string) ConsumerHook {
		return HookFuncs{
			Before: func(ctx context.Context, _ string, _ kafka.Message, data []byte) (context.Context, []byte, error) {
				order = append(order, "before:"+name)
				return ctx, append(data, name...), nil
			},
			After: func(context.Context, string, kafka.Message, []byte, error) {
				order = append(order, "after:"+name)
			},
		}
	}
	panicky := HookFuncs{After: func(context.Context, string, kafka.Message, []byte, error) { panic("boom") }}
	chain := NewHookChain(mk("a"), nil, panicky, mk("b"))

	_, data, err := chain.BeforeHandle(context.Background(), "t", kafka.Message{}, []byte(">"))
	require.NoError(t, err)
	assert.Equal(t, ">ab", string(data))
	chain.AfterHandle(context.Background(), "t", kafka.Message{}, data, nil)
	assert.Equal(t, []string{"before:a", "before:b", "after:b", "after:a"}, order)

	bad := NewHookChain(HookFuncs{Before: func(context.Context, string, kafka.Message, []byte) (context.Context, []byte, error) {
		panic("before")
	}})
	_, _, err = bad.BeforeHandle(context.Background(), "t", kafka.Message{}, nil)
	var he *HookError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "ERR_PANIC", he.Code)
}

func TestTraceIDHelpers(t *testing.T) {
	msg := kafka.Message{Headers: []kafka.Header{{Key: "trace_id", Value: []byte("abc")}}}
	ctx := WithTraceID(context.Background(), ExtractTraceID(msg))
	assert.Equal(t, "abc", TraceID(ctx))
	assert.Equal(t, "", TraceID(WithTraceID(context.Background(), "")))

	now := time.Now()
	got, ok := StartTime(WithStartTime(context.Background(), now))
	assert.True(t, ok)
	assert.Equal(t, now, got)
}

func TestBackoffWithJitterBounds(t *testing.T) {
	for attempt := 1; attempt < 70; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 100*time.Millisecond, attempt)
		assert.LessOrEqual(t, d, 100*time.Millisecond)
		assert.Greater(t, d, time.Duration(0))
	}
}
