package logger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// Publisher ships aggregated entries somewhere durable (a Kafka topic in production).
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval
	CountThreshold int           // unique entries that force an early flush
	Topic          string
	Publisher      Publisher
}

// AggregatedLogEntry is one distinct (level, message, fields, caller) tuple and
// how often it was seen since the last flush.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector deduplicates error logs and publishes them in batches.
type LogCollector struct {
	config  *CollectionConfig
	mu      sync.Mutex
	entries map[string]*AggregatedLogEntry
	pending sync.WaitGroup
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	if config.TimeInterval <= 0 {
		config.TimeInterval = 30 * time.Second
	}
	if config.CountThreshold <= 0 {
		config.CountThreshold = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &LogCollector{
		config:  config,
		entries: make(map[string]*AggregatedLogEntry),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go c.loop(ctx)
	return c
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := entryKey(level, message, fields, caller)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
	} else {
		c.entries[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}
	if len(c.entries) >= c.config.CountThreshold {
		c.flushLocked()
	}
}

// Len returns the number of distinct entries waiting for the next flush.
func (c *LogCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func entryKey(level, message string, fields map[string]interface{}, caller string) string {
	// json.Marshal sorts map keys, so equal field sets hash equally.
	b, _ := json.Marshal(struct {
		L string                 `json:"l"`
		M string                 `json:"m"`
		F map[string]interface{} `json:"f"`
		C string                 `json:"c"`
	}{level, message, fields, caller})
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (c *LogCollector) loop(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.config.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
		case <-ctx.Done():
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
			return
		}
	}
}

// flushLocked hands the current batch to the publisher. Caller holds c.mu.
func (c *LogCollector) flushLocked() {
	if len(c.entries) == 0 || c.config.Publisher == nil {
		return
	}
	batch := make([]AggregatedLogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		batch = append(batch, *e)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].FirstSeen.Before(batch[j].FirstSeen) })
	c.entries = make(map[string]*AggregatedLogEntry)

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.config.Publisher.PublishMessage(ctx, c.config.Topic, batch); err != nil {
			// The logger cannot log its own publish failures without recursing.
			fmt.Fprintf(os.Stderr, "log collector: publish to %s failed: %v\n", c.config.Topic, err)
		}
	}()
}

// Close stops the ticker, flushes what is left and waits for in-flight publishes.
func (c *LogCollector) Close() {
	c.cancel()
	<-c.done
	c.pending.Wait()
}
