package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	v   []byte
	exp time.Time
}

// TTLCache is the in-process BytesCache used when Redis is disabled.
type TTLCache struct {
	mu  sync.RWMutex
	m   map[string]entry
	now func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), now: time.Now}
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.mu.Lock()
		// re-check, a writer may have refreshed it
		if cur, ok := c.m[key]; ok && cur.exp.Equal(e.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry{v: value, exp: exp}
	c.mu.Unlock()
	return nil
}

// Len counts entries, expired ones included until they are read.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
