package usecase

import "sync"

// StreamHub wakes report streams when observations of their series arrive.
// Notifications coalesce: a subscriber that is still busy sees one pending
// wake-up however many observations came in meanwhile.
type StreamHub struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan struct{}
}

func NewStreamHub() *StreamHub {
	return &StreamHub{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe returns a wake-up channel for series and a cancel func that
// must be called once the subscriber is gone.
func (h *StreamHub) Subscribe(series []string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	id := h.next
	h.next++
	for _, s := range series {
		m, ok := h.subs[s]
		if !ok {
			m = make(map[int]chan struct{})
			h.subs[s] = m
		}
		m[id] = ch
	}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, s := range series {
				delete(h.subs[s], id)
				if len(h.subs[s]) == 0 {
					delete(h.subs, s)
				}
			}
		})
	}
}

// Notify never blocks.
func (h *StreamHub) Notify(series ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range series {
		for _, ch := range h.subs[s] {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers counts distinct subscriptions of series.
func (h *StreamHub) Subscribers(series string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[series])
}
