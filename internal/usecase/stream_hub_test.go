package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamHub_NotifyCoalesces(t *testing.T) {
	h := NewStreamHub()
	ch, cancel := h.Subscribe([]string{"A", "B"})
	defer cancel()

	h.Notify("A")
	h.Notify("B")
	h.Notify("C")

	select {
	case <-ch:
	default:
		t.Fatal("expected a wake-up")
	}
	select {
	case <-ch:
		t.Fatal("wake-ups must coalesce")
	default:
	}
}

func TestStreamHub_Cancel(t *testing.T) {
	h := NewStreamHub()
	ch1, cancel1 := h.Subscribe([]string{"A"})
	_, cancel2 := h.Subscribe([]string{"A"})
	assert.Equal(t, 2, h.Subscribers("A"))

	cancel1()
	cancel1()
	assert.Equal(t, 1, h.Subscribers("A"))

	h.Notify("A")
	select {
	case <-ch1:
		t.Fatal("cancelled subscriber was notified")
	default:
	}

	cancel2()
	assert.Equal(t, 0, h.Subscribers("A"))
}
