package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/cachefn"
)

type countingHooks struct {
	cachefn.NopHooks
	mu     sync.Mutex
	events []string
	block  chan struct{}
}

func (c *countingHooks) record(ev string) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *countingHooks) CacheHit(k string)               { c.record("hit:" + k) }
func (c *countingHooks) CacheMiss(k string)              { c.record("miss:" + k) }
func (c *countingHooks) StoreFailed(k string, err error) { c.record("failed:" + k + ":" + err.Error()) }

func TestDeliversBeforeClose(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 16)
	h.CacheHit("a")
	h.CacheMiss("b")
	h.StoreFailed("c", errors.New("boom"))
	h.Close()

	if len(inner.events) != 3 {
		t.Fatalf("events=%v", inner.events)
	}
	h.CacheHit("late")
	if h.Dropped() != 1 {
		t.Fatalf("event after Close should be dropped, dropped=%d", h.Dropped())
	}
	h.Close()
}

func TestDropsWhenFull(t *testing.T) {
	inner := &countingHooks{block: make(chan struct{})}
	h := New(inner, 1, 1)

	// the worker takes at most one event and blocks on it; the queue holds one more
	for i := 0; i < 10; i++ {
		h.CacheHit("k")
	}
	if h.Dropped() < 8 {
		t.Fatalf("dropped=%d, want >= 8", h.Dropped())
	}
	close(inner.block)
	h.Close()
}
