// Package asynchook moves hook delivery off the calling goroutine.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{HitEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := cachefn.New(cachefn.Options{URL: url, Hooks: hooks})
//
// Events are dropped when the queue is full.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/cachefn"
)

type Hooks struct {
	inner   cachefn.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards q against send-after-close
	closed  bool
	dropped atomic.Uint64
}

var _ cachefn.Hooks = (*Hooks)(nil)

func New(inner cachefn.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events reported after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped counts events lost to a full queue or a closed Hooks.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) CacheHit(k string)  { h.try(func() { h.inner.CacheHit(k) }) }
func (h *Hooks) CacheMiss(k string) { h.try(func() { h.inner.CacheMiss(k) }) }
func (h *Hooks) FetchDegraded(k string, err error) {
	h.try(func() { h.inner.FetchDegraded(k, err) })
}
func (h *Hooks) StoreFailed(k string, err error) { h.try(func() { h.inner.StoreFailed(k, err) }) }
func (h *Hooks) KeyRejected(fn string, err error) {
	h.try(func() { h.inner.KeyRejected(fn, err) })
}
