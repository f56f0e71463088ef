// Package sloghooks reports cachefn hook events through log/slog.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/cachefn"
	"github.com/unkn0wn-root/cachefn/internal/util"
)

type Options struct {
	// Sampling to avoid floods on hot paths; 0/1 = log all.
	HitEvery  uint64
	MissEvery uint64
	// Optional key redactor. Defaults to a SHA-256 prefix; keys carry
	// function arguments and may contain user data.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ cachefn.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return util.Digest("sha256", k)
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheHit(key string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("cachefn.hit", "key", h.redact(key))
}

func (h *Hooks) CacheMiss(key string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("cachefn.miss", "key", h.redact(key))
}

func (h *Hooks) FetchDegraded(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cachefn.fetch_degraded",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) StoreFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cachefn.store_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) KeyRejected(fn string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("cachefn.key_rejected",
		"func", fn,
		"err", err)
}
