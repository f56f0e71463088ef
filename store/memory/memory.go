// Package memory is an in-process store.Store backed by jellydator/ttlcache.
//
// It mirrors the Redis semantics cachefn relies on: per-key expiry, typed
// values (string, hash, list), WRONGTYPE errors on shape mismatch, and TTL
// preservation when a hash or list is modified in place. It is meant for tests
// and single-process deployments that do not want to run a server.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/unkn0wn-root/cachefn/store"
)

type Store struct {
	mu sync.Mutex // serializes read-modify-write commands (HSET, RPUSH, EXPIRE)
	c  *ttlcache.Cache[string, any]

	janitor   bool
	closeOnce sync.Once
}

var (
	_ store.Store        = (*Store)(nil)
	_ store.ListReplacer = (*Store)(nil)
)

// Options configure the in-process store.
type Options struct {
	// Capacity bounds the number of keys; 0 means unbounded.
	Capacity uint64
	// Janitor starts the background expiry sweep. Expired keys are never
	// returned either way; the janitor only reclaims memory.
	Janitor bool
}

func New(opts Options) *Store {
	cacheOpts := []ttlcache.Option[string, any]{
		ttlcache.WithDisableTouchOnHit[string, any](),
	}
	if opts.Capacity > 0 {
		cacheOpts = append(cacheOpts, ttlcache.WithCapacity[string, any](opts.Capacity))
	}
	s := &Store{c: ttlcache.New[string, any](cacheOpts...), janitor: opts.Janitor}
	if opts.Janitor {
		go s.c.Start()
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	v, _, ok := s.load(key)
	if !ok {
		return "", false, nil
	}
	str, isStr := v.(string)
	if !isStr {
		return "", false, store.ErrWrongType
	}
	return str, true, nil
}

func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Set(key, value, cacheTTL(ttl))
	return nil
}

func (s *Store) Expire(_ context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, _, ok := s.load(key)
	if !ok {
		return nil
	}
	s.c.Set(key, v, ttl)
	return nil
}

func (s *Store) HGet(_ context.Context, key, field string) (string, bool, error) {
	h, err := s.hash(key)
	if err != nil || h == nil {
		return "", false, err
	}
	v, ok := h[field]
	return v, ok, nil
}

func (s *Store) HSet(_ context.Context, key string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, remaining, ok := s.load(key)
	next := make(map[string]string, len(values))
	if !ok {
		remaining = ttlcache.NoTTL
	} else {
		h, isHash := cur.(map[string]string)
		if !isHash {
			return store.ErrWrongType
		}
		for f, v := range h {
			next[f] = v
		}
	}
	for f, v := range values {
		next[f] = v
	}
	s.c.Set(key, next, remaining)
	return nil
}

func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h, err := s.hash(key)
	if err != nil || h == nil {
		return map[string]string{}, err
	}
	out := make(map[string]string, len(h))
	for f, v := range h {
		out[f] = v
	}
	return out, nil
}

func (s *Store) RPush(_ context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, remaining, ok := s.load(key)
	var next []string
	if !ok {
		remaining = ttlcache.NoTTL
	} else {
		l, isList := cur.([]string)
		if !isList {
			return store.ErrWrongType
		}
		next = make([]string, 0, len(l)+len(values))
		next = append(next, l...)
	}
	next = append(next, values...)
	s.c.Set(key, next, remaining)
	return nil
}

func (s *Store) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	v, _, ok := s.load(key)
	if !ok {
		return []string{}, nil
	}
	l, isList := v.([]string)
	if !isList {
		return nil, store.ErrWrongType
	}
	n := int64(len(l))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return []string{}, nil
	}
	out := make([]string, stop-start+1)
	copy(out, l[start:stop+1])
	return out, nil
}

func (s *Store) ReplaceList(_ context.Context, key string, values []string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(values) == 0 {
		s.c.Delete(key)
		return nil
	}
	s.c.Set(key, append([]string(nil), values...), cacheTTL(ttl))
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.c.Delete(k)
	}
	return nil
}

func (s *Store) TTL(_ context.Context, key string) (time.Duration, error) {
	_, remaining, ok := s.load(key)
	if !ok {
		return store.TTLMissing, nil
	}
	if remaining == ttlcache.NoTTL {
		return store.TTLPersistent, nil
	}
	return remaining, nil
}

// Close stops the janitor. Stored values stay readable.
func (s *Store) Close(context.Context) error {
	s.closeOnce.Do(func() {
		if s.janitor {
			s.c.Stop()
		}
	})
	return nil
}

// load returns the live value and its remaining lifetime (ttlcache.NoTTL when
// the key never expires).
func (s *Store) load(key string) (any, time.Duration, bool) {
	item := s.c.Get(key)
	if item == nil || item.IsExpired() {
		return nil, 0, false
	}
	exp := item.ExpiresAt()
	if exp.IsZero() {
		return item.Value(), ttlcache.NoTTL, true
	}
	remaining := time.Until(exp)
	if remaining <= 0 {
		return nil, 0, false
	}
	return item.Value(), remaining, true
}

func (s *Store) hash(key string) (map[string]string, error) {
	v, _, ok := s.load(key)
	if !ok {
		return nil, nil
	}
	h, isHash := v.(map[string]string)
	if !isHash {
		return nil, store.ErrWrongType
	}
	return h, nil
}

func cacheTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttlcache.NoTTL
	}
	return ttl
}
