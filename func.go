package cachefn

import (
	"context"
	"errors"
	"time"
)

// Func is a cached function. Build one with Value or one of the shape
// helpers (String, Dict, ...). A Func is safe for concurrent calls, but
// concurrent misses on one key each run the wrapped function; there is no
// single-flight.
type Func[A, V any] struct {
	c       *Caching
	fn      func(context.Context, A) (V, error)
	element CacheElement[V]
	name    string
	keys    keyBuilder
	keyFn   func(A) (string, error)
	expire  expiry[A, V]
	policy  ErrorPolicy
}

func (f *Func[A, V]) Name() string { return f.name }

// SetKeyFunc replaces key derivation. Set it before the first call; changing
// it while calls are in flight is a data race.
func (f *Func[A, V]) SetKeyFunc(fn func(A) (string, error)) {
	f.keyFn = fn
}

// SetExpireFunc replaces the expiration source. Same rules as SetKeyFunc.
func (f *Func[A, V]) SetExpireFunc(fn func(A, V) (time.Duration, error)) {
	if fn == nil {
		f.expire = noExpiry[A, V]
		return
	}
	f.expire = expireFunc(fn)
}

// Key returns the cache key a call with args would use.
func (f *Func[A, V]) Key(args A) (string, error) {
	if f.keyFn != nil {
		return f.keyFn(args)
	}
	return buildKey(f.keys, args)
}

// Call returns the cached value for args, computing and storing it on a miss.
//
// Errors of the wrapped function are returned as-is and nothing is stored.
// Load/dump failures (*TransformError), key derivation failures and expire
// function failures are always returned. Read failures follow the ErrorPolicy;
// write failures are logged and the value is returned.
func (f *Func[A, V]) Call(ctx context.Context, args A) (V, error) {
	var zero V
	if !f.c.enabled {
		return f.fn(ctx, args)
	}
	s, err := f.c.Store()
	if err != nil {
		return zero, err
	}
	key, err := f.Key(args)
	if err != nil {
		var ke *KeyError
		if errors.As(err, &ke) {
			f.c.hooks.KeyRejected(f.name, err)
		}
		return zero, err
	}

	v, ok, err := f.element.Get(ctx, s, key)
	switch {
	case err != nil:
		var te *TransformError
		if errors.As(err, &te) || f.policy != DegradeOnError {
			return zero, err
		}
		f.c.log.Warn("cache read failed, computing value", Fields{"func": f.name, "key": key, "err": err})
		f.c.hooks.FetchDegraded(key, err)
	case ok:
		f.c.log.Debug("cache hit", Fields{"func": f.name, "key": key})
		f.c.hooks.CacheHit(key)
		return v, nil
	default:
		f.c.log.Debug("cache miss", Fields{"func": f.name, "key": key})
		f.c.hooks.CacheMiss(key)
	}

	v, err = f.fn(ctx, args)
	if err != nil {
		return zero, err
	}

	ttl, skip, err := f.expire(args, v)
	if err != nil {
		return zero, err
	}
	if skip {
		f.c.log.Debug("expiry already passed, not storing", Fields{"func": f.name, "key": key})
		return v, nil
	}
	if err := f.element.Set(ctx, s, key, v, ttl); err != nil {
		var te *TransformError
		if errors.As(err, &te) {
			return zero, err
		}
		f.c.log.Warn("cache write failed", Fields{"func": f.name, "key": key, "err": err})
		f.c.hooks.StoreFailed(key, err)
	}
	return v, nil
}

// Invalidate deletes the entry a call with args would read.
func (f *Func[A, V]) Invalidate(ctx context.Context, args A) error {
	s, err := f.c.Store()
	if err != nil {
		return err
	}
	key, err := f.Key(args)
	if err != nil {
		return err
	}
	return storeErr("del", key, s.Del(ctx, key))
}
