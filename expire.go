package cachefn

import (
	"fmt"
	"time"
)

// expiry resolves the TTL of a freshly computed value. It runs on every miss,
// after the wrapped function returned. skip=true means the entry would be
// expired on arrival and is not written.
type expiry[A, V any] func(args A, value V) (ttl time.Duration, skip bool, err error)

func noExpiry[A, V any](A, V) (time.Duration, bool, error) { return 0, false, nil }

// newExpiry turns the source recorded by an Option into an expiry.
// Accepted sources: nil, time.Duration, time.Time,
// func(A, V) (time.Duration, error) and func(A) (time.Duration, error).
func newExpiry[A, V any](src any) (expiry[A, V], error) {
	switch s := src.(type) {
	case nil:
		return noExpiry[A, V], nil
	case time.Duration:
		return func(A, V) (time.Duration, bool, error) { return s, false, nil }, nil
	case time.Time:
		return func(A, V) (time.Duration, bool, error) {
			ttl := time.Until(s)
			return ttl, ttl <= 0, nil
		}, nil
	case func(A, V) (time.Duration, error):
		if s == nil {
			return noExpiry[A, V], nil
		}
		return expireFunc(s), nil
	case func(A) (time.Duration, error):
		if s == nil {
			return noExpiry[A, V], nil
		}
		return func(args A, _ V) (time.Duration, bool, error) {
			ttl, err := s(args)
			return ttl, false, err
		}, nil
	}
	var (
		a A
		v V
	)
	return nil, fmt.Errorf("%w: expire function is %T, want func(%T, %T) (time.Duration, error)", ErrInvalidOptions, src, a, v)
}

func expireFunc[A, V any](fn func(A, V) (time.Duration, error)) expiry[A, V] {
	return func(args A, value V) (time.Duration, bool, error) {
		ttl, err := fn(args, value)
		return ttl, false, err
	}
}
