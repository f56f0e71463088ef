package cachefn

import (
	"fmt"
	"time"
)

// Option configures one wrapped function. When two options set the same
// thing the last one wins.
type Option func(*settings)

type settings struct {
	name   string
	key    any // string or func(A) (string, error)
	expire any // see newExpiry
	policy *ErrorPolicy
}

// WithName replaces the function name used in derived keys. Use it to keep
// keys stable across renames or to share entries between functions.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithKey caches every call under one literal key, whatever the arguments.
func WithKey(key string) Option {
	return func(s *settings) { s.key = key }
}

// WithKeyFunc replaces key derivation entirely. fn must be pure.
// A must match the argument type of the wrapped function.
func WithKeyFunc[A any](fn func(A) (string, error)) Option {
	return func(s *settings) { s.key = fn }
}

func WithTTL(d time.Duration) Option {
	return func(s *settings) { s.expire = d }
}

func WithTTLSeconds(n int) Option {
	return WithTTL(time.Duration(n) * time.Second)
}

// WithExpireAt expires entries at an absolute time. Once t has passed,
// computed values are returned but no longer written.
func WithExpireAt(t time.Time) Option {
	return func(s *settings) { s.expire = t }
}

// WithExpireFunc computes the TTL from the arguments and the freshly computed
// value. A result <= 0 stores without expiry; an error is returned to the
// caller.
func WithExpireFunc[A, V any](fn func(A, V) (time.Duration, error)) Option {
	return func(s *settings) { s.expire = fn }
}

// WithArgsExpireFunc is WithExpireFunc for TTLs that only depend on the
// arguments.
func WithArgsExpireFunc[A any](fn func(A) (time.Duration, error)) Option {
	return func(s *settings) { s.expire = fn }
}

// WithErrorPolicy overrides Options.ErrorPolicy for one function.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(s *settings) { s.policy = &p }
}

func collect(opts []Option) settings {
	var s settings
	for _, o := range opts {
		if o != nil {
			o(&s)
		}
	}
	return s
}

func keyFunc[A any](src any) (func(A) (string, error), error) {
	switch k := src.(type) {
	case nil:
		return nil, nil
	case string:
		if k == "" {
			return nil, fmt.Errorf("%w: empty static key", ErrInvalidOptions)
		}
		return func(A) (string, error) { return k, nil }, nil
	case func(A) (string, error):
		if k == nil {
			return nil, nil
		}
		return k, nil
	}
	var a A
	return nil, fmt.Errorf("%w: key function is %T, want func(%T) (string, error)", ErrInvalidOptions, src, a)
}
