package cachefn

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/cachefn/codec"
)

// Value wraps fn so its results are cached through el. It is the generic
// form; the helpers below fix el for the built-in shapes.
//
// fn takes a single argument. Functions with several parameters take a
// struct instead; its field names become the parameter names in derived keys:
//
//	type lookup struct {
//		Org  string
//		User int
//	}
//	f, err := cachefn.String(c, func(ctx context.Context, a lookup) (string, error) { ... })
//
// Keys embed the function name as reported by the runtime. Function
// literals get generated names such as "users.init.func1" that change when
// other literals are added or moved in the same function, which silently
// orphans cached entries. Give such functions a stable name with WithName.
func Value[A, V any](c *Caching, el CacheElement[V], fn func(context.Context, A) (V, error), opts ...Option) (*Func[A, V], error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil Caching", ErrInvalidOptions)
	}
	if el == nil {
		return nil, fmt.Errorf("%w: nil CacheElement", ErrInvalidOptions)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", ErrInvalidOptions)
	}

	s := collect(opts)
	kf, err := keyFunc[A](s.key)
	if err != nil {
		return nil, err
	}
	exp, err := newExpiry[A, V](s.expire)
	if err != nil {
		return nil, err
	}
	name := s.name
	if name == "" {
		name = funcName(fn)
	}
	policy := c.policy
	if s.policy != nil {
		policy = *s.policy
	}

	return &Func[A, V]{
		c:       c,
		fn:      fn,
		element: el,
		name:    name,
		keys:    keyBuilder{namespace: c.namespace, name: name, maxLen: c.maxKeyLen},
		keyFn:   kf,
		expire:  exp,
		policy:  policy,
	}, nil
}

func String[A any](c *Caching, fn func(context.Context, A) (string, error), opts ...Option) (*Func[A, string], error) {
	return Value(c, StringElement(), fn, opts...)
}

// DictField caches the result in field of the hash at the derived key.
// Several functions can share one hash by sharing a key.
func DictField[A any](c *Caching, field string, fn func(context.Context, A) (string, error), opts ...Option) (*Func[A, string], error) {
	if field == "" {
		return nil, fmt.Errorf("%w: empty hash field", ErrInvalidOptions)
	}
	return Value(c, DictFieldElement(field), fn, opts...)
}

// Dict caches a map as a hash. An empty map is not cached.
func Dict[A any](c *Caching, fn func(context.Context, A) (map[string]string, error), opts ...Option) (*Func[A, map[string]string], error) {
	return Value(c, DictElement(), fn, opts...)
}

// List caches a slice as a list. An empty slice is not cached.
func List[A any](c *Caching, fn func(context.Context, A) ([]string, error), opts ...Option) (*Func[A, []string], error) {
	return Value(c, ListElement(), fn, opts...)
}

func Bool[A any](c *Caching, fn func(context.Context, A) (bool, error), opts ...Option) (*Func[A, bool], error) {
	return Value(c, BoolElement(), fn, opts...)
}

func Time[A any](c *Caching, fn func(context.Context, A) (time.Time, error), opts ...Option) (*Func[A, time.Time], error) {
	return Value(c, TimeElement(), fn, opts...)
}

// Encoded caches any V as a string produced by cd, e.g. codec.JSON[V]{}.
func Encoded[A, V any](c *Caching, cd codec.Codec[V], fn func(context.Context, A) (V, error), opts ...Option) (*Func[A, V], error) {
	if cd == nil {
		return nil, fmt.Errorf("%w: nil codec", ErrInvalidOptions)
	}
	return Value(c, CodecElement(cd), fn, opts...)
}

// Must panics if err is non-nil. Meant for package-level wrapping.
func Must[A, V any](f *Func[A, V], err error) *Func[A, V] {
	if err != nil {
		panic(err)
	}
	return f
}
