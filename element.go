package cachefn

import (
	"context"
	"time"

	"github.com/unkn0wn-root/cachefn/codec"
	"github.com/unkn0wn-root/cachefn/store"
)

// CacheElement reads and writes values of a domain type V.
// Get reports a miss with ok=false.
type CacheElement[V any] interface {
	Get(ctx context.Context, s store.Store, key string) (value V, ok bool, err error)
	Set(ctx context.Context, s store.Store, key string, value V, ttl time.Duration) error
}

// Transform converts between a domain type V and the storage type T of a
// Cacheable. Both directions must be pure. Every codec.Codec[V] is a
// Transform[V, string].
type Transform[V, T any] interface {
	Load(T) (V, error)
	Dump(V) (T, error)
}

// Element composes a Cacheable with a Transform.
type Element[V, T any] struct {
	cacheable Cacheable[T]
	transform Transform[V, T]
}

var _ CacheElement[string] = (*Element[string, string])(nil)

// NewElement pairs a storage shape with a load/dump pair.
// Both type parameters usually have to be spelled out:
//
//	el := cachefn.NewElement[User, string](cachefn.StringCacheable{}, codec.JSON[User]{})
func NewElement[V, T any](c Cacheable[T], t Transform[V, T]) *Element[V, T] {
	return &Element[V, T]{cacheable: c, transform: t}
}

func (e *Element[V, T]) Get(ctx context.Context, s store.Store, key string) (V, bool, error) {
	var zero V
	raw, ok, err := e.cacheable.Fetch(ctx, s, key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := e.transform.Load(raw)
	if err != nil {
		return zero, false, &TransformError{Op: "load", Key: key, Err: err}
	}
	return v, true, nil
}

func (e *Element[V, T]) Set(ctx context.Context, s store.Store, key string, value V, ttl time.Duration) error {
	raw, err := e.transform.Dump(value)
	if err != nil {
		return &TransformError{Op: "dump", Key: key, Err: err}
	}
	return e.cacheable.Store(ctx, s, key, raw, ttl)
}

type identity[T any] struct{}

func (identity[T]) Load(v T) (T, error) { return v, nil }
func (identity[T]) Dump(v T) (T, error) { return v, nil }

// Identity passes values through unchanged.
func Identity[T any]() Transform[T, T] { return identity[T]{} }

// TransformFuncs adapts a pair of plain functions to Transform.
type TransformFuncs[V, T any] struct {
	LoadFn func(T) (V, error)
	DumpFn func(V) (T, error)
}

func (f TransformFuncs[V, T]) Load(v T) (V, error) { return f.LoadFn(v) }
func (f TransformFuncs[V, T]) Dump(v V) (T, error) { return f.DumpFn(v) }

func StringElement() CacheElement[string] {
	return NewElement[string, string](StringCacheable{}, Identity[string]())
}

// DictFieldElement caches a string in one field of a hash.
func DictFieldElement(field string) CacheElement[string] {
	return NewElement[string, string](DictStringCacheable{Field: field}, Identity[string]())
}

func DictElement() CacheElement[map[string]string] {
	return NewElement[map[string]string, map[string]string](DictCacheable{}, Identity[map[string]string]())
}

func ListElement() CacheElement[[]string] {
	return NewElement[[]string, []string](ListCacheable{}, Identity[[]string]())
}

// BoolElement stores "true" / "false", so a cached false is still a hit.
func BoolElement() CacheElement[bool] {
	return NewElement[bool, string](StringCacheable{}, codec.Bool{})
}

// TimeElement stores RFC 3339 timestamps with nanoseconds and zone offset.
func TimeElement() CacheElement[time.Time] {
	return NewElement[time.Time, string](StringCacheable{}, codec.Time{})
}

// CodecElement stores V as a plain string encoded by c.
func CodecElement[V any](c codec.Codec[V]) CacheElement[V] {
	return NewElement[V, string](StringCacheable{}, c)
}
