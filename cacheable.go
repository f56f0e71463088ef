package cachefn

import (
	"context"
	"time"

	"github.com/unkn0wn-root/cachefn/store"
)

// Cacheable knows how to write and read one storage shape (string, hash
// field, hash, list). Fetch reports a miss with ok=false so that a cached
// empty value stays distinguishable from an absent key.
//
// A ttl <= 0 sets no expiry. Shapes that write into an existing key (hashes)
// keep the expiry that key already has.
type Cacheable[T any] interface {
	Fetch(ctx context.Context, s store.Store, key string) (value T, ok bool, err error)
	Store(ctx context.Context, s store.Store, key string, value T, ttl time.Duration) error
}

var (
	_ Cacheable[string]            = StringCacheable{}
	_ Cacheable[string]            = DictStringCacheable{}
	_ Cacheable[map[string]string] = DictCacheable{}
	_ Cacheable[[]string]          = ListCacheable{}
)

// StringCacheable stores a plain string with GET / SET. The expiry is set in
// the same SET command.
type StringCacheable struct{}

func (StringCacheable) Fetch(ctx context.Context, s store.Store, key string) (string, bool, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", false, storeErr("get", key, err)
	}
	return v, ok, nil
}

func (StringCacheable) Store(ctx context.Context, s store.Store, key string, value string, ttl time.Duration) error {
	return storeErr("set", key, s.Set(ctx, key, value, ttl))
}

// DictStringCacheable stores one field of the hash at key. Other fields of the
// hash are left alone; the expiry applies to the whole hash. A ttl <= 0 sets
// no expiry and keeps any expiry already on the hash, such as one set by
// another field.
type DictStringCacheable struct {
	Field string
}

func (c DictStringCacheable) Fetch(ctx context.Context, s store.Store, key string) (string, bool, error) {
	v, ok, err := s.HGet(ctx, key, c.Field)
	if err != nil {
		return "", false, storeErr("hget", key, err)
	}
	return v, ok, nil
}

func (c DictStringCacheable) Store(ctx context.Context, s store.Store, key string, value string, ttl time.Duration) error {
	if err := s.HSet(ctx, key, map[string]string{c.Field: value}); err != nil {
		return storeErr("hset", key, err)
	}
	return expire(ctx, s, key, ttl)
}

// DictCacheable stores a whole map as a hash. Redis cannot hold an empty
// hash, so an empty map is stored as "no key" and reads back as a miss.
// Store merges into an existing hash, and a ttl <= 0 keeps whatever expiry
// that hash already has.
type DictCacheable struct{}

func (DictCacheable) Fetch(ctx context.Context, s store.Store, key string) (map[string]string, bool, error) {
	m, err := s.HGetAll(ctx, key)
	if err != nil {
		return nil, false, storeErr("hgetall", key, err)
	}
	if len(m) == 0 {
		return nil, false, nil
	}
	return m, true, nil
}

func (DictCacheable) Store(ctx context.Context, s store.Store, key string, value map[string]string, ttl time.Duration) error {
	if len(value) == 0 {
		return storeErr("del", key, s.Del(ctx, key))
	}
	if err := s.HSet(ctx, key, value); err != nil {
		return storeErr("hset", key, err)
	}
	return expire(ctx, s, key, ttl)
}

// ListCacheable stores a list of strings. Writes replace the previous list
// instead of appending to it; stores implementing store.ListReplacer do so
// atomically. Like hashes, empty lists read back as a miss.
type ListCacheable struct{}

func (ListCacheable) Fetch(ctx context.Context, s store.Store, key string) ([]string, bool, error) {
	l, err := s.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, false, storeErr("lrange", key, err)
	}
	if len(l) == 0 {
		return nil, false, nil
	}
	return l, true, nil
}

func (ListCacheable) Store(ctx context.Context, s store.Store, key string, value []string, ttl time.Duration) error {
	if r, ok := s.(store.ListReplacer); ok {
		return storeErr("replace", key, r.ReplaceList(ctx, key, value, ttl))
	}
	if err := s.Del(ctx, key); err != nil {
		return storeErr("del", key, err)
	}
	if len(value) == 0 {
		return nil
	}
	if err := s.RPush(ctx, key, value...); err != nil {
		return storeErr("rpush", key, err)
	}
	return expire(ctx, s, key, ttl)
}

func expire(ctx context.Context, s store.Store, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return storeErr("expire", key, s.Expire(ctx, key, ttl))
}
