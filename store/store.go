// Package store defines the key-value contract consumed by cachefn.
//
// The contract is a thin slice of the Redis command set: strings (GET/SET),
// hashes (HGET/HSET/HGETALL), lists (RPUSH/LRANGE) and key management
// (EXPIRE/DEL/TTL). Implementations live in store/redis (network) and
// store/memory (in-process).
//
// A miss is never an error: Get and HGet report it with ok=false, HGetAll and
// LRange with an empty result. Errors are reserved for IO, protocol and type
// failures.
package store

import (
	"context"
	"errors"
	"time"
)

// TTL sentinels, identical to what Redis reports for TTL/PTTL.
const (
	// TTLMissing is returned by TTL when the key does not exist.
	TTLMissing time.Duration = -2
	// TTLPersistent is returned by TTL when the key exists without an expiry.
	TTLPersistent time.Duration = -1
)

// ErrWrongType is returned when a command targets a key holding another shape.
var ErrWrongType = errors.New("store: operation against a key holding the wrong kind of value")

// Store is the minimal command set used by cachefn. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; ("", false, nil) on miss.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value. ttl <= 0 stores without expiry and clears any previous one.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Expire sets a timeout on an existing key. Missing keys are ignored.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// HGet returns a single hash field; ok=false when the key or field is absent.
	HGet(ctx context.Context, key, field string) (string, bool, error)
	// HSet writes the given fields, leaving other fields of the hash untouched.
	HSet(ctx context.Context, key string, values map[string]string) error
	// HGetAll returns every field of the hash; empty when the key is absent.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// RPush appends values to the tail of the list at key.
	RPush(ctx context.Context, key string, values ...string) error
	// LRange returns the elements between start and stop (inclusive, negative
	// indexes count from the tail).
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// Del removes keys. Missing keys are ignored.
	Del(ctx context.Context, keys ...string) error
	// TTL reports the remaining time to live, or TTLMissing / TTLPersistent.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Close releases resources held by the store.
	Close(ctx context.Context) error
}

// ListReplacer is implemented by stores that can swap the full content of a
// list (and its expiry) in one atomic step.
type ListReplacer interface {
	ReplaceList(ctx context.Context, key string, values []string, ttl time.Duration) error
}
