package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/cachefn/store"
)

// DefaultSocketTimeout applies to reads and writes when ConnOptions leaves them unset.
const DefaultSocketTimeout = 15 * time.Second

var ErrNilClient = errors.New("redis store: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var (
	_ store.Store        = (*Redis)(nil)
	_ store.ListReplacer = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

// ConnOptions tune a client created from a URL. Zero values fall back to
// DefaultSocketTimeout and the go-redis defaults.
type ConnOptions struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// Open creates a client for a redis:// or rediss:// URL. The returned store
// owns the client and closes it on Close.
func Open(url string, o ConnOptions) (*Redis, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis store: parse url: %w", err)
	}
	if o.DialTimeout > 0 {
		opt.DialTimeout = o.DialTimeout
	}
	opt.ReadTimeout = DefaultSocketTimeout
	if o.ReadTimeout > 0 {
		opt.ReadTimeout = o.ReadTimeout
	}
	opt.WriteTimeout = DefaultSocketTimeout
	if o.WriteTimeout > 0 {
		opt.WriteTimeout = o.WriteTimeout
	}
	if o.PoolSize > 0 {
		opt.PoolSize = o.PoolSize
	}
	return New(Config{Client: goredis.NewClient(opt), CloseClient: true})
}

// Client exposes the underlying go-redis client.
func (s *Redis) Client() goredis.UniversalClient { return s.rdb }

func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil // miss
	}
	if err != nil {
		return "", false, mapErr(err) // transport/server error
	}
	return v, true, nil
}

func (s *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0 // non-positive => no expiry
	}
	return mapErr(s.rdb.Set(ctx, key, value, ttl).Err())
}

func (s *Redis) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return mapErr(s.rdb.Expire(ctx, key, ttl).Err())
}

func (s *Redis) HGet(ctx context.Context, key, field string) (string, bool, error) {
	v, err := s.rdb.HGet(ctx, key, field).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapErr(err)
	}
	return v, true, nil
}

func (s *Redis) HSet(ctx context.Context, key string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, len(values)*2)
	for f, v := range values {
		args = append(args, f, v)
	}
	return mapErr(s.rdb.HSet(ctx, key, args...).Err())
}

func (s *Redis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (s *Redis) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	return mapErr(s.rdb.RPush(ctx, key, toArgs(values)...).Err())
}

func (s *Redis) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	l, err := s.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, mapErr(err)
	}
	return l, nil
}

// ReplaceList runs DEL, RPUSH and EXPIRE inside MULTI/EXEC so readers never
// observe a half-written list.
func (s *Redis) ReplaceList(ctx context.Context, key string, values []string, ttl time.Duration) error {
	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, key)
		if len(values) > 0 {
			p.RPush(ctx, key, toArgs(values)...)
			if ttl > 0 {
				p.Expire(ctx, key, ttl)
			}
		}
		return nil
	})
	return mapErr(err)
}

func (s *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return mapErr(s.rdb.Del(ctx, keys...).Err())
}

func (s *Redis) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, mapErr(err)
	}
	// go-redis reports the -2/-1 markers unscaled.
	switch d {
	case -2:
		return store.TTLMissing, nil
	case -1:
		return store.TTLPersistent, nil
	}
	return d, nil
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.HasPrefix(err.Error(), "WRONGTYPE") {
		return fmt.Errorf("%w: %v", store.ErrWrongType, err)
	}
	return err
}
