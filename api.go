package cachefn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/unkn0wn-root/cachefn/config"
	"github.com/unkn0wn-root/cachefn/store"
	redisstore "github.com/unkn0wn-root/cachefn/store/redis"
)

// ErrorPolicy decides what a wrapped call does when reading the cache fails.
// Write failures never fail a call: the computed value is returned and the
// failure is logged and reported to Hooks.StoreFailed.
type ErrorPolicy int

const (
	// PropagateErrors returns the *StoreError to the caller.
	PropagateErrors ErrorPolicy = iota
	// DegradeOnError treats the failed read as a miss: the wrapped function
	// runs and its value is still offered to the store.
	DegradeOnError
)

func (p ErrorPolicy) String() string {
	switch p {
	case PropagateErrors:
		return "propagate"
	case DegradeOnError:
		return "degrade"
	}
	return fmt.Sprintf("ErrorPolicy(%d)", int(p))
}

// ParseErrorPolicy accepts "propagate", "degrade" and "" (propagate).
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "propagate":
		return PropagateErrors, nil
	case "degrade":
		return DegradeOnError, nil
	}
	return 0, fmt.Errorf("%w: unknown error policy %q", ErrInvalidOptions, s)
}

type Options struct {
	// Store, when set, initializes the handle immediately.
	Store store.Store
	// URL, when set, opens a go-redis client immediately. Mutually exclusive with Store.
	URL  string
	Conn redisstore.ConnOptions

	// Key prefix; defaults to DefaultNamespace.
	Namespace string
	// MaxKeyLength > 0 replaces the argument part of longer derived keys with a
	// short sha256 digest. Custom keys are never rewritten.
	MaxKeyLength int

	ErrorPolicy ErrorPolicy
	// Disabled turns every wrapped function into a plain call: no reads, no writes.
	Disabled bool

	Logger Logger // optional
	Hooks  Hooks  // optional
}

// ApplyConfig copies connection and cache settings from cfg. Fields already
// set on o are overwritten.
func (o *Options) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	policy, err := ParseErrorPolicy(cfg.Cache.ErrorPolicy)
	if err != nil {
		return err
	}
	o.URL = cfg.Redis.ConnectionURL()
	o.Conn = connOptions(cfg.Redis)
	o.Namespace = cfg.Cache.Namespace
	o.MaxKeyLength = cfg.Cache.MaxKeyLength
	o.ErrorPolicy = policy
	return nil
}

func connOptions(r config.RedisConfig) redisstore.ConnOptions {
	return redisstore.ConnOptions{
		DialTimeout:  r.DialTimeout,
		ReadTimeout:  r.SocketTimeout,
		WriteTimeout: r.SocketTimeout,
		PoolSize:     r.PoolSize,
	}
}

// cell is the shared store handle. Every Func built from a Caching reads the
// same pointer, so a Func wrapped before Init sees the store once it is set.
type cell struct {
	s store.Store
}

// Caching owns the store handle and the settings shared by wrapped functions.
type Caching struct {
	handle    atomic.Pointer[cell]
	namespace string
	maxKeyLen int
	policy    ErrorPolicy
	enabled   bool
	log       Logger
	hooks     Hooks
}

// New builds a Caching. With neither Options.Store nor Options.URL the handle
// stays empty until Init, InitURL or InitConfig; functions may be wrapped in
// the meantime, but calling them returns ErrNotInitialized.
func New(opts Options) (*Caching, error) {
	if opts.Store != nil && opts.URL != "" {
		return nil, fmt.Errorf("%w: Store and URL are mutually exclusive", ErrInvalidOptions)
	}
	if opts.MaxKeyLength < 0 {
		return nil, fmt.Errorf("%w: negative MaxKeyLength", ErrInvalidOptions)
	}
	if opts.ErrorPolicy != PropagateErrors && opts.ErrorPolicy != DegradeOnError {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, opts.ErrorPolicy)
	}

	c := &Caching{
		namespace: coalesce(opts.Namespace, DefaultNamespace),
		maxKeyLen: opts.MaxKeyLength,
		policy:    opts.ErrorPolicy,
		enabled:   !opts.Disabled,
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	switch {
	case opts.Store != nil:
		if err := c.Init(opts.Store); err != nil {
			return nil, err
		}
	case opts.URL != "":
		if err := c.InitURL(opts.URL, opts.Conn); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Init fills the handle. It may succeed only once per Caching.
func (c *Caching) Init(s store.Store) error {
	if s == nil {
		return fmt.Errorf("%w: nil store", ErrInvalidOptions)
	}
	if !c.handle.CompareAndSwap(nil, &cell{s: s}) {
		return ErrAlreadyInitialized
	}
	c.log.Info("cache store initialized", Fields{"namespace": c.namespace, "store": fmt.Sprintf("%T", s)})
	return nil
}

// InitURL opens a go-redis client for url and fills the handle with it.
func (c *Caching) InitURL(url string, conn redisstore.ConnOptions) error {
	if c.Initialized() {
		return ErrAlreadyInitialized
	}
	s, err := redisstore.Open(url, conn)
	if err != nil {
		return err
	}
	if err := c.Init(s); err != nil {
		_ = s.Close(context.Background())
		return err
	}
	return nil
}

// InitConfig is InitURL driven by a loaded config. Only the connection part of
// cfg is used; cache settings are fixed at New (see Options.ApplyConfig).
func (c *Caching) InitConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return c.InitURL(cfg.Redis.ConnectionURL(), connOptions(cfg.Redis))
}

func (c *Caching) Initialized() bool { return c.handle.Load() != nil }

// Store returns the raw store handle. A store created from a URL is a
// *redisstore.Redis; its Client method exposes the go-redis client.
func (c *Caching) Store() (store.Store, error) {
	h := c.handle.Load()
	if h == nil {
		return nil, ErrNotInitialized
	}
	return h.s, nil
}

// Delete removes keys regardless of which function cached them.
func (c *Caching) Delete(ctx context.Context, keys ...string) error {
	s, err := c.Store()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return storeErr("del", strings.Join(keys, ","), s.Del(ctx, keys...))
}

// Close closes the store. Calling Close on an uninitialized Caching is a no-op.
func (c *Caching) Close(ctx context.Context) error {
	s, err := c.Store()
	if errors.Is(err, ErrNotInitialized) {
		return nil
	}
	return s.Close(ctx)
}

func (c *Caching) Namespace() string { return c.namespace }
