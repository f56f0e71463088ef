// Package config loads connection and cache settings from a YAML file,
// .env files and CACHEFN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix     = "CACHEFN"
	DefaultSocketTimeout = 15 * time.Second
	DefaultNamespace     = "cachefn"
)

type Config struct {
	Redis RedisConfig `mapstructure:"redis"`
	Cache CacheConfig `mapstructure:"cache"`
}

// RedisConfig describes the connection. URL wins over Host/Password/DB/TLS
// when both are set.
type RedisConfig struct {
	URL           string        `mapstructure:"url"`
	Host          string        `mapstructure:"host"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	TLS           bool          `mapstructure:"tls"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
	SocketTimeout time.Duration `mapstructure:"socket_timeout"`
	PoolSize      int           `mapstructure:"pool_size"`
}

type CacheConfig struct {
	Namespace    string `mapstructure:"namespace"`
	MaxKeyLength int    `mapstructure:"max_key_length"`
	// ErrorPolicy is "propagate" or "degrade".
	ErrorPolicy string `mapstructure:"error_policy"`
}

// ConnectionURL returns URL, or builds one from the discrete fields.
func (r RedisConfig) ConnectionURL() string {
	if r.URL != "" {
		return r.URL
	}
	return BuildRedisURL(r.Host, r.Password, r.DB, r.TLS)
}

// BuildRedisURL assembles a redis:// (or rediss:// when secure) URL.
// DB 0 is left implicit.
func BuildRedisURL(host, password string, db int, secure bool) string {
	scheme := "redis"
	if secure {
		scheme = "rediss"
	}
	u := scheme + "://"
	if password != "" {
		u += url.UserPassword("", password).String() + "@"
	}
	u += host
	if db != 0 {
		u += "/" + strconv.Itoa(db)
	}
	return u
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

func (c Config) Validate() error {
	var errs []error
	if c.Redis.URL == "" && c.Redis.Host == "" {
		errs = append(errs, &ConfigError{Field: "redis.url", Message: "either url or host is required"})
	}
	if c.Redis.DB < 0 {
		errs = append(errs, &ConfigError{Field: "redis.db", Message: "must be >= 0"})
	}
	if c.Redis.DialTimeout < 0 {
		errs = append(errs, &ConfigError{Field: "redis.dial_timeout", Message: "must be >= 0"})
	}
	if c.Redis.SocketTimeout < 0 {
		errs = append(errs, &ConfigError{Field: "redis.socket_timeout", Message: "must be >= 0"})
	}
	if c.Redis.PoolSize < 0 {
		errs = append(errs, &ConfigError{Field: "redis.pool_size", Message: "must be >= 0"})
	}
	if c.Cache.MaxKeyLength < 0 {
		errs = append(errs, &ConfigError{Field: "cache.max_key_length", Message: "must be >= 0"})
	}
	switch strings.ToLower(c.Cache.ErrorPolicy) {
	case "", "propagate", "degrade":
	default:
		errs = append(errs, &ConfigError{Field: "cache.error_policy", Message: fmt.Sprintf("unknown policy %q", c.Cache.ErrorPolicy)})
	}
	return errors.Join(errs...)
}

type LoadOptions struct {
	// EnvPrefix defaults to CACHEFN, so redis.url is read from CACHEFN_REDIS_URL.
	EnvPrefix string
	// ConfigFile is an optional YAML (or any viper-supported) file.
	ConfigFile string
	// DotenvFiles are loaded into the process environment first. Missing files
	// are skipped. Variables already set are not overridden.
	DotenvFiles []string
}

// Load reads defaults, then the config file, then the environment.
func Load(opts LoadOptions) (*Config, error) {
	for _, f := range opts.DotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.socket_timeout", DefaultSocketTimeout)
	v.SetDefault("redis.pool_size", 0)
	v.SetDefault("cache.namespace", DefaultNamespace)
	v.SetDefault("cache.max_key_length", 0)
	v.SetDefault("cache.error_policy", "propagate")

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.ConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}
