// Package zap adapts go.uber.org/zap to cachefn.Logger.
package zap

import (
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/cachefn"
)

var _ cachefn.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// Config selects level and encoding for New.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// New builds a zap logger writing to stderr.
func New(cfg Config) (Logger, error) {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "console" {
		return Logger{}, errors.New("log/zap: format must be json or console")
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	if format == "console" {
		enc.EncodeCaller = zapcore.ShortCallerEncoder
	}

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:          format,
		EncoderConfig:     enc,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	l, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return Logger{}, err
	}
	return Logger{L: l.Named("cachefn")}, nil
}

func (z Logger) Debug(msg string, f cachefn.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f cachefn.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f cachefn.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f cachefn.Fields) { z.L.Error(msg, fields(f)...) }

// fields converts f in key order so that output is stable. Errors go through
// zap.NamedError to keep their message rather than their struct.
func fields(f cachefn.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
