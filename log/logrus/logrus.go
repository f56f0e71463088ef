// Package logrus adapts sirupsen/logrus to cachefn.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/cachefn"
)

var _ cachefn.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New tags every entry with component=cachefn.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "cachefn")}
}

func (l Logger) Debug(msg string, f cachefn.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f cachefn.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f cachefn.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f cachefn.Fields) { l.with(f).Error(msg) }

// with moves an "err" field to logrus.ErrorKey so formatters treat it as the
// entry's error.
func (l Logger) with(f cachefn.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			lf[logrus.ErrorKey] = err
			continue
		}
		lf[k] = v
	}
	return l.E.WithFields(lf)
}
