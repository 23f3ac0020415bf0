// Package logrus adapts a logrus entry to appstate.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	appstate "github.com/0xLeif/AppState-sub000"
)

var _ appstate.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps l; nil uses logrus.StandardLogger.
func New(l *logrus.Logger) LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return LogrusLogger{E: logrus.NewEntry(l).WithField("component", "appstate")}
}

func (l LogrusLogger) Debug(msg string, f appstate.Fields) {
	l.with(f).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f appstate.Fields) { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f appstate.Fields) { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f appstate.Fields) {
	l.with(f).Error(msg)
}

// with routes an "err" field through WithError so formatters treat it as one.
func (l LogrusLogger) with(f appstate.Fields) *logrus.Entry {
	e := l.E
	if len(f) == 0 {
		return e
	}
	rest := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			e = e.WithError(err)
			continue
		}
		rest[k] = v
	}
	return e.WithFields(rest)
}
