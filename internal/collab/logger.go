// Package collab holds the small collaborator seams the jail core talks
// to through narrow interfaces instead of owning directly: logging,
// raw process cloning, and environment lookup.
package collab

import (
	"github.com/sirupsen/logrus"
)

// Logger is the diagnostic sink the jail runner and the reference
// binary report through; it also satisfies the mount constructor's
// narrower mount.Logger. The cgroup installer does not log; it returns
// errors for its caller to report.
type Logger interface {
	Debug(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Fatal(format string, args ...interface{})
	Errno(op string, err error)
}

// LogrusLogger backs Logger with an injected logrus.FieldLogger so
// callers can route diagnostics without touching the global logger.
type LogrusLogger struct {
	log logrus.FieldLogger
}

// NewLogrusLogger wraps log, or logrus.StandardLogger() if log is nil.
func NewLogrusLogger(log logrus.FieldLogger) *LogrusLogger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogrusLogger{log: log}
}

func (l *LogrusLogger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

func (l *LogrusLogger) Warning(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l *LogrusLogger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

func (l *LogrusLogger) Fatal(format string, args ...interface{}) {
	l.log.Fatalf(format, args...)
}

// Errno reports a syscall-sourced error against the operation name that
// produced it.
func (l *LogrusLogger) Errno(op string, err error) {
	l.log.WithError(err).Errorf("%s failed", op)
}
