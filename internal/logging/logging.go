// Package logging constructs component-scoped log entries. There is no
// package-level logger and no instance lock: every caller injects its own
// *logrus.Logger (or accepts the package default), unlike
// unPAKer's include/logger.hpp Logger::instance() singleton, which this
// engine deliberately does not carry forward (spec.md §9, "singletons
// belong to the host, not the core").
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New builds a *logrus.Logger suitable for injecting into the engine's
// components. out defaults to the logrus default (stderr) when nil.
func New(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	if out != nil {
		l.SetOutput(out)
	}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Component scopes a logger to a named piece of the engine (e.g. "vpk",
// "extract"), the way a caller would otherwise thread a prefix string by
// hand.
func Component(l *logrus.Logger, name string) *logrus.Entry {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return l.WithField("component", name)
}

// Noop returns an entry that discards everything, for tests and callers
// that don't want logging at all.
func Noop() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
