package config

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the diagnostics collaborator handed to every component.
// *logrus.Logger and *logrus.Entry both satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// NewLogger returns a logrus logger writing to out.
func NewLogger(level logrus.Level, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return log
}

// DiscardLogger drops everything, used by tests.
func DiscardLogger() *logrus.Logger {
	return NewLogger(logrus.PanicLevel, io.Discard)
}
