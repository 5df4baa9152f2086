package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"chirper/pkg/config"
)

// Logger represents a logger instance
type Logger = *logrus.Logger

// Fields represents structured logging fields
type Fields = logrus.Fields

// Level represents a log level
type Level = logrus.Level

// Log levels
const (
	DebugLevel = logrus.DebugLevel
	InfoLevel  = logrus.InfoLevel
	WarnLevel  = logrus.WarnLevel
	ErrorLevel = logrus.ErrorLevel
)

// NewLogger creates a new configured logger instance. Output is JSON with
// sub-second timestamps so trend query latency fields line up with the
// Prometheus histograms when correlating.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	logger.SetLevel(config.GetLogLevel())
	return logger
}

// NewLoggerWithService creates a logger with a service field
func NewLoggerWithService(serviceName string) *logrus.Logger {
	logger := NewLogger()

	// Add service name to all log entries
	logger = logger.WithField("service", serviceName).Logger

	return logger
}

// NewTestLogger creates a logger that discards all output, for tests that
// exercise code paths which log expected failures.
func NewTestLogger() *logrus.Logger {
	logger := NewLogger()
	logger.SetOutput(io.Discard)
	return logger
}
