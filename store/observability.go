package store

import (
	"time"
)

// Logger interface for SQL query logging, operational messages, warnings,
// and error reporting.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: operation outcomes and concurrency conflicts (production-safe)
// Warn level: non-critical issues like failed audit writes
// Error level: critical failures that cause operation failures.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting performance and operational
// metrics. Implementations can bridge to any metrics backend; the engine and
// the retry helper only depend on this interface.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}
