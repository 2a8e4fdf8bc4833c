package shell

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/libreshelf/circulation-go/store"
)

const (
	// A lost compare-and-swap race is safe to retry exactly once: the re-read
	// either succeeds or yields the proper business conflict.
	defaultMaxAttempts  = 2
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3

	// CommandHandlerRetriesMetric counts retry attempts by command type.
	CommandHandlerRetriesMetric = "command_handler_retries"

	// CommandHandlerRetryDelayMetric records backoff delays before retries.
	CommandHandlerRetryDelayMetric = "command_handler_retry_delay"

	// CommandHandlerMaxRetriesReachedMetric counts retry exhaustion.
	CommandHandlerMaxRetriesReachedMetric = "command_handler_max_retries_reached"

	logAttrCommandType = "command_type"
)

var (
	// ErrNilMetricsCollector is returned when a nil metrics collector is provided to WithMetrics.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrEmptyCommandType is returned when an empty command type is provided to WithMetrics.
	ErrEmptyCommandType = errors.New("command type must not be empty")

	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics captures what happened during retry execution.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

// retryConfig holds configuration for exponential backoff retry logic.
type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector store.MetricsCollector
	commandType      string
}

// RetryWithExponentialBackoff executes the provided function with
// exponential backoff, retrying only on store.ErrConcurrencyConflict up to
// maxAttempts times. All other errors fail fast: business conflicts are
// deliberate decisions and timeouts during overload must not cascade.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetrics, error) {

	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	metrics := RetryMetrics{LastErrorType: "none"}

	for _, option := range options {
		if err := option(config); err != nil {
			return metrics, err
		}
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: baseDelay * 2^(attempt-1)
			delay := config.baseDelay * time.Duration(1<<(attempt-1))

			// Add jitter to prevent thundering herd
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			recordRetryDelayMetric(config, attempt, backoffDelay)
			metrics.TotalDelay += backoffDelay

			select {
			case <-time.After(backoffDelay):
				// continue with retry
			case <-ctx.Done():
				metrics.LastErrorType = errorType(ctx.Err())
				return metrics, ctx.Err()
			}
		}

		metrics.Attempts = attempt + 1
		lastErr = fn(ctx)

		if lastErr == nil {
			metrics.LastErrorType = "none"
			return metrics, nil
		}

		metrics.LastErrorType = errorType(lastErr)

		if !isRetryableError(lastErr) {
			return metrics, lastErr
		}

		recordRetryAttemptMetric(config, attempt, lastErr)
	}

	metrics.RetriesExhausted = true
	recordMaxRetriesReachedMetric(config, lastErr)

	return metrics, lastErr
}

// recordRetryDelayMetric records the actual backoff delay before each retry attempt.
func recordRetryDelayMetric(config *retryConfig, attempt int, backoffDelay time.Duration) {
	if config.metricsCollector != nil {
		labels := map[string]string{
			logAttrCommandType: config.commandType,
			"attempt_number":   fmt.Sprintf("%d", attempt),
		}

		config.metricsCollector.RecordDuration(CommandHandlerRetryDelayMetric, backoffDelay, labels)
	}
}

// recordRetryAttemptMetric tracks retry attempts by command type, attempt number, and error type.
func recordRetryAttemptMetric(config *retryConfig, attempt int, lastErr error) {
	if attempt < config.maxAttempts-1 && config.metricsCollector != nil {
		labels := map[string]string{
			logAttrCommandType: config.commandType,
			"attempt_number":   fmt.Sprintf("%d", attempt+1),
			"error_type":       errorType(lastErr),
		}

		config.metricsCollector.IncrementCounter(CommandHandlerRetriesMetric, labels)
	}
}

// recordMaxRetriesReachedMetric tracks when retry exhaustion occurs with the final error type.
func recordMaxRetriesReachedMetric(config *retryConfig, lastErr error) {
	if config.metricsCollector != nil {
		labels := map[string]string{
			logAttrCommandType: config.commandType,
			"final_error_type": errorType(lastErr),
		}

		config.metricsCollector.IncrementCounter(CommandHandlerMaxRetriesReachedMetric, labels)
	}
}

// isRetryableError determines if an error should be retried. Only
// concurrency conflicts are.
func isRetryableError(err error) bool {
	return errors.Is(err, store.ErrConcurrencyConflict)
}

// errorType extracts a string representation of the error type for metrics labeling.
func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, store.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	}

	return "other"
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of retry attempts.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, etc.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter factor to prevent thundering herd
// problems. Valid range: 0.0 (no jitter) to 1.0 (100% jitter).
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithMetrics sets the metrics collector for retry instrumentation.
// Requires commandType to properly label metrics.
func WithMetrics(collector store.MetricsCollector, commandType string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if commandType == "" {
			return ErrEmptyCommandType
		}

		config.metricsCollector = collector
		config.commandType = commandType

		return nil
	}
}
