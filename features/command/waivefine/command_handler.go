// Package waivefine implements waiving an outstanding fine by staff
// decision. The transition is a compare-and-swap on the fine still being
// Outstanding; the acting staff member is recorded in the audit log.
package waivefine

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

const auditTableFines = "fines"

// Store is the narrow storage interface this handler depends on.
type Store interface {
	GetFine(ctx context.Context, fineID uuid.UUID) (core.Fine, error)
	WaiveFine(ctx context.Context, fineID uuid.UUID) error
}

// CommandHandler handles the WaiveFine command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for successful waivers.
func WithAuditRecorder(recorder *audit.Recorder) Option {
	return func(h *CommandHandler) {
		h.recorder = recorder
	}
}

// WithMetrics sets the metrics collector used for retry instrumentation.
func WithMetrics(collector store.MetricsCollector) Option {
	return func(h *CommandHandler) {
		h.metrics = collector
	}
}

// WithRetryOptions overrides the default retry behavior.
func WithRetryOptions(options ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = options
	}
}

// NewCommandHandler creates a CommandHandler with the given storage.
func NewCommandHandler(s Store, options ...Option) *CommandHandler {
	handler := &CommandHandler{store: s}

	for _, option := range options {
		option(handler)
	}

	return handler
}

// Handle executes the command with retry on concurrency conflicts. Waiving a
// fine that is already Waived reports an idempotent result, not an error.
func (h *CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	idempotent := false

	retryOptions := h.retryOptions
	if retryOptions == nil && h.metrics != nil {
		retryOptions = []shell.RetryOption{shell.WithMetrics(h.metrics, command.CommandType())}
	}

	retryMetrics, err := shell.RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			var execErr error
			idempotent, execErr = h.executeCommand(ctx, command)

			return execErr
		},
		retryOptions...,
	)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if idempotent {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h *CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	fine, err := h.store.GetFine(ctx, command.FineID)
	if err != nil {
		return false, err
	}

	result := Decide(state{fine: fine}, command)

	if result.IsIdempotent() {
		return true, nil
	}

	if decideErr := result.HasError(); decideErr != nil {
		return false, decideErr
	}

	if err = h.store.WaiveFine(ctx, command.FineID); err != nil {
		return false, err
	}

	h.recorder.Record(
		ctx,
		auditTableFines,
		command.FineID,
		command.StaffID,
		command.CommandType(),
		command.OccurredAt,
		fine,
		result.Event,
	)

	return false, nil
}
