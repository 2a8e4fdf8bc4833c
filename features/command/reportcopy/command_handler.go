// Package reportcopy implements staff reports on physical copies: marking a
// copy Lost or Damaged from any state, and the manual reset back to
// Available. The status change is guarded by the copy version.
package reportcopy

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

const auditTableCopies = "book_copies"

// Store is the narrow storage interface this handler depends on.
type Store interface {
	GetCopy(ctx context.Context, copyID uuid.UUID) (core.BookCopy, error)
	UpdateCopyStatus(ctx context.Context, copyID uuid.UUID, expectedVersion uint, to core.CopyStatus) error
}

// CommandHandler handles the ReportCopy command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for copy reports.
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

// Handle executes the command with retry on concurrency conflicts. Reporting
// a copy already in the target status reports an idempotent result.
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
	copyRecord, err := h.store.GetCopy(ctx, command.CopyID)
	if err != nil {
		return false, err
	}

	result := Decide(state{copy: copyRecord}, command)

	if result.IsIdempotent() {
		return true, nil
	}

	if decideErr := result.HasError(); decideErr != nil {
		return false, decideErr
	}

	err = h.store.UpdateCopyStatus(ctx, command.CopyID, copyRecord.Version, command.ReportedStatus)
	if err != nil {
		return false, err
	}

	h.recorder.Record(
		ctx,
		auditTableCopies,
		command.CopyID,
		command.StaffID,
		command.CommandType(),
		command.OccurredAt,
		copyRecord,
		result.Event,
	)

	return false, nil
}
