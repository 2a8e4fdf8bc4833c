// Package addbookcopy implements adding a physical copy of a catalog book.
// New copies start out Available at version zero.
package addbookcopy

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
	GetBook(ctx context.Context, bookID uuid.UUID) (core.Book, error)
	InsertCopy(ctx context.Context, copy core.BookCopy) error
}

// CommandHandler handles the AddBookCopy command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for added copies.
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

// Handle executes the command.
func (h *CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	retryOptions := h.retryOptions
	if retryOptions == nil && h.metrics != nil {
		retryOptions = []shell.RetryOption{shell.WithMetrics(h.metrics, command.CommandType())}
	}

	retryMetrics, err := shell.RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			return h.executeCommand(ctx, command)
		},
		retryOptions...,
	)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h *CommandHandler) executeCommand(ctx context.Context, command Command) error {
	if _, err := h.store.GetBook(ctx, command.BookID); err != nil {
		return err
	}

	copyRecord := core.BookCopy{
		ID:      command.CopyID,
		BookID:  command.BookID,
		Status:  core.CopyAvailable,
		Version: 0,
		AddedAt: command.OccurredAt,
	}

	if err := h.store.InsertCopy(ctx, copyRecord); err != nil {
		return err
	}

	h.recorder.Record(
		ctx,
		auditTableCopies,
		copyRecord.ID,
		uuid.Nil,
		command.CommandType(),
		command.OccurredAt,
		nil,
		core.BuildBookCopyAdded(copyRecord.ID, command.BookID, command.OccurredAt),
	)

	return nil
}
