// Package addbook implements adding a book to the catalog, creating its
// publisher and authors on first use.
package addbook

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

const auditTableBooks = "books"

// Store is the narrow storage interface this handler depends on.
type Store interface {
	EnsurePublisher(ctx context.Context, name string) (uuid.UUID, error)
	EnsureAuthor(ctx context.Context, author core.Author) (uuid.UUID, error)
	InsertBook(ctx context.Context, book core.Book, authorIDs []uuid.UUID) error
}

// CommandHandler handles the AddBook command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for added books.
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
	result := Decide(command)
	if decideErr := result.HasError(); decideErr != nil {
		return decideErr
	}

	publisherID, err := h.store.EnsurePublisher(ctx, command.Publisher)
	if err != nil {
		return err
	}

	authorIDs := make([]uuid.UUID, 0, len(command.Authors))

	for _, input := range command.Authors {
		authorID, ensureErr := h.store.EnsureAuthor(ctx, core.Author{
			Name:      input.Name,
			BirthYear: input.BirthYear,
			DeathYear: input.DeathYear,
		})
		if ensureErr != nil {
			return ensureErr
		}

		authorIDs = append(authorIDs, authorID)
	}

	book := core.Book{
		ID:              command.BookID,
		Title:           command.Title,
		ISBN:            command.ISBN,
		PublicationYear: command.PublicationYear,
		PublisherID:     publisherID,
	}

	if err = h.store.InsertBook(ctx, book, authorIDs); err != nil {
		return err
	}

	h.recorder.Record(
		ctx,
		auditTableBooks,
		book.ID,
		uuid.Nil,
		command.CommandType(),
		command.OccurredAt,
		nil,
		result.Event,
	)

	return nil
}
