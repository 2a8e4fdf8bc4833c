// Package reservebook implements reserving a book for a member. Reservations
// claim the book, not a specific copy; fulfillment happens FIFO when a copy
// is returned. The duplicate-pending guard is backed by a partial unique
// index, so two racing reservations by the same member cannot both commit.
package reservebook

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

const auditTableReservations = "reservations"

// Store is the narrow storage interface this handler depends on.
type Store interface {
	GetBook(ctx context.Context, bookID uuid.UUID) (core.Book, error)
	GetMember(ctx context.Context, memberID uuid.UUID) (core.Member, error)
	HasPendingReservation(ctx context.Context, bookID, memberID uuid.UUID) (bool, error)
	InsertReservation(ctx context.Context, reservation core.Reservation) error
}

// CommandHandler handles the ReserveBook command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for successful reservations.
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

// Handle executes the command with retry on concurrency conflicts. A lost
// duplicate-pending race retries once; the re-read then reports the
// duplicate as the proper business conflict.
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
	snapshot, err := h.loadState(ctx, command)
	if err != nil {
		return err
	}

	result := Decide(snapshot, command)
	if decideErr := result.HasError(); decideErr != nil {
		return decideErr
	}

	event, ok := result.Event.(core.BookReserved)
	if !ok {
		return core.ErrInvalidState
	}

	reservation := core.Reservation{
		ID:              command.ReservationID,
		BookID:          command.BookID,
		MemberID:        command.MemberID,
		Status:          core.ReservationPending,
		ReservationDate: command.OccurredAt,
		ExpirationDate:  event.ExpirationDate,
	}

	if err = reservation.Validate(); err != nil {
		return err
	}

	if err = h.store.InsertReservation(ctx, reservation); err != nil {
		return err
	}

	h.recorder.Record(
		ctx,
		auditTableReservations,
		reservation.ID,
		command.MemberID,
		command.CommandType(),
		command.OccurredAt,
		nil,
		event,
	)

	return nil
}

func (h *CommandHandler) loadState(ctx context.Context, command Command) (state, error) {
	snapshot := state{}

	if _, err := h.store.GetBook(ctx, command.BookID); err != nil {
		if core.IsNotFound(err) {
			return snapshot, nil
		}

		return state{}, err
	}

	snapshot.bookExists = true

	member, err := h.store.GetMember(ctx, command.MemberID)
	if err != nil {
		return state{}, err
	}

	snapshot.member = member

	hasPending, err := h.store.HasPendingReservation(ctx, command.BookID, command.MemberID)
	if err != nil {
		return state{}, err
	}

	snapshot.hasPendingReservation = hasPending

	return snapshot, nil
}
