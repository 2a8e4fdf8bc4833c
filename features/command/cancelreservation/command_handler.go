// Package cancelreservation implements cancelling a pending reservation. The
// transition is a compare-and-swap on the reservation still being Pending;
// losing the race against fulfillment or expiry surfaces as InvalidState
// after the retry re-reads.
package cancelreservation

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
	GetReservation(ctx context.Context, reservationID uuid.UUID) (core.Reservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID uuid.UUID, from, to core.ReservationStatus) error
}

// CommandHandler handles the CancelReservation command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for successful cancellations.
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

// Handle executes the command with retry on concurrency conflicts.
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
	reservation, err := h.store.GetReservation(ctx, command.ReservationID)
	if err != nil {
		return err
	}

	result := Decide(state{reservation: reservation}, command)
	if decideErr := result.HasError(); decideErr != nil {
		return decideErr
	}

	err = h.store.UpdateReservationStatus(
		ctx,
		command.ReservationID,
		core.ReservationPending,
		core.ReservationCancelledStatus,
	)
	if err != nil {
		return err
	}

	h.recorder.Record(
		ctx,
		auditTableReservations,
		command.ReservationID,
		reservation.MemberID,
		command.CommandType(),
		command.OccurredAt,
		reservation,
		result.Event,
	)

	return nil
}
