// Package checkoutcopy implements checking a copy out to a member: the copy
// transitions to CheckedOut and an open loan is created, guarded by the copy
// version so racing checkouts cannot both succeed.
package checkoutcopy

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

// DefaultFineThreshold blocks checkout when a member owes more than this in
// outstanding fines.
const DefaultFineThreshold = core.Cents(500)

const auditTableLoans = "loans"

// Store is the narrow storage interface this handler depends on.
type Store interface {
	GetCopy(ctx context.Context, copyID uuid.UUID) (core.BookCopy, error)
	GetMember(ctx context.Context, memberID uuid.UUID) (core.Member, error)
	OutstandingFineTotal(ctx context.Context, memberID uuid.UUID) (core.Cents, error)
	FulfilledReservationForCopy(ctx context.Context, copyID uuid.UUID) (core.Reservation, bool, error)
	CheckOutCopy(ctx context.Context, copyID uuid.UUID, expectedVersion uint, loan core.Loan) error
}

// CommandHandler handles the CheckOutCopy command.
type CommandHandler struct {
	store        Store
	policy       Policy
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithPolicy overrides the default lending policy.
func WithPolicy(policy Policy) Option {
	return func(h *CommandHandler) {
		h.policy = policy
	}
}

// WithAuditRecorder sets the audit recorder for successful checkouts.
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
	handler := &CommandHandler{
		store:  s,
		policy: Policy{FineThreshold: DefaultFineThreshold},
	}

	for _, option := range options {
		option(handler)
	}

	return handler
}

// Handle executes the command with retry on concurrency conflicts: a lost
// compare-and-swap triggers one re-read and re-decide, which either succeeds
// or surfaces the proper business conflict.
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

	result := Decide(snapshot, command, h.policy)
	if decideErr := result.HasError(); decideErr != nil {
		return decideErr
	}

	event, ok := result.Event.(core.CopyCheckedOut)
	if !ok {
		return core.ErrInvalidState
	}

	loan := core.Loan{
		ID:           command.LoanID,
		CopyID:       command.CopyID,
		MemberID:     command.MemberID,
		CheckoutDate: command.OccurredAt,
		DueDate:      event.DueDate,
	}

	if err = h.store.CheckOutCopy(ctx, command.CopyID, snapshot.copy.Version, loan); err != nil {
		return err
	}

	h.recorder.Record(
		ctx,
		auditTableLoans,
		loan.ID,
		command.MemberID,
		command.CommandType(),
		command.OccurredAt,
		nil,
		event,
	)

	return nil
}

func (h *CommandHandler) loadState(ctx context.Context, command Command) (state, error) {
	copyRecord, err := h.store.GetCopy(ctx, command.CopyID)
	if err != nil {
		return state{}, err
	}

	member, err := h.store.GetMember(ctx, command.MemberID)
	if err != nil {
		return state{}, err
	}

	outstanding, err := h.store.OutstandingFineTotal(ctx, command.MemberID)
	if err != nil {
		return state{}, err
	}

	snapshot := state{
		copy:             copyRecord,
		member:           member,
		outstandingFines: outstanding,
	}

	if copyRecord.Status == core.CopyReserved {
		reservation, found, resErr := h.store.FulfilledReservationForCopy(ctx, command.CopyID)
		if resErr != nil {
			return state{}, resErr
		}

		if found {
			snapshot.heldReservation = &reservation
		}
	}

	return snapshot, nil
}
