// Package returncopy implements returning a checked-out copy: the loan
// closes, the copy moves to its next status, the oldest pending reservation
// for the book (if any) is fulfilled FIFO, and a late fee is assessed when
// the return is overdue. All row changes commit in one transaction.
package returncopy

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
	"github.com/libreshelf/circulation-go/store/engine"
)

// Default late-fee policy: $0.25 per late day, no grace period.
const (
	DefaultRatePerDay      = core.Cents(25)
	DefaultGracePeriodDays = 0
)

const auditTableLoans = "loans"

// Store is the narrow storage interface this handler depends on.
type Store interface {
	GetLoan(ctx context.Context, loanID uuid.UUID) (core.Loan, error)
	GetCopy(ctx context.Context, copyID uuid.UUID) (core.BookCopy, error)
	OldestPendingReservation(ctx context.Context, bookID uuid.UUID) (core.Reservation, bool, error)
	CompleteReturn(ctx context.Context, update engine.ReturnUpdate) error
}

// CommandHandler handles the ReturnCopy command.
type CommandHandler struct {
	store        Store
	policy       Policy
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithPolicy overrides the default late-fee policy.
func WithPolicy(policy Policy) Option {
	return func(h *CommandHandler) {
		h.policy = policy
	}
}

// WithAuditRecorder sets the audit recorder for successful returns.
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
		store: s,
		policy: Policy{
			RatePerDay:      DefaultRatePerDay,
			GracePeriodDays: DefaultGracePeriodDays,
		},
	}

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
	snapshot, err := h.loadState(ctx, command)
	if err != nil {
		return err
	}

	result := Decide(snapshot, command, h.policy)
	if decideErr := result.HasError(); decideErr != nil {
		return decideErr
	}

	event, ok := result.Event.(core.CopyReturned)
	if !ok {
		return core.ErrInvalidState
	}

	update := engine.ReturnUpdate{
		LoanID:              command.LoanID,
		ReturnedAt:          command.OccurredAt,
		CopyID:              snapshot.copy.ID,
		CopyExpectedVersion: snapshot.copy.Version,
		NextCopyStatus:      event.NextCopyStatus,
	}

	if event.FulfilledReservationID != "" {
		update.FulfillReservationID = snapshot.nextReservation.ID
	}

	if event.FineAmount > 0 {
		loanID := command.LoanID
		update.Fine = &core.Fine{
			ID:       command.FineID,
			MemberID: snapshot.loan.MemberID,
			LoanID:   &loanID,
			Amount:   event.FineAmount,
			Reason:   core.ReasonLateReturn,
			Status:   core.FineOutstanding,
			IssuedAt: command.OccurredAt,
		}
	}

	if err = h.store.CompleteReturn(ctx, update); err != nil {
		return err
	}

	h.recorder.Record(
		ctx,
		auditTableLoans,
		command.LoanID,
		snapshot.loan.MemberID,
		command.CommandType(),
		command.OccurredAt,
		snapshot.loan,
		event,
	)

	return nil
}

func (h *CommandHandler) loadState(ctx context.Context, command Command) (state, error) {
	loan, err := h.store.GetLoan(ctx, command.LoanID)
	if err != nil {
		return state{}, err
	}

	copyRecord, err := h.store.GetCopy(ctx, loan.CopyID)
	if err != nil {
		return state{}, err
	}

	snapshot := state{
		loan: loan,
		copy: copyRecord,
	}

	reservation, found, err := h.store.OldestPendingReservation(ctx, copyRecord.BookID)
	if err != nil {
		return state{}, err
	}

	if found {
		snapshot.nextReservation = &reservation
	}

	return snapshot, nil
}
