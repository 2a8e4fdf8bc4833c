// Package updatemembership implements staff changes to a membership status.
// The transition is a compare-and-swap on the status the staff member saw.
package updatemembership

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

const auditTableMembers = "members"

// Store is the narrow storage interface this handler depends on.
type Store interface {
	GetMember(ctx context.Context, memberID uuid.UUID) (core.Member, error)
	UpdateMembershipStatus(ctx context.Context, memberID uuid.UUID, from, to core.MembershipStatus) error
}

// CommandHandler handles the UpdateMembership command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for status changes.
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

// Handle executes the command with retry on concurrency conflicts. Setting a
// status the membership already has reports an idempotent result.
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
	member, err := h.store.GetMember(ctx, command.MemberID)
	if err != nil {
		return false, err
	}

	result := Decide(state{member: member}, command)

	if result.IsIdempotent() {
		return true, nil
	}

	if decideErr := result.HasError(); decideErr != nil {
		return false, decideErr
	}

	err = h.store.UpdateMembershipStatus(ctx, command.MemberID, member.Status, command.NewStatus)
	if err != nil {
		return false, err
	}

	h.recorder.Record(
		ctx,
		auditTableMembers,
		command.MemberID,
		command.StaffID,
		command.CommandType(),
		command.OccurredAt,
		member,
		result.Event,
	)

	return false, nil
}
