// Package enrollmember implements enrolling a new library member. New
// memberships start out Active and expire after the configured period unless
// renewed by staff.
package enrollmember

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

const auditTableMembers = "members"

// Store is the narrow storage interface this handler depends on.
type Store interface {
	InsertMember(ctx context.Context, member core.Member) error
}

// CommandHandler handles the EnrollMember command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for enrollments.
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

	member := core.Member{
		ID:         command.MemberID,
		Name:       command.Name,
		Email:      command.Email,
		Status:     core.MembershipActive,
		EnrolledAt: command.OccurredAt,
		ExpiresAt:  command.OccurredAt.Add(time.Duration(command.MembershipPeriodDays) * 24 * time.Hour),
	}

	if err := h.store.InsertMember(ctx, member); err != nil {
		return err
	}

	h.recorder.Record(
		ctx,
		auditTableMembers,
		member.ID,
		uuid.Nil,
		command.CommandType(),
		command.OccurredAt,
		nil,
		result.Event,
	)

	return nil
}
