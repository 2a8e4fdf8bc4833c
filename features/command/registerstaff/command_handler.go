// Package registerstaff implements registering a staff account. Credentials
// are stored as a bcrypt hash; authentication flows live outside this
// module.
package registerstaff

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

const (
	auditTableStaff = "staff"

	minPasswordLength = 8
)

// Store is the narrow storage interface this handler depends on.
type Store interface {
	InsertStaff(ctx context.Context, staff core.Staff) error
}

// CommandHandler handles the RegisterStaff command.
type CommandHandler struct {
	store        Store
	recorder     *audit.Recorder
	metrics      store.MetricsCollector
	retryOptions []shell.RetryOption
	bcryptCost   int
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the audit recorder for registrations.
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

// WithBcryptCost overrides the bcrypt cost, mainly to speed up tests.
func WithBcryptCost(cost int) Option {
	return func(h *CommandHandler) {
		h.bcryptCost = cost
	}
}

// NewCommandHandler creates a CommandHandler with the given storage.
func NewCommandHandler(s Store, options ...Option) *CommandHandler {
	handler := &CommandHandler{
		store:      s,
		bcryptCost: bcrypt.DefaultCost,
	}

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
	if err := validate(command); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(command.Password), h.bcryptCost)
	if err != nil {
		return err
	}

	staff := core.Staff{
		ID:           command.StaffID,
		Name:         command.Name,
		Email:        command.Email,
		PasswordHash: string(hash),
		RegisteredAt: command.OccurredAt,
	}

	if err = h.store.InsertStaff(ctx, staff); err != nil {
		return err
	}

	// the password hash never goes to the audit log
	h.recorder.Record(
		ctx,
		auditTableStaff,
		staff.ID,
		staff.ID,
		command.CommandType(),
		command.OccurredAt,
		nil,
		core.BuildStaffRegistered(staff.ID, staff.Email, command.OccurredAt),
	)

	return nil
}

func validate(command Command) error {
	if strings.TrimSpace(command.Name) == "" {
		return core.ValidationError("name", "must not be empty")
	}

	if err := core.ValidateEmail(command.Email); err != nil {
		return err
	}

	if len(command.Password) < minPasswordLength {
		return core.ValidationError("password", "must be at least 8 characters")
	}

	return nil
}
