// Package expirememberships implements the periodic membership sweep: Active
// memberships past their expiry date transition to Expired. Expired members
// keep their history and can be reactivated by staff.
//
// The sweep commits per record. A record that loses its compare-and-swap
// race (staff renewed or suspended concurrently) is skipped and logged; the
// next pass picks up anything still stale.
package expirememberships

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/store"
)

// DefaultBatchSize caps the records processed per pass.
const DefaultBatchSize = uint(100)

const (
	auditTableMembers = "members"

	logMsgRecordSkipped = "membership sweep: record lost its race, skipping"
	logAttrError        = "error"
	logAttrMember       = "member_id"

	// SweepExpiredMembershipsMetric counts memberships expired by sweeps.
	SweepExpiredMembershipsMetric = "membership_sweep_expired"

	// SweepSkippedMetric counts records skipped due to lost races.
	SweepSkippedMetric = "membership_sweep_skipped"
)

// Store is the narrow storage interface this handler depends on.
type Store interface {
	ListExpiredMemberships(ctx context.Context, now time.Time, limit uint) ([]core.Member, error)
	UpdateMembershipStatus(ctx context.Context, memberID uuid.UUID, from, to core.MembershipStatus) error
}

// Result reports what one sweep pass did.
type Result struct {
	Expired int
	Skipped int
}

// CommandHandler handles the ExpireMemberships sweep.
type CommandHandler struct {
	store     Store
	batchSize uint
	recorder  *audit.Recorder
	logger    store.Logger
	metrics   store.MetricsCollector
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithBatchSize overrides the default per-pass record cap.
func WithBatchSize(size uint) Option {
	return func(h *CommandHandler) {
		h.batchSize = size
	}
}

// WithAuditRecorder sets the audit recorder for expired memberships.
func WithAuditRecorder(recorder *audit.Recorder) Option {
	return func(h *CommandHandler) {
		h.recorder = recorder
	}
}

// WithLogger sets the logger used to report skipped records.
func WithLogger(logger store.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// WithMetrics sets the metrics collector for sweep instrumentation.
func WithMetrics(collector store.MetricsCollector) Option {
	return func(h *CommandHandler) {
		h.metrics = collector
	}
}

// NewCommandHandler creates a CommandHandler with the given storage.
func NewCommandHandler(s Store, options ...Option) *CommandHandler {
	handler := &CommandHandler{
		store:     s,
		batchSize: DefaultBatchSize,
	}

	for _, option := range options {
		option(handler)
	}

	return handler
}

// Handle runs one sweep pass. Storage errors abort the pass; lost races on
// individual records do not.
func (h *CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	result := Result{}

	stale, err := h.store.ListExpiredMemberships(ctx, command.OccurredAt, h.batchSize)
	if err != nil {
		return result, err
	}

	for _, member := range stale {
		err = h.store.UpdateMembershipStatus(
			ctx,
			member.ID,
			core.MembershipActive,
			core.MembershipExpired,
		)
		if err != nil {
			if store.IsConcurrencyConflict(err) {
				h.logSkipped(member.ID, err)
				h.count(SweepSkippedMetric)
				result.Skipped++

				continue
			}

			return result, err
		}

		result.Expired++
		h.count(SweepExpiredMembershipsMetric)

		h.recorder.Record(
			ctx,
			auditTableMembers,
			member.ID,
			uuid.Nil,
			command.CommandType(),
			command.OccurredAt,
			member,
			core.BuildMembershipStatusChanged(member.ID, core.MembershipActive, core.MembershipExpired, command.OccurredAt),
		)
	}

	return result, nil
}

func (h *CommandHandler) logSkipped(memberID uuid.UUID, err error) {
	if h.logger != nil {
		h.logger.Info(logMsgRecordSkipped,
			logAttrMember, memberID.String(),
			logAttrError, err.Error(),
		)
	}
}

func (h *CommandHandler) count(metric string) {
	if h.metrics != nil {
		h.metrics.IncrementCounter(metric, map[string]string{"command_type": commandType})
	}
}
