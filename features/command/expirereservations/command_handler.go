// Package expirereservations implements the periodic reservation sweep:
// pending reservations past their expiration date transition to Expired, and
// fulfilled reservations whose bound copy went unclaimed past the pickup
// window transition to Expired with the copy released back to Available.
//
// The sweep commits per record. A record that loses its compare-and-swap
// race (the member cancelled or claimed concurrently) is skipped and logged;
// the sweep carries on with the remaining records and the next pass picks up
// anything still stale.
package expirereservations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/store"
)

// Defaults for the sweep policy.
const (
	DefaultPickupWindowDays = 3
	DefaultBatchSize        = uint(100)
)

const (
	auditTableReservations = "reservations"

	logMsgRecordSkipped = "reservation sweep: record lost its race, skipping"
	logAttrError        = "error"
	logAttrReservation  = "reservation_id"

	// SweepExpiredPendingMetric counts pending reservations expired by sweeps.
	SweepExpiredPendingMetric = "reservation_sweep_expired_pending"

	// SweepExpiredPickupsMetric counts unclaimed pickups expired by sweeps.
	SweepExpiredPickupsMetric = "reservation_sweep_expired_pickups"

	// SweepSkippedMetric counts records skipped due to lost races.
	SweepSkippedMetric = "reservation_sweep_skipped"
)

// Policy holds the configured sweep parameters.
type Policy struct {
	// PickupWindowDays is how long a fulfilled reservation holds its copy
	// before the sweep releases it.
	PickupWindowDays int

	// BatchSize caps the records processed per category per pass.
	BatchSize uint
}

// Store is the narrow storage interface this handler depends on.
type Store interface {
	ListExpiredPending(ctx context.Context, now time.Time, limit uint) ([]core.Reservation, error)
	ListExpiredPickups(ctx context.Context, cutoff time.Time, limit uint) ([]core.Reservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID uuid.UUID, from, to core.ReservationStatus) error
	GetCopy(ctx context.Context, copyID uuid.UUID) (core.BookCopy, error)
	ExpirePickup(ctx context.Context, reservationID, copyID uuid.UUID, copyExpectedVersion uint) error
}

// Result reports what one sweep pass did.
type Result struct {
	ExpiredPending int
	ExpiredPickups int
	Skipped        int
}

// CommandHandler handles the ExpireReservations sweep.
type CommandHandler struct {
	store    Store
	policy   Policy
	recorder *audit.Recorder
	logger   store.Logger
	metrics  store.MetricsCollector
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithPolicy overrides the default sweep policy.
func WithPolicy(policy Policy) Option {
	return func(h *CommandHandler) {
		h.policy = policy
	}
}

// WithAuditRecorder sets the audit recorder for expired reservations.
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
		store: s,
		policy: Policy{
			PickupWindowDays: DefaultPickupWindowDays,
			BatchSize:        DefaultBatchSize,
		},
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

	if err := h.expirePending(ctx, command, &result); err != nil {
		return result, err
	}

	if err := h.expirePickups(ctx, command, &result); err != nil {
		return result, err
	}

	return result, nil
}

func (h *CommandHandler) expirePending(ctx context.Context, command Command, result *Result) error {
	stale, err := h.store.ListExpiredPending(ctx, command.OccurredAt, h.policy.BatchSize)
	if err != nil {
		return err
	}

	for _, reservation := range stale {
		err = h.store.UpdateReservationStatus(
			ctx,
			reservation.ID,
			core.ReservationPending,
			core.ReservationExpiredStatus,
		)
		if err != nil {
			if h.skipLostRace(reservation.ID, err) {
				result.Skipped++
				continue
			}

			return err
		}

		result.ExpiredPending++
		h.count(SweepExpiredPendingMetric)

		h.recorder.Record(
			ctx,
			auditTableReservations,
			reservation.ID,
			uuid.Nil,
			command.CommandType(),
			command.OccurredAt,
			reservation,
			core.BuildReservationExpired(reservation.ID, uuid.Nil, command.OccurredAt),
		)
	}

	return nil
}

func (h *CommandHandler) expirePickups(ctx context.Context, command Command, result *Result) error {
	cutoff := command.OccurredAt.Add(-time.Duration(h.policy.PickupWindowDays) * 24 * time.Hour)

	unclaimed, err := h.store.ListExpiredPickups(ctx, cutoff, h.policy.BatchSize)
	if err != nil {
		return err
	}

	for _, reservation := range unclaimed {
		if reservation.CopyID == nil {
			// fulfilled reservations are always bound to a copy
			result.Skipped++
			continue
		}

		copyRecord, getErr := h.store.GetCopy(ctx, *reservation.CopyID)
		if getErr != nil {
			return getErr
		}

		if copyRecord.Status != core.CopyReserved {
			// the member claimed the copy, the pickup succeeded
			result.Skipped++
			continue
		}

		err = h.store.ExpirePickup(ctx, reservation.ID, copyRecord.ID, copyRecord.Version)
		if err != nil {
			if h.skipLostRace(reservation.ID, err) {
				result.Skipped++
				continue
			}

			return err
		}

		result.ExpiredPickups++
		h.count(SweepExpiredPickupsMetric)

		h.recorder.Record(
			ctx,
			auditTableReservations,
			reservation.ID,
			uuid.Nil,
			command.CommandType(),
			command.OccurredAt,
			reservation,
			core.BuildReservationExpired(reservation.ID, copyRecord.ID, command.OccurredAt),
		)
	}

	return nil
}

// skipLostRace reports whether the error is a lost compare-and-swap race
// that the sweep should skip, logging and counting it.
func (h *CommandHandler) skipLostRace(reservationID uuid.UUID, err error) bool {
	if !store.IsConcurrencyConflict(err) {
		return false
	}

	if h.logger != nil {
		h.logger.Info(logMsgRecordSkipped,
			logAttrReservation, reservationID.String(),
			logAttrError, err.Error(),
		)
	}

	h.count(SweepSkippedMetric)

	return true
}

func (h *CommandHandler) count(metric string) {
	if h.metrics != nil {
		h.metrics.IncrementCounter(metric, map[string]string{"command_type": commandType})
	}
}
