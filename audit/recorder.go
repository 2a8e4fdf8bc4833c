// Package audit records state-changing operations to the append-only audit
// log. Recording is best-effort: it happens after the mutating transaction
// has committed, and a failure to record is logged but never fails or rolls
// back the primary operation.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/libreshelf/circulation-go/store"
)

const (
	logMsgMarshalFailed = "failed to marshal audit payload"
	logMsgRecordFailed  = "failed to record audit entry"
	logAttrError        = "error"
	logAttrTable        = "table"
	logAttrRecordID     = "record_id"
	logAttrAction       = "action"
)

var marshal = jsoniter.ConfigCompatibleWithStandardLibrary.Marshal

// Entry is one append-only audit record.
type Entry struct {
	ID         uuid.UUID
	Table      string
	RecordID   uuid.UUID
	Action     string
	ActorID    uuid.UUID
	OccurredAt time.Time
	OldValues  []byte
	NewValues  []byte
}

// Writer persists audit entries. Implemented by the storage engine.
type Writer interface {
	InsertAuditEntry(ctx context.Context, entry Entry) error
}

// Recorder is the audit sink handed to the command handlers. A nil *Recorder
// is valid and records nothing.
type Recorder struct {
	writer Writer
	logger store.Logger
}

// Option defines a functional option for configuring a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used to report recording failures.
func WithLogger(logger store.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates a Recorder writing through the given Writer.
func NewRecorder(writer Writer, options ...Option) *Recorder {
	recorder := &Recorder{writer: writer}

	for _, option := range options {
		option(recorder)
	}

	return recorder
}

// Record appends one audit entry. The before and after values are marshaled
// to JSON; either may be nil. Failures are logged at Warn and swallowed.
func (r *Recorder) Record(
	ctx context.Context,
	table string,
	recordID uuid.UUID,
	actorID uuid.UUID,
	action string,
	occurredAt time.Time,
	before any,
	after any,
) {

	if r == nil || r.writer == nil {
		return
	}

	oldValues, ok := r.marshalPayload(before, table, recordID, action)
	if !ok {
		return
	}

	newValues, ok := r.marshalPayload(after, table, recordID, action)
	if !ok {
		return
	}

	entry := Entry{
		ID:         uuid.New(),
		Table:      table,
		RecordID:   recordID,
		Action:     action,
		ActorID:    actorID,
		OccurredAt: occurredAt,
		OldValues:  oldValues,
		NewValues:  newValues,
	}

	if err := r.writer.InsertAuditEntry(ctx, entry); err != nil {
		r.warn(logMsgRecordFailed, err, table, recordID, action)
	}
}

func (r *Recorder) marshalPayload(payload any, table string, recordID uuid.UUID, action string) ([]byte, bool) {
	if payload == nil {
		return nil, true
	}

	data, err := marshal(payload)
	if err != nil {
		r.warn(logMsgMarshalFailed, err, table, recordID, action)
		return nil, false
	}

	return data, true
}

func (r *Recorder) warn(msg string, err error, table string, recordID uuid.UUID, action string) {
	if r.logger != nil {
		r.logger.Warn(msg,
			logAttrError, err.Error(),
			logAttrTable, table,
			logAttrRecordID, recordID.String(),
			logAttrAction, action,
		)
	}
}
