package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/audit"
)

type fakeWriter struct {
	entries []audit.Entry
	err     error
}

func (f *fakeWriter) InsertAuditEntry(_ context.Context, entry audit.Entry) error {
	if f.err != nil {
		return f.err
	}

	f.entries = append(f.entries, entry)

	return nil
}

type capturingLogger struct {
	warnings []string
}

func (l *capturingLogger) Debug(string, ...any) {}
func (l *capturingLogger) Info(string, ...any)  {}
func (l *capturingLogger) Error(string, ...any) {}

func (l *capturingLogger) Warn(msg string, _ ...any) {
	l.warnings = append(l.warnings, msg)
}

func Test_Recorder_Record_WritesEntry(t *testing.T) {
	writer := &fakeWriter{}
	recorder := audit.NewRecorder(writer)

	recordID := uuid.New()
	actorID := uuid.New()
	occurredAt := time.Now()

	recorder.Record(
		context.Background(),
		"loans",
		recordID,
		actorID,
		"CheckOutCopy",
		occurredAt,
		nil,
		map[string]string{"status": "CheckedOut"},
	)

	require.Len(t, writer.entries, 1)

	entry := writer.entries[0]
	assert.Equal(t, "loans", entry.Table)
	assert.Equal(t, recordID, entry.RecordID)
	assert.Equal(t, actorID, entry.ActorID)
	assert.Equal(t, "CheckOutCopy", entry.Action)
	assert.Nil(t, entry.OldValues)
	assert.JSONEq(t, `{"status":"CheckedOut"}`, string(entry.NewValues))
}

func Test_Recorder_Record_FailureIsLoggedAndSwallowed(t *testing.T) {
	logger := &capturingLogger{}
	writer := &fakeWriter{err: errors.New("connection refused")}
	recorder := audit.NewRecorder(writer, audit.WithLogger(logger))

	assert.NotPanics(t, func() {
		recorder.Record(
			context.Background(),
			"fines",
			uuid.New(),
			uuid.Nil,
			"PayFine",
			time.Now(),
			nil,
			nil,
		)
	})

	assert.Len(t, logger.warnings, 1, "recording failures are warned about, never returned")
}

func Test_Recorder_NilRecorderIsSafe(t *testing.T) {
	var recorder *audit.Recorder

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), "loans", uuid.New(), uuid.Nil, "ReturnCopy", time.Now(), nil, nil)
	})
}
