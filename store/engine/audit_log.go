package engine

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/audit"
)

// InsertAuditEntry appends one row to the audit log. The log is append-only;
// no engine method updates or deletes audit rows.
func (s *Store) InsertAuditEntry(ctx context.Context, entry audit.Entry) error {
	var actorID any
	if entry.ActorID != uuid.Nil {
		actorID = entry.ActorID.String()
	}

	insertStmt := s.builder().
		Insert(tableAuditLog).
		Rows(goqu.Record{
			"audit_id":    entry.ID.String(),
			"table_name":  entry.Table,
			"record_id":   entry.RecordID.String(),
			"action":      entry.Action,
			"actor_id":    actorID,
			"occurred_at": ts(entry.OccurredAt),
			"old_values":  nullableBytes(entry.OldValues),
			"new_values":  nullableBytes(entry.NewValues),
		})

	sqlQuery, err := s.buildSQL(insertStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

func nullableBytes(value []byte) any {
	if len(value) == 0 {
		return nil
	}

	return string(value)
}
