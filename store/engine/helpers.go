package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/schema"
)

// CreateSchema applies the embedded DDL. All statements are idempotent, so
// calling this on an existing database is safe.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema.Statements() {
		if _, err := s.exec(ctx, s.db, stmt); err != nil {
			return err
		}
	}

	return nil
}

// notFound builds a core.ErrNotFound for the given entity and id.
func notFound(entity string, id uuid.UUID) error {
	return fmt.Errorf("%w: %s %s", core.ErrNotFound, entity, id)
}

// parseID converts a TEXT uuid column value back into a uuid.UUID.
func parseID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.Join(ErrQueryFailed, err)
	}

	return id, nil
}

// nullableTime converts a scanned NULL-able timestamp column.
func nullableTime(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}

	t := value.Time.UTC()

	return &t
}

// nullableID converts a scanned NULL-able TEXT uuid column.
func nullableID(value sql.NullString) (*uuid.UUID, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}

	id, err := parseID(value.String)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

// idString renders a nullable uuid for insertion; uuid.Nil becomes NULL.
func idString(id *uuid.UUID) any {
	if id == nil || *id == uuid.Nil {
		return nil
	}

	return id.String()
}

// ts normalizes a timestamp for insertion.
func ts(t time.Time) time.Time {
	return core.ToOccurredAt(t)
}

// tsPtr normalizes a nullable timestamp for insertion; nil becomes NULL.
func tsPtr(t *time.Time) any {
	if t == nil {
		return nil
	}

	return core.ToOccurredAt(*t)
}

// amountColumn casts a NUMERIC(10,2) column to TEXT so both the pgx and the
// database/sql drivers scan it losslessly into a string.
func amountColumn(col string) string {
	return "CAST(" + col + " AS TEXT)"
}
