package adapters

import (
	"context"
)

// DBAdapter defines the interface for database operations needed by the
// storage engine.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
	Begin(ctx context.Context) (DBTx, error)
}

// DBTx defines the interface for a database transaction. Statements executed
// through the transaction become visible atomically on Commit.
type DBTx interface {
	Exec(ctx context.Context, query string) (DBResult, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
