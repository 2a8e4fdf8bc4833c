package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXAdapter implements DBAdapter for pgxpool.Pool.
type PGXAdapter struct {
	pool *pgxpool.Pool
}

// NewPGXAdapter creates a new PGX adapter.
func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool}
}

// Query executes a query using the pgx pool and returns wrapped rows.
func (p *PGXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// Exec executes a statement using the pgx pool and returns wrapped result.
func (p *PGXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := p.pool.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

// Begin starts a transaction on the pgx pool.
func (p *PGXAdapter) Begin(ctx context.Context) (DBTx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &pgxTx{tx: tx}, nil
}

// pgxTx wraps pgx.Tx to implement the DBTx interface.
type pgxTx struct {
	tx pgx.Tx
}

// Exec executes a statement within the transaction.
func (p *pgxTx) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := p.tx.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

// Commit commits the transaction.
func (p *pgxTx) Commit(ctx context.Context) error {
	return p.tx.Commit(ctx)
}

// Rollback aborts the transaction. Rolling back after a commit is a no-op error
// in pgx and is safe to defer.
func (p *pgxTx) Rollback(ctx context.Context) error {
	return p.tx.Rollback(ctx)
}

// pgxRows wraps pgx.Rows to implement the DBRows interface.
type pgxRows struct {
	rows pgx.Rows
}

// Next advances to the next row.
func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

// Scan copies row values into provided destinations.
func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

// Close closes the rows iterator.
func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}

// pgxResult wraps pgconn.CommandTag to implement the DBResult interface.
type pgxResult struct {
	tag pgconn.CommandTag
}

// RowsAffected returns the number of rows affected by the command.
func (p *pgxResult) RowsAffected() (int64, error) {
	return p.tag.RowsAffected(), nil
}
