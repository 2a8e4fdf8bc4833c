// Package engine implements the SQL storage engine for the circulation
// system. Statements are built with goqu and executed through a database
// adapter (pgxpool, sql.DB or sqlx.DB). Every state-changing write is a
// guarded compare-and-swap: the statement carries its expectation in the
// WHERE clause and an affected-row count short of the expectation surfaces
// store.ErrConcurrencyConflict without mutating anything.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/libreshelf/circulation-go/store"
	"github.com/libreshelf/circulation-go/store/engine/internal/adapters"
)

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite3"

	tablePublishers   = "publishers"
	tableAuthors      = "authors"
	tableBooks        = "books"
	tableBookAuthors  = "book_authors"
	tableCopies       = "book_copies"
	tableMembers      = "members"
	tableStaff        = "staff"
	tableLoans        = "loans"
	tableReservations = "reservations"
	tableFines        = "fines"
	tableAuditLog     = "audit_log"

	logMsgBuildQueryFailed    = "failed to build sql statement"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database execution failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgTxBeginFailed       = "failed to begin transaction"
	logMsgTxCommitFailed      = "failed to commit transaction"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "store operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrDurationMS         = "duration_ms"
	logAttrRowsAffected       = "rows_affected"

	metricWriteDuration       = "store_write_duration"
	metricConcurrencyConflict = "store_concurrency_conflicts"
)

var (
	// ErrBuildingQueryFailed is returned when goqu cannot render a statement.
	ErrBuildingQueryFailed = errors.New("failed to build sql statement")

	// ErrQueryFailed is returned when a read statement fails to execute.
	ErrQueryFailed = errors.New("failed to execute query")

	// ErrExecFailed is returned when a write statement fails to execute.
	ErrExecFailed = errors.New("failed to execute statement")
)

// Store is the SQL-backed implementation of every storage interface the
// feature packages define. It is safe for concurrent use; all concurrency
// control happens per statement in the database.
type Store struct {
	db      adapters.DBAdapter
	dialect string
	logger  store.Logger
	metrics store.MetricsCollector
}

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithLogger sets the logger for the Store. A nil logger is valid and silent.
func WithLogger(logger store.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
func WithMetrics(collector store.MetricsCollector) Option {
	return func(s *Store) error {
		s.metrics = collector
		return nil
	}
}

// WithDialect sets the SQL dialect used to build statements. Supported:
// "postgres" (default) and "sqlite3".
func WithDialect(dialect string) Option {
	return func(s *Store) error {
		if dialect != dialectPostgres && dialect != dialectSQLite {
			return store.ErrUnknownDialect
		}

		s.dialect = dialect

		return nil
	}
}

// NewFromPGXPool creates a new Store using a pgx pool with optional configuration.
func NewFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (*Store, error) {
	s := &Store{
		db:      db,
		dialect: dialectPostgres,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// builder returns the goqu dialect wrapper for statement building.
func (s *Store) builder() goqu.DialectWrapper {
	return goqu.Dialect(s.dialect)
}

// executor abstracts the adapter and an open transaction for write helpers.
type executor interface {
	Exec(ctx context.Context, query string) (adapters.DBResult, error)
}

// exec runs a statement and returns the affected row count.
func (s *Store) exec(ctx context.Context, ex executor, sqlQuery string) (int64, error) {
	start := time.Now()
	result, execErr := ex.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, duration)
	s.recordDuration(metricWriteDuration, duration)

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(ErrExecFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		s.logError(logMsgRowsAffectedFailed, rowsErr)
		return 0, errors.Join(ErrExecFailed, rowsErr)
	}

	return rowsAffected, nil
}

// execExpectingOne runs a guarded statement and converts a zero affected-row
// count into store.ErrConcurrencyConflict.
func (s *Store) execExpectingOne(ctx context.Context, ex executor, sqlQuery string) error {
	rowsAffected, err := s.exec(ctx, ex, sqlQuery)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		s.logOperation(logMsgConcurrencyConflict, logAttrQuery, sqlQuery, logAttrRowsAffected, rowsAffected)
		s.incrementCounter(metricConcurrencyConflict)

		return store.ErrConcurrencyConflict
	}

	return nil
}

// query runs a read statement and returns the rows.
func (s *Store) query(ctx context.Context, sqlQuery string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, duration)

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(ErrQueryFailed, queryErr)
	}

	return rows, nil
}

// closeRows safely closes database rows and logs any errors.
func (s *Store) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// inTransaction runs fn inside a transaction, rolling back on any error.
func (s *Store) inTransaction(ctx context.Context, fn func(tx executor) error) error {
	tx, beginErr := s.db.Begin(ctx)
	if beginErr != nil {
		s.logError(logMsgTxBeginFailed, beginErr)
		return errors.Join(ErrExecFailed, beginErr)
	}

	if fnErr := fn(tx); fnErr != nil {
		_ = tx.Rollback(ctx)
		return fnErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		_ = tx.Rollback(ctx)
		s.logError(logMsgTxCommitFailed, commitErr)

		return errors.Join(ErrExecFailed, commitErr)
	}

	return nil
}

func (s *Store) buildSQL(stmt interface{ ToSQL() (string, []interface{}, error) }) (string, error) {
	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildQueryFailed, toSQLErr)
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s *Store) logQueryWithDuration(sqlQuery string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted, logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level.
func (s *Store) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level.
func (s *Store) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}

func (s *Store) recordDuration(metric string, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordDuration(metric, duration, nil)
	}
}

func (s *Store) incrementCounter(metric string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(metric, nil)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s *Store) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
