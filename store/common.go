// Package store defines the contracts shared by the storage engine and its
// consumers: the concurrency sentinel error and the dependency-free
// observability interfaces.
package store

import (
	"errors"
)

// ErrConcurrencyConflict is returned when a guarded write affected no rows,
// meaning another caller changed the record between read and write. It is
// the only error that is safe to retry.
var ErrConcurrencyConflict = errors.New("concurrency conflict, no rows were affected")

// ErrNilDatabaseConnection is returned by the engine constructors when the
// supplied connection is nil.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

// ErrUnknownDialect is returned when an unsupported SQL dialect is configured.
var ErrUnknownDialect = errors.New("unknown sql dialect")

// IsConcurrencyConflict reports whether err is a lost guarded write.
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
