// Package adapters provides database adapter implementations for the SQL
// storage engine.
//
// This package implements the adapter pattern to support multiple database
// libraries: pgxpool.Pool, sql.DB, and sqlx.DB. All adapters provide
// equivalent functionality through a common DBAdapter interface, including
// transactions, allowing the engine to work seamlessly with any supported
// connection type.
package adapters
