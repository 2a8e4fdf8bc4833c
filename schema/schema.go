// Package schema carries the embedded DDL for the circulation database.
package schema

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var ddl string

// Statements returns the schema DDL split into individual statements, in
// order. All statements are idempotent (IF NOT EXISTS).
func Statements() []string {
	parts := strings.Split(ddl, ";")
	statements := make([]string, 0, len(parts))

	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}

	return statements
}
