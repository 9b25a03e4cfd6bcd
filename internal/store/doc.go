// Package store is a thin wrapper over a single-file SQLite database.
//
// It exposes one operation, Query, which opens a fresh connection, runs the
// statement inside an implicit transaction and commits on success. Read
// statements return a Table (ordered columns, rows in result order); write
// statements return the affected-row count. Failures propagate to the caller
// and are never retried.
package store
