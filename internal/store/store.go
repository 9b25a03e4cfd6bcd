// ABOUTME: SQLite-backed persistent store using modernc.org/sqlite
// ABOUTME: Executes parameterized statements with a fresh connection per call

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DB is a single-file SQLite database. Each Query opens and closes its own
// connection; nothing is pooled or shared between calls. That matches the
// single-user, one-operation-at-a-time model this application runs under.
type DB struct {
	path   string
	logger *slog.Logger
}

// Table is the tabular result of a statement that produced columns.
// Columns preserve statement order; Rows preserve result order.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Result is the outcome of a single statement: a Table for reads,
// an affected-row count for writes. Exactly one of the two is meaningful;
// Table is nil for write statements.
type Result struct {
	Table    *Table
	Affected int64
}

// Open prepares a database handle for the given file path, creating the
// containing directory if needed. The file itself is created lazily on
// the first query.
func Open(path string) (*DB, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	logger.Debug("database ready", "path", path)
	return &DB{path: path, logger: logger}, nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// Query executes one SQL statement inside an implicit transaction that is
// committed on success. Statements that produce column metadata return a
// populated Table; all others return the number of affected rows.
// Parameters may be positional or sql.Named values.
// Errors propagate to the caller unretried.
func (d *DB) Query(ctx context.Context, query string, args ...any) (Result, error) {
	db, err := sql.Open("sqlite", d.path)
	if err != nil {
		return Result{}, fmt.Errorf("opening database %s: %w", d.path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("beginning transaction: %w", err)
	}

	var result Result
	if returnsRows(query) {
		result.Table, err = queryTable(ctx, tx, query, args)
	} else {
		result.Affected, err = execCount(ctx, tx, query, args)
	}
	if err != nil {
		tx.Rollback()
		return Result{}, err
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("committing transaction: %w", err)
	}
	return result, nil
}

// returnsRows reports whether the statement produces column metadata,
// judged by its leading keyword.
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "VALUES", "PRAGMA", "EXPLAIN":
		return true
	}
	return false
}

func queryTable(ctx context.Context, tx *sql.Tx, query string, args []any) (*Table, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	table := &Table{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		for i, v := range values {
			// TEXT columns may scan as []byte depending on the driver path.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return table, nil
}

func execCount(ctx context.Context, tx *sql.Tx, query string, args []any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("executing statement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected, nil
}

// ColumnIndex maps a Table's column names to their positions. Callers use it
// to validate column presence before coercing rows into typed records.
func (t *Table) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		idx[name] = i
	}
	return idx
}
