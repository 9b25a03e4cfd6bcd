// ABOUTME: Row-to-record coercion for the tags table
// ABOUTME: Validates column presence at the store boundary

package catalog

import (
	"database/sql"
	"fmt"

	"github.com/pictag/pictag/internal/store"
)

// recordFromRow maps one tabular row into a Record. Every expected column
// must be present; NULL tags, remark and updated become empty strings.
func recordFromRow(t *store.Table, row []any) (Record, error) {
	idx := t.ColumnIndex()
	for _, col := range []string{"id", "path", "tags", "remark", "updated"} {
		if _, ok := idx[col]; !ok {
			return Record{}, fmt.Errorf("tags table is missing column %q", col)
		}
	}

	id, err := columnString(row[idx["id"]], "id")
	if err != nil {
		return Record{}, err
	}
	path, err := columnString(row[idx["path"]], "path")
	if err != nil {
		return Record{}, err
	}

	return Record{
		ID:      id,
		Path:    path,
		Tags:    optionalString(row[idx["tags"]]),
		Remark:  optionalString(row[idx["remark"]]),
		Updated: optionalString(row[idx["updated"]]),
	}, nil
}

// columnString coerces a NOT NULL text column value.
func columnString(v any, col string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("column %q holds %T, want string", col, v)
	}
	return s, nil
}

// optionalString coerces a nullable text column value; NULL becomes "".
func optionalString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// namedArgs converts a field map into sql.Named query arguments.
func namedArgs(fields map[string]string) []any {
	args := make([]any, 0, len(fields))
	for name, value := range fields {
		args = append(args, sql.Named(name, value))
	}
	return args
}
