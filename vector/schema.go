package vector

import (
	"context"
	"database/sql"
	"regexp"
)

// vector_tables is the catalog: one row per vector table recording the fixed
// dimensionality, the chosen index kind, and a generation counter bumped on
// every committed write so cached indexes can be told apart from stale ones.
const catalogSchema = `
CREATE TABLE IF NOT EXISTS vector_tables (
    table_name TEXT PRIMARY KEY,
    dim        INTEGER NOT NULL,
    index_kind TEXT NOT NULL,
    generation INTEGER NOT NULL DEFAULT 1
);
`

// vector_storage persists the serialized index blob per table.
const storageSchema = `
CREATE TABLE IF NOT EXISTS vector_storage (
    table_name TEXT PRIMARY KEY,
    "index"    BLOB
);
`

// EnsureCatalog creates the shared catalog and index-storage tables in the
// provided database if they do not already exist.
func EnsureCatalog(db *sql.DB) error {
	if _, err := db.Exec(catalogSchema); err != nil {
		return storageErr("create catalog", err)
	}
	if _, err := db.Exec(storageSchema); err != nil {
		return storageErr("create index storage", err)
	}
	return nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validTableName rejects names that cannot be safely interpolated into DDL.
func validTableName(name string) bool { return identRe.MatchString(name) }

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// tableInfo resolves a table's catalog row. An unknown table surfaces as a
// SchemaError.
func tableInfo(ctx context.Context, q querier, name string) (dim int, kind IndexKind, generation int64, err error) {
	var kindStr string
	row := q.QueryRowContext(ctx, `SELECT dim, index_kind, generation FROM vector_tables WHERE table_name = ?`, name)
	if scanErr := row.Scan(&dim, &kindStr, &generation); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return 0, "", 0, &SchemaError{Table: name, Reason: "unknown table"}
		}
		return 0, "", 0, storageErr("read catalog", scanErr)
	}
	return dim, IndexKind(kindStr), generation, nil
}
