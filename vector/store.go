package vector

import (
	"context"
	"database/sql"
	"fmt"

	idxapi "github.com/embeddb/wordvec/index"
	"github.com/embeddb/wordvec/index/bruteforce"
	"github.com/embeddb/wordvec/index/vptree"
)

// IndexKind selects the index implementation for a table.
type IndexKind string

const (
	// IndexBruteForce is an exact scan; the default. At the table sizes this
	// module targets it satisfies the approximate-index contract with full
	// recall.
	IndexBruteForce IndexKind = "bruteforce"
	// IndexVPTree is an approximate vantage-point tree.
	IndexVPTree IndexKind = "vptree"
)

func newIndex(table string, kind IndexKind) (idxapi.Index, error) {
	switch kind {
	case IndexBruteForce, "":
		return &bruteforce.Index{}, nil
	case IndexVPTree:
		return &vptree.Index{}, nil
	default:
		return nil, &SchemaError{Table: table, Reason: fmt.Sprintf("unknown index kind %q", kind)}
	}
}

// Store owns vector tables: schema lifecycle, batched insertion, and index
// maintenance. Writes are durable before any query engine runs; the index
// blob persisted in vector_storage reflects all committed rows by the time
// each call returns.
type Store struct {
	db    *sql.DB
	cache *indexCache
}

// NewStore creates a Store on the provided database and ensures the shared
// catalog schema exists.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureCatalog(db); err != nil {
		return nil, err
	}
	return &Store{db: db, cache: newIndexCache()}, nil
}

// Engine returns a QueryEngine sharing this store's connection and index
// cache, so queries observe inserts from this process without a reload.
func (s *Store) Engine() *QueryEngine {
	return &QueryEngine{db: s.db, cache: s.cache}
}

// CreateOption configures CreateTable.
type CreateOption func(*createOptions)

type createOptions struct {
	kind IndexKind
}

// WithIndexKind selects the index implementation built over the table's
// vector column. The default is IndexBruteForce.
func WithIndexKind(kind IndexKind) CreateOption {
	return func(o *createOptions) { o.kind = kind }
}

// CreateTable creates (or destructively replaces) a vector table of the given
// fixed dimensionality and registers it in the catalog together with an empty
// persisted index. Replacing an existing table discards its rows and index
// unconditionally. A non-positive dim or an invalid name fails with a
// SchemaError.
func (s *Store) CreateTable(ctx context.Context, name string, dim int, opts ...CreateOption) error {
	if !validTableName(name) {
		return &SchemaError{Table: name, Reason: "invalid table name"}
	}
	if dim <= 0 {
		return &SchemaError{Table: name, Reason: fmt.Sprintf("non-positive dimensionality %d", dim)}
	}
	options := createOptions{kind: IndexBruteForce}
	for _, opt := range opts {
		opt(&options)
	}
	idx, err := newIndex(name, options.kind)
	if err != nil {
		return err
	}
	if err := idx.Build(nil, nil); err != nil {
		return err
	}
	blob, err := idx.MarshalBinary()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin create", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+name); err != nil {
		return storageErr("drop table", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+name+` (text TEXT NOT NULL, embedding BLOB NOT NULL)`); err != nil {
		return storageErr("create table", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO vector_tables(table_name, dim, index_kind, generation) VALUES(?, ?, ?, 1)
ON CONFLICT(table_name) DO UPDATE SET
  dim = excluded.dim,
  index_kind = excluded.index_kind,
  generation = vector_tables.generation + 1`, name, dim, string(options.kind)); err != nil {
		return storageErr("register table", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO vector_storage(table_name, "index") VALUES(?, ?)`, name, blob); err != nil {
		return storageErr("persist index", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit create", err)
	}
	s.cache.invalidate(name)
	return nil
}

// InsertBatch appends records to the table inside one transaction. Any record
// whose vector length differs from the table's dimensionality fails the
// whole batch with a DimensionMismatchError and no rows become visible. The
// rebuilt index blob is written in the same transaction, so on return the
// persisted index reflects every inserted record.
func (s *Store) InsertBatch(ctx context.Context, name string, records []Record) error {
	if !validTableName(name) {
		return &SchemaError{Table: name, Reason: "invalid table name"}
	}
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin insert", err)
	}
	defer func() { _ = tx.Rollback() }()

	dim, kind, generation, err := tableInfo(ctx, tx, name)
	if err != nil {
		return err
	}
	for _, r := range records {
		if len(r.Embedding) != dim {
			return &DimensionMismatchError{Table: name, Want: dim, Got: len(r.Embedding)}
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+name+`(text, embedding) VALUES(?, ?)`)
	if err != nil {
		return storageErr("prepare insert", err)
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Text, EncodeEmbedding(r.Embedding)); err != nil {
			return storageErr("insert record", err)
		}
	}

	idx, err := rebuildIndex(ctx, tx, name, kind)
	if err != nil {
		return err
	}
	blob, err := idx.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO vector_storage(table_name, "index") VALUES(?, ?)`, name, blob); err != nil {
		return storageErr("persist index", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE vector_tables SET generation = generation + 1 WHERE table_name = ?`, name); err != nil {
		return storageErr("bump generation", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit insert", err)
	}
	s.cache.set(name, generation+1, idx)
	return nil
}

// Reindex rebuilds and persists the table's index from its current rows
// inside a BEGIN IMMEDIATE transaction, and returns the number of indexed
// rows. Useful after external modifications to the table file.
func (s *Store) Reindex(ctx context.Context, name string) (int, error) {
	if !validTableName(name) {
		return 0, &SchemaError{Table: name, Reason: "invalid table name"}
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, storageErr("acquire connection", err)
	}
	defer conn.Close()

	// BEGIN IMMEDIATE takes the write reservation up front and cooperates
	// with busy_timeout.
	if _, err := conn.ExecContext(ctx, `BEGIN IMMEDIATE`); err != nil {
		return 0, storageErr("begin reindex", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), `ROLLBACK`)
		}
	}()

	_, kind, generation, err := tableInfo(ctx, conn, name)
	if err != nil {
		return 0, err
	}
	idx, err := rebuildIndex(ctx, conn, name, kind)
	if err != nil {
		return 0, err
	}
	blob, err := idx.MarshalBinary()
	if err != nil {
		return 0, err
	}
	if _, err := conn.ExecContext(ctx, `INSERT OR REPLACE INTO vector_storage(table_name, "index") VALUES(?, ?)`, name, blob); err != nil {
		return 0, storageErr("persist index", err)
	}
	if _, err := conn.ExecContext(ctx, `UPDATE vector_tables SET generation = generation + 1 WHERE table_name = ?`, name); err != nil {
		return 0, storageErr("bump generation", err)
	}
	if _, err := conn.ExecContext(ctx, `COMMIT`); err != nil {
		return 0, storageErr("commit reindex", err)
	}
	committed = true
	s.cache.set(name, generation+1, idx)

	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+name).Scan(&n); err != nil {
		return 0, storageErr("count rows", err)
	}
	return n, nil
}

// Count returns the number of rows in a vector table.
func (s *Store) Count(ctx context.Context, name string) (int, error) {
	if !validTableName(name) {
		return 0, &SchemaError{Table: name, Reason: "invalid table name"}
	}
	if _, _, _, err := tableInfo(ctx, s.db, name); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+name).Scan(&n); err != nil {
		return 0, storageErr("count rows", err)
	}
	return n, nil
}

type rowQuerier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// loadRows reads all (text, embedding) rows in insertion order.
func loadRows(ctx context.Context, q rowQuerier, name string) ([]string, [][]float32, error) {
	rows, err := q.QueryContext(ctx, `SELECT text, embedding FROM `+name+` ORDER BY rowid`)
	if err != nil {
		return nil, nil, storageErr("load rows", err)
	}
	defer rows.Close()
	var texts []string
	var vecs [][]float32
	for rows.Next() {
		var text string
		var blob []byte
		if err := rows.Scan(&text, &blob); err != nil {
			return nil, nil, storageErr("scan row", err)
		}
		vec, err := DecodeEmbedding(blob)
		if err != nil {
			return nil, nil, err
		}
		texts = append(texts, text)
		vecs = append(vecs, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, storageErr("iterate rows", err)
	}
	return texts, vecs, nil
}

func rebuildIndex(ctx context.Context, q rowQuerier, name string, kind IndexKind) (idxapi.Index, error) {
	texts, vecs, err := loadRows(ctx, q, name)
	if err != nil {
		return nil, err
	}
	idx, err := newIndex(name, kind)
	if err != nil {
		return nil, err
	}
	if err := idx.Build(texts, vecs); err != nil {
		return nil, err
	}
	return idx, nil
}
