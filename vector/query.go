package vector

import (
	"context"
	"database/sql"
	"fmt"

	idxapi "github.com/embeddb/wordvec/index"
)

// QueryEngine answers top-K nearest queries against vector tables. It is
// read-only: it never modifies table rows or the persisted index. Engines
// created with NewQueryEngine resolve indexes from the vector_storage blob
// written by the Store; engines obtained via Store.Engine additionally share
// the store's in-process cache.
type QueryEngine struct {
	db    *sql.DB
	cache *indexCache
}

// NewQueryEngine creates a QueryEngine on the provided database.
func NewQueryEngine(db *sql.DB) (*QueryEngine, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureCatalog(db); err != nil {
		return nil, err
	}
	return &QueryEngine{db: db, cache: newIndexCache()}, nil
}

// Nearest returns up to k stored entries ordered by ascending Euclidean
// distance from query. k is a ceiling: a table with fewer rows yields all of
// them. A query against an empty table returns an empty result, not an
// error. A query vector whose length differs from the table's dimensionality
// fails with a DimensionMismatchError.
func (e *QueryEngine) Nearest(ctx context.Context, name string, query []float32, k int) ([]Match, error) {
	if !validTableName(name) {
		return nil, &SchemaError{Table: name, Reason: "invalid table name"}
	}
	dim, kind, generation, err := tableInfo(ctx, e.db, name)
	if err != nil {
		return nil, err
	}
	if len(query) != dim {
		return nil, &DimensionMismatchError{Table: name, Want: dim, Got: len(query)}
	}
	if k <= 0 {
		return nil, nil
	}
	idx, err := e.index(ctx, name, kind, generation)
	if err != nil {
		return nil, err
	}
	texts, dists, err := idx.Query(query, k)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, len(texts))
	for i := range texts {
		matches[i] = Match{Text: texts[i], Distance: dists[i]}
	}
	return matches, nil
}

// index resolves the table's index for the given catalog generation: cache
// first, then the persisted blob, then a read-only rebuild from the rows.
// Only one goroutine builds per table; others wait and re-check.
func (e *QueryEngine) index(ctx context.Context, name string, kind IndexKind, generation int64) (idxapi.Index, error) {
	entry := e.cache.entry(name)
	for {
		if idx := entry.get(generation); idx != nil {
			return idx, nil
		}
		if entry.startBuild() {
			break
		}
		entry.waitForBuild()
	}
	defer entry.finishBuild()

	if idx := entry.get(generation); idx != nil {
		return idx, nil
	}
	idx, ok, err := e.loadPersisted(ctx, name, kind)
	if err != nil {
		return nil, err
	}
	if !ok {
		// No usable blob; fall back to building from the rows without
		// persisting, keeping this path read-only.
		if idx, err = rebuildIndex(ctx, e.db, name, kind); err != nil {
			return nil, err
		}
	}
	entry.set(generation, idx)
	return idx, nil
}

// loadPersisted decodes the vector_storage blob for a table. A missing row,
// empty blob, or undecodable blob reports ok=false rather than failing, so
// callers can rebuild from the rows.
func (e *QueryEngine) loadPersisted(ctx context.Context, name string, kind IndexKind) (idxapi.Index, bool, error) {
	var blob []byte
	err := e.db.QueryRowContext(ctx, `SELECT "index" FROM vector_storage WHERE table_name = ?`, name).Scan(&blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, storageErr("load index", err)
	}
	if len(blob) == 0 {
		return nil, false, nil
	}
	idx, err := newIndex(name, kind)
	if err != nil {
		return nil, false, err
	}
	if err := idx.UnmarshalBinary(blob); err != nil {
		return nil, false, nil
	}
	return idx, true, nil
}
