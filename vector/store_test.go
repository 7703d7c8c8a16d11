package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/embeddb/wordvec/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestStore_CreateInsertCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateTable(ctx, "words", 3); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	records := []Record{
		{Text: "sun", Embedding: []float32{1, 0, 0}},
		{Text: "rocket", Embedding: []float32{0, 1, 0}},
	}
	if err := store.InsertBatch(ctx, "words", records); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}
	n, err := store.Count(ctx, "words")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}
}

func TestStore_CreateTableRejectsBadSchema(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var schemaErr *SchemaError
	if err := store.CreateTable(ctx, "words", 0); !errors.As(err, &schemaErr) {
		t.Fatalf("CreateTable(dim=0) = %v, want SchemaError", err)
	}
	if err := store.CreateTable(ctx, "words", -5); !errors.As(err, &schemaErr) {
		t.Fatalf("CreateTable(dim=-5) = %v, want SchemaError", err)
	}
	if err := store.CreateTable(ctx, "bad name; drop", 3); !errors.As(err, &schemaErr) {
		t.Fatalf("CreateTable(bad name) = %v, want SchemaError", err)
	}
	if err := store.CreateTable(ctx, "words", 3, WithIndexKind("hnsw")); !errors.As(err, &schemaErr) {
		t.Fatalf("CreateTable(unknown index kind) = %v, want SchemaError", err)
	}
}

// TestStore_InsertBatchAtomicOnMismatch verifies that a batch containing one
// mismatched vector fails as a whole: no rows become visible and query
// results are unchanged.
func TestStore_InsertBatchAtomicOnMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateTable(ctx, "words", 3); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if err := store.InsertBatch(ctx, "words", []Record{
		{Text: "sun", Embedding: []float32{1, 0, 0}},
	}); err != nil {
		t.Fatalf("first InsertBatch failed: %v", err)
	}

	bad := []Record{
		{Text: "rocket", Embedding: []float32{0, 1, 0}},
		{Text: "planet", Embedding: []float32{0.9, 0.1}}, // wrong length
	}
	var dimErr *DimensionMismatchError
	err := store.InsertBatch(ctx, "words", bad)
	if !errors.As(err, &dimErr) {
		t.Fatalf("InsertBatch with bad record = %v, want DimensionMismatchError", err)
	}
	if dimErr.Want != 3 || dimErr.Got != 2 {
		t.Fatalf("DimensionMismatchError = want %d got %d, expected want 3 got 2", dimErr.Want, dimErr.Got)
	}

	n, err := store.Count(ctx, "words")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Count after failed batch = %d, want 1", n)
	}
	matches, err := store.Engine().Nearest(ctx, "words", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Nearest after failed batch: %v", err)
	}
	if len(matches) != 1 || matches[0].Text != "sun" {
		t.Fatalf("Nearest after failed batch = %+v, want only sun", matches)
	}
}

// TestStore_CreateTableIsDestructive confirms re-creating a table replaces
// its contents and index rather than accumulating rows.
func TestStore_CreateTableIsDestructive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateTable(ctx, "words", 2); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if err := store.InsertBatch(ctx, "words", []Record{
		{Text: "sun", Embedding: []float32{1, 0}},
		{Text: "rocket", Embedding: []float32{0, 1}},
	}); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	if err := store.CreateTable(ctx, "words", 2); err != nil {
		t.Fatalf("second CreateTable failed: %v", err)
	}
	n, err := store.Count(ctx, "words")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("Count after re-create = %d, want 0", n)
	}
	matches, err := store.Engine().Nearest(ctx, "words", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Nearest after re-create: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("Nearest after re-create = %+v, want empty", matches)
	}
}

func TestStore_UnknownTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var schemaErr *SchemaError
	err := store.InsertBatch(ctx, "missing", []Record{{Text: "x", Embedding: []float32{1}}})
	if !errors.As(err, &schemaErr) {
		t.Fatalf("InsertBatch on unknown table = %v, want SchemaError", err)
	}
	if _, err := store.Count(ctx, "missing"); !errors.As(err, &schemaErr) {
		t.Fatalf("Count on unknown table = %v, want SchemaError", err)
	}
}

// TestStore_Reindex rebuilds the persisted index after the blob has been
// discarded out of band.
func TestStore_Reindex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateTable(ctx, "words", 2); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if err := store.InsertBatch(ctx, "words", []Record{
		{Text: "sun", Embedding: []float32{1, 0}},
		{Text: "rocket", Embedding: []float32{0, 1}},
	}); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	if _, err := store.db.Exec(`DELETE FROM vector_storage WHERE table_name = 'words'`); err != nil {
		t.Fatalf("clear persisted index: %v", err)
	}
	n, err := store.Reindex(ctx, "words")
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Reindex = %d rows, want 2", n)
	}

	var blob []byte
	if err := store.db.QueryRow(`SELECT "index" FROM vector_storage WHERE table_name = 'words'`).Scan(&blob); err != nil {
		t.Fatalf("read persisted index: %v", err)
	}
	if len(blob) == 0 {
		t.Fatalf("persisted index is empty after Reindex")
	}
}
