package engine

import (
	"encoding/binary"
	"math"
	"testing"
)

func encodeTestVec(vals []float32) []byte {
	b := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// TestDistanceFunctions exercises vec_l2 and vec_cosine through SQL.
func TestDistanceFunctions(t *testing.T) {
	if err := RegisterDistanceFunctions(); err != nil {
		t.Fatalf("RegisterDistanceFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE pairs(a BLOB, b BLOB)`); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO pairs(a, b) VALUES(?, ?)`,
		encodeTestVec([]float32{0, 0}), encodeTestVec([]float32{3, 4})); err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}

	var dist float64
	if err := db.QueryRow(`SELECT vec_l2(a, b) FROM pairs`).Scan(&dist); err != nil {
		t.Fatalf("SELECT vec_l2 failed: %v", err)
	}
	if math.Abs(dist-5) > 1e-6 {
		t.Fatalf("vec_l2((0,0),(3,4)) = %v, want 5", dist)
	}

	var sim float64
	if err := db.QueryRow(`SELECT vec_cosine(a, a) FROM pairs WHERE a = ?`,
		encodeTestVec([]float32{0, 0})).Scan(&sim); err == nil {
		t.Fatalf("vec_cosine on zero vector should fail, got %v", sim)
	}
	if err := db.QueryRow(`SELECT vec_cosine(b, b) FROM pairs`).Scan(&sim); err != nil {
		t.Fatalf("SELECT vec_cosine failed: %v", err)
	}
	if math.Abs(sim-1) > 1e-6 {
		t.Fatalf("vec_cosine(b, b) = %v, want 1", sim)
	}

	// 45 degrees -> 1/sqrt(2)
	if err := db.QueryRow(`SELECT vec_cosine(?, ?)`,
		encodeTestVec([]float32{1, 0}), encodeTestVec([]float32{1, 1})).Scan(&sim); err != nil {
		t.Fatalf("SELECT vec_cosine((1,0),(1,1)) failed: %v", err)
	}
	if math.Abs(sim-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("vec_cosine((1,0),(1,1)) = %v, want %v", sim, 1/math.Sqrt2)
	}
}

// TestDistanceFunctionsDimMismatch ensures mismatched BLOB lengths error out
// instead of producing a value.
func TestDistanceFunctionsDimMismatch(t *testing.T) {
	if err := RegisterDistanceFunctions(); err != nil {
		t.Fatalf("RegisterDistanceFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	var dist float64
	err = db.QueryRow(`SELECT vec_l2(?, ?)`,
		encodeTestVec([]float32{1, 2}), encodeTestVec([]float32{1, 2, 3})).Scan(&dist)
	if err == nil {
		t.Fatalf("vec_l2 with mismatched dims should fail, got %v", dist)
	}
}
