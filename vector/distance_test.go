package vector

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	// Orthogonal vectors -> similarity 0
	sim, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("CosineSimilarity(a,b) failed: %v", err)
	}
	if math.Abs(sim) > 1e-6 {
		t.Fatalf("CosineSimilarity(a,b) = %v, want 0", sim)
	}

	// Identical vectors -> similarity 1
	sim, err = CosineSimilarity(a, a)
	if err != nil {
		t.Fatalf("CosineSimilarity(a,a) failed: %v", err)
	}
	if math.Abs(sim-1) > 1e-6 {
		t.Fatalf("CosineSimilarity(a,a) = %v, want 1", sim)
	}

	// 45 degrees -> 1/sqrt(2)
	sim, err = CosineSimilarity(a, []float32{1, 1})
	if err != nil {
		t.Fatalf("CosineSimilarity(a,(1,1)) failed: %v", err)
	}
	if math.Abs(sim-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("CosineSimilarity(a,(1,1)) = %v, want %v", sim, 1/math.Sqrt2)
	}

	if _, err := CosineSimilarity(a, []float32{1, 2, 3}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
	if _, err := CosineSimilarity([]float32{0, 0}, a); err == nil {
		t.Fatalf("expected zero-magnitude error")
	}
}

func TestL2Distance(t *testing.T) {
	d, err := L2Distance([]float32{0, 0}, []float32{3, 4})
	if err != nil {
		t.Fatalf("L2Distance failed: %v", err)
	}
	if math.Abs(d-5) > 1e-6 {
		t.Fatalf("L2Distance(0,0)-(3,4) = %v, want 5", d)
	}

	if _, err := L2Distance([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
