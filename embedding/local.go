package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
)

// Local is a deterministic, offline Provider. It derives a unit-length
// pseudo-embedding from the FNV-1a hash of the input text: the same text
// always maps to the same vector within a process and across runs. It
// carries no semantic signal; it exists so the workflow and CLI can run
// without a provider endpoint.
type Local struct {
	// Dim is the dimensionality of produced vectors.
	Dim int
}

// Embed implements Provider.
func (l *Local) Embed(_ context.Context, text string) ([]float32, error) {
	if l.Dim <= 0 {
		return nil, fmt.Errorf("embedding: local provider dimensionality must be positive, got %d", l.Dim)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	vec := make([]float32, l.Dim)
	var norm float64
	for i := range vec {
		v := rng.NormFloat64()
		vec[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}
