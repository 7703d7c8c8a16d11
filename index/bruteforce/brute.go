package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"
)

// Index is a brute-force vector index ranking by Euclidean (L2) distance.
type Index struct {
	texts []string
	vecs  [][]float32
	dim   int
}

// Build loads texts and vectors, replacing any previous contents.
func (i *Index) Build(texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("bruteforce: texts and vectors length mismatch: %d != %d", len(texts), len(vectors))
	}
	if len(texts) == 0 {
		i.texts, i.vecs, i.dim = nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d", len(vectors[j]), dim)
		}
	}
	i.texts = append([]string(nil), texts...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	return nil
}

// Query returns up to k texts ordered by ascending L2 distance to query.
// Equal distances keep insertion order (stable sort).
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	q := search.Float32s(query)
	type scored struct {
		idx  int
		dist float64
	}
	scoreds := make([]scored, len(i.vecs))
	for j := range i.vecs {
		scoreds[j] = scored{idx: j, dist: float64(q.EuclideanDistance(i.vecs[j]))}
	}
	sort.SliceStable(scoreds, func(a, b int) bool { return scoreds[a].dist < scoreds[b].dist })
	if k <= 0 || k > len(scoreds) {
		k = len(scoreds)
	}
	outTexts := make([]string, k)
	outDists := make([]float64, k)
	for n := 0; n < k; n++ {
		outTexts[n] = i.texts[scoreds[n].idx]
		outDists[n] = scoreds[n].dist
	}
	return outTexts, outDists, nil
}

// MarshalBinary stores: dim(uint32), n(uint32), then for each item:
// textLen(uint32), text bytes, vec(float32[dim]).
func (i *Index) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, 8)
	out = binary.LittleEndian.AppendUint32(out, uint32(i.dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(i.texts)))
	for idx, text := range i.texts {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(text)))
		out = append(out, text...)
		for _, v := range i.vecs[idx] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes produced by MarshalBinary.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("bruteforce: invalid data")
	}
	off := 0
	getU32 := func() uint32 {
		v := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		return v
	}
	dim := int(getU32())
	n := int(getU32())
	texts := make([]string, n)
	vecs := make([][]float32, n)
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return errors.New("bruteforce: truncated")
		}
		textLen := int(getU32())
		if off+textLen > len(data) {
			return errors.New("bruteforce: truncated text")
		}
		texts[idx] = string(data[off : off+textLen])
		off += textLen
		if off+4*dim > len(data) {
			return errors.New("bruteforce: truncated vec")
		}
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(getU32())
		}
		vecs[idx] = vec
	}
	return i.Build(texts, vecs)
}
