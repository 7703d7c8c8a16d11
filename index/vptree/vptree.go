package vptree

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/viant/vec/search"
)

// Magic identifies a serialized VP-tree index blob.
const Magic = "VPT1"

// Index is a VP-tree kNN index ranking by Euclidean (L2) distance.
type Index struct {
	texts []string
	vecs  [][]float32
	dim   int
	root  *node
}

type node struct {
	idx   int // index into texts/vecs
	thr   float64
	left  *node
	right *node
}

// Build constructs the VP-tree, replacing any previous contents.
func (i *Index) Build(texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("vptree: texts and vectors length mismatch: %d != %d", len(texts), len(vectors))
	}
	i.texts = append([]string(nil), texts...)
	i.vecs = append([][]float32(nil), vectors...)
	if len(vectors) == 0 {
		i.dim, i.root = 0, nil
		return nil
	}
	i.dim = len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != i.dim {
			return fmt.Errorf("vptree: inconsistent vector dims %d vs %d", len(vectors[j]), i.dim)
		}
	}
	idxs := make([]int, len(vectors))
	for k := range idxs {
		idxs[k] = k
	}
	i.root = i.build(idxs)
	return nil
}

func (i *Index) build(idxs []int) *node {
	if len(idxs) == 0 {
		return nil
	}
	// Last element as vantage point keeps the build deterministic.
	vp := idxs[len(idxs)-1]
	rest := idxs[:len(idxs)-1]
	if len(rest) == 0 {
		return &node{idx: vp}
	}
	dists := make([]float64, len(rest))
	for k, j := range rest {
		dists[k] = i.distance(i.vecs[vp], i.vecs[j])
	}
	order := make([]int, len(rest))
	for k := range order {
		order[k] = k
	}
	sort.Slice(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })
	mid := len(order) / 2
	thr := dists[order[mid]]
	left := make([]int, 0, mid+1)
	right := make([]int, 0, len(rest)-mid-1)
	for rank, k := range order {
		if rank <= mid {
			left = append(left, rest[k])
		} else {
			right = append(right, rest[k])
		}
	}
	return &node{idx: vp, thr: thr, left: i.build(left), right: i.build(right)}
}

func (i *Index) distance(a, b []float32) float64 {
	return float64(search.Float32s(a).EuclideanDistance(b))
}

// Query returns up to k texts ordered by ascending L2 distance to query.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("vptree: query dim %d != index dim %d", len(query), i.dim)
	}
	if k <= 0 || k > len(i.vecs) {
		k = len(i.vecs)
	}
	h := &candHeap{}
	heap.Init(h)
	i.search(i.root, query, k, h)
	outTexts := make([]string, h.Len())
	outDists := make([]float64, h.Len())
	for n := h.Len() - 1; n >= 0; n-- {
		c := heap.Pop(h).(cand)
		outTexts[n] = i.texts[c.idx]
		outDists[n] = c.dist
	}
	return outTexts, outDists, nil
}

func (i *Index) search(n *node, query []float32, k int, h *candHeap) {
	if n == nil {
		return
	}
	d := i.distance(query, i.vecs[n.idx])
	if h.Len() < k {
		heap.Push(h, cand{idx: n.idx, dist: d})
	} else if d < (*h)[0].dist {
		heap.Pop(h)
		heap.Push(h, cand{idx: n.idx, dist: d})
	}
	// Descend into the side containing the query first, then the other side
	// only when the current kth distance still straddles the threshold.
	if d < n.thr {
		i.search(n.left, query, k, h)
		if d+i.bound(h, k) >= n.thr {
			i.search(n.right, query, k, h)
		}
	} else {
		i.search(n.right, query, k, h)
		if d-i.bound(h, k) <= n.thr {
			i.search(n.left, query, k, h)
		}
	}
}

func (i *Index) bound(h *candHeap, k int) float64 {
	if h.Len() < k {
		return maxBound
	}
	return (*h)[0].dist
}

const maxBound = 1 << 62

type cand struct {
	idx  int
	dist float64
}

// candHeap is a max-heap by distance so the root is the current worst match.
type candHeap []cand

func (h candHeap) Len() int            { return len(h) }
func (h candHeap) Less(a, b int) bool  { return h[a].dist > h[b].dist }
func (h candHeap) Swap(a, b int)       { h[a], h[b] = h[b], h[a] }
func (h *candHeap) Push(x interface{}) { *h = append(*h, x.(cand)) }
func (h *candHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// MarshalBinary prefixes the record payload with Magic so loaders can tell
// VP-tree blobs apart from brute-force ones.
func (i *Index) MarshalBinary() ([]byte, error) {
	payload, err := encodeRecords(i.dim, i.texts, i.vecs)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(Magic)+len(payload))
	out = append(out, Magic...)
	return append(out, payload...), nil
}

// UnmarshalBinary restores the records and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return fmt.Errorf("vptree: missing %s magic", Magic)
	}
	texts, vecs, err := decodeRecords(data[len(Magic):])
	if err != nil {
		return err
	}
	return i.Build(texts, vecs)
}
