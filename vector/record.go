package vector

// Record is a single (text, embedding) pair stored in a vector table. Text is
// not required to be unique at the storage layer.
type Record struct {
	Text      string
	Embedding []float32
}

// Match is a single nearest-neighbour hit: the stored text and its Euclidean
// distance from the query vector.
type Match struct {
	Text     string
	Distance float64
}
