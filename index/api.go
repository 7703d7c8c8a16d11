package index

// Index is a nearest-neighbour index over (text, vector) pairs.
type Index interface {
	// Build replaces the index contents with the given texts and vectors.
	// texts and vectors must have the same length; all vectors must share
	// one dimensionality.
	Build(texts []string, vectors [][]float32) error

	// Query runs a kNN search with the provided query vector and returns up
	// to k matches as parallel slices of texts and Euclidean distances,
	// ordered ascending by distance. When k <= 0 or k exceeds the number of
	// indexed vectors, all matches are returned.
	Query(query []float32, k int) (texts []string, distances []float64, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}
