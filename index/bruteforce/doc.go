// Package bruteforce provides a vector index that answers kNN queries by
// scanning all vectors and ranking by Euclidean distance. It is exact by
// construction and supports a compact binary format for persistence in the
// vector_storage table.
package bruteforce
