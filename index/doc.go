// Package index defines the abstraction for nearest-neighbour indexes that
// can be built from (text, vector) pairs, queried for kNN by Euclidean
// distance, and serialized for persistence. Implementations in this module
// are an exact brute-force scan and an approximate VP-tree.
package index
