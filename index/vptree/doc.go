// Package vptree provides an approximate nearest-neighbour index backed by a
// vantage-point tree over Euclidean distance. The tree prunes candidate
// subtrees with the triangle inequality, so queries touch a subset of the
// stored vectors on favourable data. Serialized form is the raw record
// payload prefixed with a "VPT1" magic; the tree is rebuilt on load.
package vptree
