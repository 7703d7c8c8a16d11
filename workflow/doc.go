// Package workflow sequences the embedding demo end to end: create the
// vector table, embed a word list, insert the batch, embed the word of
// interest, and report its closest matches. It is a plain caller of the
// vector and embedding packages; retries and scheduling, if wanted, belong
// to whoever invokes it.
package workflow
