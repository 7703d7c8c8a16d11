// Package vector implements the durable word-embedding store and its
// similarity-search engine on SQLite. It includes:
//   - Record/Match models and the typed error taxonomy
//   - embedding BLOB encoding and distance helpers
//   - Store: table lifecycle, transactional batch insertion, synchronous
//     index maintenance persisted in the vector_storage table
//   - QueryEngine: top-K nearest queries by Euclidean distance
package vector
