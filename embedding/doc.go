// Package embedding defines the boundary to the external embedding provider.
// The storage core treats providers as opaque: any implementation returning
// float32 vectors works. Included here are an OpenAI-compatible HTTP client
// and a deterministic local provider for offline runs, plus the batch stage
// that turns words into insertable records while validating provider output.
package embedding
