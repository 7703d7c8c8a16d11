package embedding

import (
	"context"
	"fmt"

	"github.com/embeddb/wordvec/vector"
)

// Provider converts free-form text into an embedding vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Func adapts a plain function to the Provider interface.
type Func func(ctx context.Context, text string) ([]float32, error)

// Embed implements Provider.
func (f Func) Embed(ctx context.Context, text string) ([]float32, error) { return f(ctx, text) }

// EmbedWords is the pure transformation stage of the workflow: it embeds each
// word with the provider and validates that every returned vector has the
// expected dimensionality before it reaches the store.
func EmbedWords(ctx context.Context, p Provider, dim int, words []string) ([]vector.Record, error) {
	if p == nil {
		return nil, fmt.Errorf("embedding: provider is nil")
	}
	records := make([]vector.Record, 0, len(words))
	for _, word := range words {
		emb, err := p.Embed(ctx, word)
		if err != nil {
			return nil, fmt.Errorf("embedding: embed %q: %w", word, err)
		}
		if len(emb) != dim {
			return nil, fmt.Errorf("embedding: provider returned %d values for %q, want %d", len(emb), word, dim)
		}
		records = append(records, vector.Record{Text: word, Embedding: emb})
	}
	return records, nil
}
