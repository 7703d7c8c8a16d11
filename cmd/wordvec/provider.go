package main

import (
	"fmt"

	"github.com/embeddb/wordvec/embedding"
	"github.com/embeddb/wordvec/internal/config"
)

// buildProvider resolves the configured embedding provider.
func buildProvider(cfg *config.Config) (embedding.Provider, error) {
	switch cfg.Embedding.Provider {
	case "local", "":
		return &embedding.Local{Dim: cfg.Dim}, nil
	case "openai":
		return embedding.NewHTTPClient(embedding.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			APIKey:     cfg.Embedding.APIKey,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Dim,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}
