package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/embeddb/wordvec/embedding"
	"github.com/embeddb/wordvec/vector"
)

// Config carries the parameters of one workflow run.
type Config struct {
	Table          string
	Dim            int
	IndexKind      vector.IndexKind
	Words          []string
	WordOfInterest string
	TopK           int
}

// Runner wires the store, query engine, and embedding provider together.
type Runner struct {
	store    *vector.Store
	engine   *vector.QueryEngine
	provider embedding.Provider
	logger   *zap.Logger
}

// New creates a Runner. A nil logger disables logging.
func New(store *vector.Store, provider embedding.Provider, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		store:    store,
		engine:   store.Engine(),
		provider: provider,
		logger:   logger,
	}
}

// Run executes the full sequence and returns the matches for the word of
// interest. The table is recreated on every run, so repeated runs never
// accumulate rows from prior generations.
func (r *Runner) Run(ctx context.Context, cfg Config) ([]vector.Match, error) {
	r.logger.Info("creating vector table",
		zap.String("table", cfg.Table),
		zap.Int("dim", cfg.Dim),
		zap.String("index", string(cfg.IndexKind)))
	if err := r.store.CreateTable(ctx, cfg.Table, cfg.Dim, vector.WithIndexKind(cfg.IndexKind)); err != nil {
		return nil, err
	}

	r.logger.Info("embedding words", zap.Int("count", len(cfg.Words)))
	records, err := embedding.EmbedWords(ctx, r.provider, cfg.Dim, cfg.Words)
	if err != nil {
		return nil, err
	}

	r.logger.Info("inserting batch", zap.Int("records", len(records)))
	if err := r.store.InsertBatch(ctx, cfg.Table, records); err != nil {
		return nil, err
	}

	matches, err := r.Query(ctx, cfg.Table, cfg.WordOfInterest, cfg.TopK)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		r.logger.Info("match", zap.String("word", m.Text), zap.Float64("distance", m.Distance))
	}
	return matches, nil
}

// Query runs only the query stage against an already-populated table: embed
// the word and return its top-k nearest stored entries.
func (r *Runner) Query(ctx context.Context, table, word string, k int) ([]vector.Match, error) {
	r.logger.Info("embedding query word", zap.String("word", word))
	q, err := r.provider.Embed(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("workflow: embed %q: %w", word, err)
	}
	r.logger.Info("searching nearest", zap.String("table", table), zap.Int("k", k))
	return r.engine.Nearest(ctx, table, q, k)
}
