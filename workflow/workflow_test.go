package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddb/wordvec/embedding"
	"github.com/embeddb/wordvec/engine"
	"github.com/embeddb/wordvec/vector"
)

// stubProvider maps words to fixed axis-aligned vectors so the nearest
// neighbours are known in advance.
func stubProvider(dim int, table map[string][]float32) embedding.Provider {
	return embedding.Func(func(_ context.Context, text string) ([]float32, error) {
		v := make([]float32, dim)
		copy(v, table[text])
		return v, nil
	})
}

func TestRunner_Run(t *testing.T) {
	const dim = 8
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	store, err := vector.NewStore(db)
	require.NoError(t, err)

	provider := stubProvider(dim, map[string][]float32{
		"sun":    {1, 0},
		"rocket": {0, 1},
		"planet": {0.9, 0.1},
		"star":   {1, 0.05},
	})
	runner := New(store, provider, nil)

	matches, err := runner.Run(context.Background(), Config{
		Table:          "embeddings_table",
		Dim:            dim,
		Words:          []string{"sun", "rocket", "planet"},
		WordOfInterest: "star",
		TopK:           2,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "sun", matches[0].Text)
	assert.Equal(t, "planet", matches[1].Text)
	assert.Less(t, matches[0].Distance, matches[1].Distance)
}

// TestRunner_RunTwice checks the destructive re-create: two runs leave the
// table with exactly one generation of rows.
func TestRunner_RunTwice(t *testing.T) {
	const dim = 4
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	store, err := vector.NewStore(db)
	require.NoError(t, err)

	provider := stubProvider(dim, map[string][]float32{
		"sun": {1}, "rocket": {0, 1}, "star": {1, 0.1},
	})
	runner := New(store, provider, nil)
	cfg := Config{
		Table:          "embeddings_table",
		Dim:            dim,
		Words:          []string{"sun", "rocket"},
		WordOfInterest: "star",
		TopK:           10,
	}

	_, err = runner.Run(context.Background(), cfg)
	require.NoError(t, err)
	matches, err := runner.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, matches, 2, "re-run must not accumulate rows")

	n, err := store.Count(context.Background(), cfg.Table)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFormatMatches(t *testing.T) {
	out := FormatMatches("star", []vector.Match{
		{Text: "sun", Distance: 0.1234},
		{Text: "planet", Distance: 0.98765},
	})
	assert.Contains(t, out, `Closest matches to "star":`)
	assert.Contains(t, out, "WORD")
	assert.Contains(t, out, "DISTANCE")
	assert.Contains(t, out, "0.1234")
	assert.Contains(t, out, "0.9877")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "sun"), "closest match listed first")
}
