// Package config loads wordvec configuration through viper with the usual
// precedence: flags bound by the CLI override WORDVEC_* environment
// variables, which override an optional config file, which overrides the
// built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	DBPath         string          `mapstructure:"db_path"`
	Table          string          `mapstructure:"table"`
	Dim            int             `mapstructure:"dim"`
	IndexKind      string          `mapstructure:"index_kind"`
	Words          []string        `mapstructure:"words"`
	WordOfInterest string          `mapstructure:"word_of_interest"`
	TopK           int             `mapstructure:"top_k"`
	Embedding      EmbeddingConfig `mapstructure:"embedding"`
	Log            LogConfig       `mapstructure:"log"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "local" (deterministic offline vectors) or "openai"
	// (any OpenAI-compatible endpoint).
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults installs the built-in defaults, mirroring the original demo
// parameters: a 384-dimensional table of astronomy-adjacent words queried
// for the closest matches to "star".
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "astronomy.db")
	v.SetDefault("table", "embeddings_table")
	v.SetDefault("dim", 384)
	v.SetDefault("index_kind", "bruteforce")
	v.SetDefault("words", []string{"sun", "rocket", "planet", "light", "happiness"})
	v.SetDefault("word_of_interest", "star")
	v.SetDefault("top_k", 3)
	v.SetDefault("embedding.provider", "local")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.model", "all-MiniLM-L6-v2")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// SetupEnv binds WORDVEC_* environment variables, with dots mapped to
// underscores (e.g. WORDVEC_EMBEDDING_BASE_URL).
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("WORDVEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals and validates the effective configuration.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Embedding.Provider == "openai" && cfg.Embedding.BaseURL == "" {
		return nil, fmt.Errorf("config: embedding.base_url is required for the openai provider")
	}
	return &cfg, nil
}
