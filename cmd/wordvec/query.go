package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/embeddb/wordvec/engine"
	"github.com/embeddb/wordvec/internal/config"
	"github.com/embeddb/wordvec/vector"
	"github.com/embeddb/wordvec/workflow"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <word>",
		Short: "Find the closest stored matches to a word",
		Long:  "Embeds the given word and prints its nearest matches from an already-populated vector table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := engine.RegisterDistanceFunctions(); err != nil {
				return err
			}
			db, err := engine.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database %q: %w", cfg.DBPath, err)
			}
			defer db.Close()

			store, err := vector.NewStore(db)
			if err != nil {
				return err
			}
			provider, err := buildProvider(cfg)
			if err != nil {
				return err
			}

			word := args[0]
			runner := workflow.New(store, provider, logger)
			matches, err := runner.Query(cmd.Context(), cfg.Table, word, cfg.TopK)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), workflow.FormatMatches(word, matches))
			return err
		},
	}
}
