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

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Embed the word list, store it, and find the closest matches",
		Long:  "Recreates the vector table, embeds the configured word list, inserts the batch, and prints the closest matches to the word of interest.",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			runner := workflow.New(store, provider, logger)
			matches, err := runner.Run(cmd.Context(), workflow.Config{
				Table:          cfg.Table,
				Dim:            cfg.Dim,
				IndexKind:      vector.IndexKind(cfg.IndexKind),
				Words:          cfg.Words,
				WordOfInterest: cfg.WordOfInterest,
				TopK:           cfg.TopK,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), workflow.FormatMatches(cfg.WordOfInterest, matches))
			return err
		},
	}
	cmd.Flags().StringSlice("words", nil, "words to embed and store")
	cmd.Flags().String("word", "", "word of interest to search matches for")
	bindRunFlags(cmd)
	return cmd
}

func bindRunFlags(cmd *cobra.Command) {
	prev := cmd.PreRunE
	cmd.PreRunE = func(c *cobra.Command, args []string) error {
		if prev != nil {
			if err := prev(c, args); err != nil {
				return err
			}
		}
		v := viper.GetViper()
		if f := c.Flags().Lookup("words"); f != nil && f.Changed {
			if err := v.BindPFlag("words", f); err != nil {
				return err
			}
		}
		if f := c.Flags().Lookup("word"); f != nil && f.Changed {
			if err := v.BindPFlag("word_of_interest", f); err != nil {
				return err
			}
		}
		return nil
	}
}
