package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/embeddb/wordvec/internal/config"
)

// NewRootCmd creates the root wordvec command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wordvec",
		Short:         "wordvec: word-embedding store and similarity search",
		Long:          "wordvec embeds a list of words, stores the vectors in a SQLite table with a nearest-neighbour index, and finds the closest matches to a query word.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd)
		},
	}

	// Global flags, mapped to viper keys via initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("db", "", "path to the SQLite database file")
	root.PersistentFlags().String("table", "", "vector table name")
	root.PersistentFlags().String("index", "", "index kind: bruteforce or vptree")
	root.PersistentFlags().Int("dim", 0, "embedding dimensionality")
	root.PersistentFlags().Int("top-k", 0, "number of matches to return")

	root.AddCommand(
		newRunCmd(),
		newQueryCmd(),
		newVersionCmd(),
	)
	return root
}

// initViper sets up the global viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	bindings := map[string]string{
		"db_path":    "db",
		"table":      "table",
		"index_kind": "index",
		"dim":        "dim",
		"top_k":      "top-k",
	}
	for key, flag := range bindings {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}
