// Package main implements the scholar command: the study-planner API server
// and its schema migration tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the scholar command tree. Running the root command
// without a subcommand serves the API.
func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "scholar",
		Short:         "Study planner API with spaced-repetition reviews and gamification",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"path to a YAML config file (default ./config.yaml when present)")

	root.AddCommand(newServeCommand(&configFile))
	root.AddCommand(newMigrateCommand(&configFile))
	root.AddCommand(newHashPasswordCommand())
	return root
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configFile)
		},
	}
}

func newMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate {up|down|status|version}",
		Short:     "Apply or inspect database schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger(*configFile)
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					log.Error("failed to close database connection", "error", cerr)
				}
			}()
			return runMigrations(cmd.Context(), db, args[0], log)
		},
	}
}
