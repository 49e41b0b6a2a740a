package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/betsim/internal/factory"
	"github.com/mcoot/betsim/internal/model"
)

var (
	cfg *Config
	app *factory.App
)

// Exit codes by error kind
const (
	exitError      = 1
	exitValidation = 2
	exitNotFound   = 3
	exitEmpty      = 4
	exitStorage    = 5
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()
	app = nil

	rootCmd := &cobra.Command{
		Use:   "betsim",
		Short: "Betting simulation ledger",
		Long: `betsim manages a ledger of player accounts for a betting simulation.

It supports player management, per-player action history, a waiting queue,
bet planning, the slot and guessing games, and report export. State is kept
in JSON documents on disk by default, or in memory, Redis or SQLite.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Resolve(cmd.Root().PersistentFlags()); err != nil {
				return err
			}

			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.LogLevel(),
			}))

			var err error
			app, err = factory.New(cmd.Context(), cfg.FactoryConfig(logger))
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Config file (env: BETSIM_CONFIG)")
	flags.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend: file, memory, redis, sqlite (env: BETSIM_STORAGE)")
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the file backend (env: BETSIM_DATA_DIR)")
	flags.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the redis backend (env: BETSIM_REDIS_URL)")
	flags.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "Database file for the sqlite backend (env: BETSIM_SQLITE_PATH)")
	flags.StringVar(&cfg.ReportsDir, "reports-dir", cfg.ReportsDir, "Directory for exported reports (env: BETSIM_REPORTS_DIR)")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose logging")

	// Add subcommands
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newQueueCmd())
	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		NewOutput(cfg.Output, os.Stderr).PrintError(err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return exitValidation
	case errors.Is(err, model.ErrPlayerNotFound):
		return exitNotFound
	case errors.Is(err, model.ErrEmptyHistory), errors.Is(err, model.ErrEmptyQueue):
		return exitEmpty
	case errors.Is(err, model.ErrIO):
		return exitStorage
	default:
		return exitError
	}
}
