package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	userID  string
	guest   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vocabmaster",
	Short: "Spaced repetition vocabulary trainer",
	Long: `vocabmaster schedules vocabulary reviews on a fixed interval ladder
(1, 2, 4, 8, 15, 30, 60 and 120 days) and keeps progress in sync across devices.

Without a user id it runs in guest mode on a built-in sample list, with progress
kept in the local database only.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "user id (overrides VOCAB_USER_ID)")
	rootCmd.PersistentFlags().BoolVar(&guest, "guest", false, "force guest mode")

	rootCmd.AddCommand(
		serveCmd,
		addCmd,
		scanCmd,
		importCmd,
		statsCmd,
		resetCmd,
		settingsCmd,
		learnCmd,
		reviewCmd,
		quizCmd,
		listenCmd,
	)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
