package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/vocabmaster/internal/bot"
	"github.com/example/vocabmaster/internal/excel"
	"github.com/example/vocabmaster/internal/scheduler"
	"github.com/example/vocabmaster/internal/settings"
	"github.com/example/vocabmaster/internal/vocabulary"
	"github.com/example/vocabmaster/pkg/models"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep progress in sync, send review reminders and expose metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		go a.reportSyncErrors(ctx)

		if a.cfg.Telegram.Token != "" {
			notifier, err := bot.NewNotifier(a.cfg.Telegram.Token, a.cfg.Telegram.ChatID, logger)
			if err != nil {
				return err
			}
			window := scheduler.Window{StartHour: a.cfg.Reminders.StartHour, EndHour: a.cfg.Reminders.EndHour}
			reminders := scheduler.NewReminders(a.coordinator, notifier, window, logger)
			if err := reminders.Start(); err != nil {
				return err
			}
			defer reminders.Stop()
		} else {
			logger.Info("TELEGRAM_BOT_TOKEN not set, reminders disabled")
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())
		srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()

		logger.Info("Started. Press Ctrl+C to stop.",
			zap.String("mode", a.coordinator.Mode().String()),
			zap.String("metrics", a.cfg.MetricsAddr))
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Error during shutdown", zap.Error(err))
		}
		return nil
	},
}

var dryRun bool

var addCmd = &cobra.Command{
	Use:   "add WORD[,WORD...]",
	Short: "Generate entries for comma separated words and save them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		words := vocabulary.ParseWordList(strings.Join(args, ","))
		b, err := a.batch(ctx)
		if err != nil {
			return err
		}

		drafts, err := b.Generate(ctx, words)
		var genErr *vocabulary.GenerationError
		if err != nil && !errors.As(err, &genErr) {
			return err
		}
		if genErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v. Please check spelling or try again.\n", genErr)
		}
		return saveDrafts(ctx, cmd.OutOrStdout(), a, drafts)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan IMAGE",
	Short: "Extract vocabulary from an image and save it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		b, err := a.batch(ctx)
		if err != nil {
			return err
		}
		drafts, err := b.Scan(ctx, data, http.DetectContentType(data))
		if errors.Is(err, vocabulary.ErrNoWordsFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No words found in the image.")
			return nil
		}
		if err != nil {
			return err
		}
		return saveDrafts(ctx, cmd.OutOrStdout(), a, drafts)
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import vocabulary from an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		importConfig := excel.DefaultImportConfig()
		importConfig.FilePath = args[0]
		result, err := excel.ImportDrafts(importConfig)
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), e)
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return saveDrafts(ctx, cmd.OutOrStdout(), a, result.Drafts)
	},
}

func saveDrafts(ctx context.Context, out io.Writer, a *app, drafts []models.NewVocabularyItem) error {
	for _, d := range drafts {
		fmt.Fprintf(out, "  %s (%s) /%s/ - %s\n", d.Word, d.Type, d.IpaUK, d.Meaning)
	}
	if dryRun || len(drafts) == 0 {
		return nil
	}

	report, err := vocabulary.SaveAll(ctx, a.coordinator, drafts)
	if err != nil {
		return err
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(out, "  %v\n", s)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(out, "  Failed to add %q: %v\n", f.Word, f.Err)
	}
	fmt.Fprintln(out, report.Summary())
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.coordinator.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Mode:        %s\n", a.coordinator.Mode())
		fmt.Fprintf(out, "Total:       %d\n", s.Total)
		fmt.Fprintf(out, "Not learned: %d\n", s.New)
		fmt.Fprintf(out, "Learning:    %d\n", s.InProgress)
		fmt.Fprintf(out, "Mastered:    %d\n", s.Mastered)
		fmt.Fprintf(out, "Due today:   %d\n", s.Due)
		return nil
	},
}

var confirmReset bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the progress of every word",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmReset {
			return fmt.Errorf("this erases all progress, run again with --yes to confirm")
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.coordinator.ResetProgress(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings [theme|voice|speed VALUE]",
	Short: "Show or change settings",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 2 {
			if err := applySetting(ctx, a.settings, args[0], args[1]); err != nil {
				return err
			}
		} else if len(args) == 1 {
			return fmt.Errorf("missing value for %s", args[0])
		}

		s := a.settings.Current()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "theme: %s\nvoice: %s\nspeed: %.2f\n", s.Theme, s.DefaultVoice, s.SpeechSpeed)
		return nil
	},
}

func applySetting(ctx context.Context, m *settings.Manager, key, value string) error {
	switch key {
	case "theme":
		theme, err := settings.ParseTheme(value)
		if err != nil {
			return err
		}
		return m.SetTheme(ctx, theme)
	case "voice":
		voice, err := settings.ParseVoice(value)
		if err != nil {
			return err
		}
		return m.SetDefaultVoice(ctx, voice)
	case "speed":
		speed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: speed %q", settings.ErrInvalidSetting, value)
		}
		return m.SetSpeechSpeed(ctx, speed)
	default:
		return fmt.Errorf("%w: unknown setting %q", settings.ErrInvalidSetting, key)
	}
}

func init() {
	for _, c := range []*cobra.Command{addCmd, scanCmd, importCmd} {
		c.Flags().BoolVar(&dryRun, "dry-run", false, "show drafts without saving")
	}
	resetCmd.Flags().BoolVar(&confirmReset, "yes", false, "confirm the reset")
}
