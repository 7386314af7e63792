package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/topsites/internal/config"
	"github.com/nao1215/topsites/internal/database"
	"github.com/nao1215/topsites/internal/schedule"
	"github.com/nao1215/topsites/internal/topsites"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute the grid continuously as history changes",
		Long: `Watch polls the history store and recomputes the grid whenever visits,
pins, ignores, or bookmarks change. Bursts of changes are coalesced:
the grid is recomputed once per quiet period rather than once per
change.

The command runs until interrupted (Ctrl+C or SIGTERM). Each
recomputation writes a fresh report to stdout.

Examples:
  # Watch with defaults (5s debounce, 2s poll interval)
  topsites watch

  # Faster feedback for demos
  topsites watch --debounce 1s --poll-interval 500ms

  # Emit JSON per recomputation
  topsites watch --json`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	cmd.Flags().IntP("grid-size", "g", config.DefaultGridSize,
		"Number of slots in the rendered grid")
	cmd.Flags().Int("pool-size", config.DefaultPoolSize,
		"Maximum ranked candidate pool kept after sorting")
	cmd.Flags().Bool("registrable-domain", false,
		"Deduplicate by registrable domain (eTLD+1) instead of exact hostname")
	cmd.Flags().Duration("debounce", config.DefaultDebounce,
		"Quiet period before a burst of changes triggers recomputation")
	cmd.Flags().Duration("poll-interval", config.DefaultPollInterval,
		"How often to check the history store for changes")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .topsites in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write reports to specified file path instead of stdout")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") {
		if cfg.Debounce, err = cmd.Flags().GetDuration("debounce"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("poll-interval") {
		if cfg.PollInterval, err = cmd.Flags().GetDuration("poll-interval"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Shutting down

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := newEngine(cfg, db, logger)

	return watch(ctx, cfg, db, engine, logger, cmd.OutOrStdout())
}

// watch runs the poll loop until the context is cancelled.
func watch(ctx context.Context, cfg *config.Config, db *database.HistoryDB, engine *topsites.Engine, logger *slog.Logger, out io.Writer) error {
	recompute := func() {
		report, err := engine.Recompute(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("recomputation failed", "error", err)
			return
		}
		if err := outputReport(cfg, report, out); err != nil {
			logger.Error("failed to write report", "error", err)
		}
	}

	debouncer := schedule.NewDebouncer(cfg.Debounce, recompute)
	defer debouncer.Stop()

	// Initial grid before any change arrives.
	recompute()

	cursor, err := db.ChangeCursor(ctx)
	if err != nil {
		return fmt.Errorf("failed to read change cursor: %w", err)
	}

	logger.Info("watching for history changes",
		"poll_interval", cfg.PollInterval,
		"debounce", cfg.Debounce,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				next, err := db.ChangeCursor(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					return fmt.Errorf("failed to read change cursor: %w", err)
				}
				if next != cursor {
					cursor = next
					debouncer.Trigger()
				}
			}
		}
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("watch stopped")
	return nil
}
