// Package main provides the entry point for the topsites CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/topsites/internal/config"
	"github.com/nao1215/topsites/internal/database"
	"github.com/nao1215/topsites/internal/log"
)

// NewRootCmd creates the root command for topsites.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topsites",
		Short: "Rank browsing history into a new-tab top sites grid",
		Long: `topsites maintains a local browsing-history store and computes the
ranked "top sites" grid shown on a new-tab page.

Visits are recorded with "topsites record", and "topsites rank" composes
the grid: most visited sites first, user pins fixed to their slots, one
slot per domain, and a curated catalog padding sparse grids. "topsites
watch" keeps recomputing as the history changes.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db", "", "History database directory (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewRecordCmd())
	cmd.AddCommand(NewRankCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewPinCmd())
	cmd.AddCommand(NewUnpinCmd())
	cmd.AddCommand(NewIgnoreCmd())
	cmd.AddCommand(NewRestoreCmd())
	cmd.AddCommand(NewBookmarkCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the privacy-preserving logger used by every
// command. Location attributes are reduced before they reach stderr.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewPrivacyLogger(os.Stderr, verbose)
}

// dbDir resolves the history database directory from the --db flag,
// falling back to the XDG data directory.
func dbDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db")
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// openHistoryDB opens the history store for a command.
func openHistoryDB(cmd *cobra.Command) (*database.HistoryDB, error) {
	db, err := database.Open(dbDir(cmd), database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}
