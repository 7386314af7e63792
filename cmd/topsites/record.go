package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewRecordCmd creates the record command.
func NewRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <url> [url...]",
		Short: "Record visits in the browsing history",
		Long: `Record stores one visit event per given URL and folds it into the
site aggregates that ranking reads.

Examples:
  # Record a single visit
  topsites record https://example.com/article

  # Record a visit with a page title
  topsites record --title "Example Article" https://example.com/article

  # Record several visits at once
  topsites record https://a.example https://b.example`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRecordCmd,
	}

	cmd.Flags().StringP("title", "t", "", "Page title to store with the visit")

	return cmd
}

// runRecordCmd executes the record command.
func runRecordCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return err
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Visit already committed

	now := time.Now()
	for _, location := range args {
		location = strings.TrimSpace(location)
		if location == "" {
			continue
		}
		id, err := db.RecordVisit(cmd.Context(), location, title, now)
		if err != nil {
			return fmt.Errorf("failed to record visit: %w", err)
		}
		logger.Debug("visit recorded", "location", location, "visit_id", id)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d visit(s)\n", len(args))
	return nil
}
