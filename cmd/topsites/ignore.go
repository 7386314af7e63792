package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewIgnoreCmd creates the ignore command.
func NewIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignore <url> [url...]",
		Short: "Exclude sites from the grid",
		Long: `Ignore removes sites from the grid until they are restored. Ignored
sites keep accumulating history; only their grid placement is
suppressed.

Examples:
  topsites ignore https://example.com
  topsites ignore https://a.example https://b.example`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIgnoreCmd,
	}
}

// runIgnoreCmd executes the ignore command.
func runIgnoreCmd(cmd *cobra.Command, args []string) error {
	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Changes already committed

	for _, location := range args {
		if err := db.Ignore(cmd.Context(), location); err != nil {
			return fmt.Errorf("failed to ignore: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ignored %d site(s)\n", len(args))
	return nil
}

// NewRestoreCmd creates the restore command.
func NewRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <url> [url...]",
		Short: "Make previously ignored sites eligible again",
		Long: `Restore removes sites from the ignored set so they can reappear in the
grid. Restoring a site that was never ignored is not an error.

Examples:
  topsites restore https://example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRestoreCmd,
	}
}

// runRestoreCmd executes the restore command.
func runRestoreCmd(cmd *cobra.Command, args []string) error {
	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Changes already committed

	for _, location := range args {
		if err := db.Restore(cmd.Context(), location); err != nil {
			return fmt.Errorf("failed to restore: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d site(s)\n", len(args))
	return nil
}
