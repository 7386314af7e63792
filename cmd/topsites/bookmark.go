package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBookmarkCmd creates the bookmark command.
func NewBookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark <url>",
		Short: "Add or remove a bookmark",
		Long: `Bookmark maintains the bookmark index consulted during grid
composition. Bookmarked sites are flagged in the grid output; the flag
does not affect ranking.

Examples:
  # Add a bookmark
  topsites bookmark https://example.com --title "Example"

  # Remove a bookmark
  topsites bookmark --remove https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runBookmarkCmd,
	}

	cmd.Flags().StringP("title", "t", "", "Bookmark title")
	cmd.Flags().BoolP("remove", "r", false, "Remove the bookmark instead of adding it")

	return cmd
}

// runBookmarkCmd executes the bookmark command.
func runBookmarkCmd(cmd *cobra.Command, args []string) error {
	remove, err := cmd.Flags().GetBool("remove")
	if err != nil {
		return err
	}
	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return err
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Change already committed

	if remove {
		if err := db.RemoveBookmark(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to remove bookmark: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Bookmark removed")
		return nil
	}

	if err := db.Bookmark(cmd.Context(), args[0], title); err != nil {
		return fmt.Errorf("failed to bookmark: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Bookmark added")
	return nil
}
