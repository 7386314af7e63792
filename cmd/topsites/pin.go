package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewPinCmd creates the pin command.
func NewPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin <slot> <url>",
		Short: "Pin a site to a grid slot",
		Long: `Pin fixes a site to a specific grid slot. Pinned sites always occupy
their slot regardless of visit counts, and a site that is both pinned
and highly ranked appears only at its pinned position.

Slot numbering starts at 0. Pinning over an occupied slot replaces its
previous occupant; pinning a site already pinned elsewhere moves it.

Examples:
  # Pin a site to the first slot
  topsites pin 0 https://example.com

  # Pin with a display title
  topsites pin 3 --title "Team Wiki" https://wiki.example.com`,
		Args: cobra.ExactArgs(2),
		RunE: runPinCmd,
	}

	cmd.Flags().StringP("title", "t", "", "Display title for the pinned site")

	return cmd
}

// runPinCmd executes the pin command.
func runPinCmd(cmd *cobra.Command, args []string) error {
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid slot %q: %w", args[0], err)
	}
	if slot < 0 {
		return fmt.Errorf("invalid slot %d: must be non-negative", slot)
	}

	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return err
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Pin already committed

	if err := db.Pin(cmd.Context(), args[1], title, slot); err != nil {
		return fmt.Errorf("failed to pin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pinned to slot %d\n", slot)
	return nil
}

// NewUnpinCmd creates the unpin command.
func NewUnpinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpin <slot>",
		Short: "Clear a pinned grid slot",
		Long: `Unpin clears the pin at the given slot. The slot becomes available to
ranked candidates on the next recomputation. Unpinning an empty slot is
not an error.

Examples:
  topsites unpin 0`,
		Args: cobra.ExactArgs(1),
		RunE: runUnpinCmd,
	}
}

// runUnpinCmd executes the unpin command.
func runUnpinCmd(cmd *cobra.Command, args []string) error {
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid slot %q: %w", args[0], err)
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Unpin already committed

	if err := db.Unpin(cmd.Context(), slot); err != nil {
		return fmt.Errorf("failed to unpin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Unpinned slot %d\n", slot)
	return nil
}
