package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/topsites/internal/config"
	"github.com/nao1215/topsites/internal/database"
	"github.com/nao1215/topsites/internal/model"
	"github.com/nao1215/topsites/internal/report"
	"github.com/nao1215/topsites/internal/topsites"
)

// NewRankCmd creates the rank command.
func NewRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Compute the top sites grid from recorded history",
		Long: `Rank composes the new-tab grid from the recorded browsing history.

The grid is built in four stages: candidates are filtered (protected
schemes, pinned sites, ignored sites, and sites below the threshold
cache are excluded), ranked by visit count and recency, deduplicated to
one slot per domain, and composed around the user's pins. Sparse grids
are padded from the curated catalog.

Examples:
  # Print the grid as human-readable text
  topsites rank

  # Output JSON for tool integration
  topsites rank --json

  # Write a Markdown report to a file
  topsites rank --markdown -o grid.md

  # Reconsider the full history, ignoring the threshold cache
  topsites rank --clear-cache`,
		Args: cobra.NoArgs,
		RunE: runRankCmd,
	}

	cmd.Flags().IntP("grid-size", "g", config.DefaultGridSize,
		"Number of slots in the rendered grid")
	cmd.Flags().Int("pool-size", config.DefaultPoolSize,
		"Maximum ranked candidate pool kept after sorting")
	cmd.Flags().Bool("registrable-domain", false,
		"Deduplicate by registrable domain (eTLD+1) instead of exact hostname")
	cmd.Flags().Bool("clear-cache", false,
		"Clear the threshold cache before computing")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .topsites in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runRankCmd executes the rank command.
func runRankCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
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
	defer db.Close() //nolint:errcheck // Read-mostly; close error is not actionable

	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return err
	}

	engine := newEngine(cfg, db, logger)
	if clearCache {
		engine.ClearTopSiteCacheData()
	}

	rpt, err := engine.Recompute(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to compute top sites: %w", err)
	}

	return outputReport(cfg, rpt, cmd.OutOrStdout())
}

// buildConfig creates a Config from cobra command flags and the
// optional configuration file. Flags take precedence over the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = dbDir(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file, error if not
	// found. Otherwise silently fall back to defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.ApplyTo(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if cmd.Flags().Changed("grid-size") {
		if cfg.GridSize, err = cmd.Flags().GetInt("grid-size"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("pool-size") {
		if cfg.PoolSize, err = cmd.Flags().GetInt("pool-size"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("registrable-domain") {
		if cfg.DedupeByRegistrableDomain, err = cmd.Flags().GetBool("registrable-domain"); err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// newEngine assembles the ranking engine over the history database.
func newEngine(cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) *topsites.Engine {
	return topsites.NewEngine(db, db, db, db,
		topsites.WithGridSize(cfg.GridSize),
		topsites.WithPoolSize(cfg.PoolSize),
		topsites.WithCatalog(catalogRecords(cfg.Catalog)),
		topsites.WithProtectedSchemes(cfg.ProtectedSchemes),
		topsites.WithRegistrableDomainDedup(cfg.DedupeByRegistrableDomain),
		topsites.WithLogger(logger),
	)
}

// catalogRecords converts configured catalog entries into site records
// with derived identity keys.
func catalogRecords(entries []config.CatalogEntry) []model.SiteRecord {
	records := make([]model.SiteRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, model.SiteRecord{
			Key:      model.DeriveKey(e.Location),
			Location: e.Location,
			Title:    model.NormalizeTitle(e.Title),
		})
	}
	return records
}

// outputReport writes the grid report in the configured format either
// to defaultOut or, when configured, to the report file.
func outputReport(cfg *config.Config, rpt *model.GridReport, defaultOut io.Writer) error {
	out := defaultOut
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Flushed by the writer below
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(rpt); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
