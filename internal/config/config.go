package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The grid and pool sizes come from the
// historical new-tab constants: 100 ranked candidates feed an 18-slot
// rendered grid.
const (
	// DefaultGridSize is the number of slots in the rendered grid.
	DefaultGridSize = 18

	// DefaultPoolSize is the maximum number of ranked candidates kept
	// after sorting. The pool is intentionally much larger than the grid
	// so pins and domain deduplication still leave enough fill.
	DefaultPoolSize = 100

	// DefaultDebounce is the window within which recomputation requests
	// are coalesced. History updates arrive in bursts (a page load can
	// produce several visits in quick succession), so the grid is
	// recomputed at most once per window unless forced.
	DefaultDebounce = 5 * time.Second

	// DefaultPollInterval is how often the watch command checks the
	// history store for new activity.
	DefaultPollInterval = 2 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "topsites"
)

// DefaultProtectedSchemes lists URL schemes that never appear on the
// grid: internal browser pages and pseudo-URLs that are not navigable
// destinations in their own right.
func DefaultProtectedSchemes() []string {
	return []string{
		"about",
		"chrome",
		"view-source",
		"javascript",
		"data",
		"blob",
		"file",
		"devtools",
	}
}

// Config holds all configuration options for topsites.
// This struct is designed to be populated from CLI flags and the
// optional configuration file, then passed through the application via
// dependency injection rather than global state.
type Config struct {
	// GridSize is the number of slots in the rendered grid.
	GridSize int

	// PoolSize is the maximum ranked candidate pool kept after sorting.
	// Must be at least GridSize or sparse grids become unavoidable.
	PoolSize int

	// Debounce is the recomputation coalescing window.
	Debounce time.Duration

	// PollInterval is how often the watch command checks for activity.
	PollInterval time.Duration

	// ProtectedSchemes are URL schemes excluded from ranking.
	ProtectedSchemes []string

	// DedupeByRegistrableDomain switches domain deduplication from exact
	// hostname matching to eTLD+1 matching, collapsing subdomains of the
	// same registered domain into one grid entry.
	DedupeByRegistrableDomain bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .topsites in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string

	// Catalog holds the curated fallback entries. Populated from the
	// built-in defaults and optionally overridden by the config file.
	Catalog []CatalogEntry

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		GridSize:         DefaultGridSize,
		PoolSize:         DefaultPoolSize,
		Debounce:         DefaultDebounce,
		PollInterval:     DefaultPollInterval,
		ProtectedSchemes: DefaultProtectedSchemes(),
		DBDir:            XDGDataDir(),
		Catalog:          DefaultCatalog(),
	}
}

// XDGDataDir returns the XDG data directory for topsites.
// On Linux: ~/.local/share/topsites
// On macOS: ~/Library/Application Support/topsites
// On Windows: %LOCALAPPDATA%\topsites
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for topsites.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for topsites.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
// Called once after CLI parsing, before any recomputation begins, so
// misconfiguration fails fast with a clear message.
func (c *Config) Validate() error {
	if c.GridSize <= 0 {
		return ErrInvalidGridSize
	}

	if c.PoolSize < c.GridSize {
		return ErrInvalidPoolSize
	}

	if c.Debounce < 0 {
		return ErrInvalidDebounce
	}

	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
