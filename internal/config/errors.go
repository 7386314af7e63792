package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidGridSize is returned when the grid size is not positive.
	// A grid with zero slots would make every recomputation a no-op.
	ErrInvalidGridSize = errors.New("invalid grid size: must be positive")

	// ErrInvalidPoolSize is returned when the candidate pool is smaller
	// than the grid. Pins and domain deduplication both shrink the pool,
	// so it must hold at least one candidate per slot.
	ErrInvalidPoolSize = errors.New("invalid pool size: must be at least the grid size")

	// ErrInvalidDebounce is returned when the debounce window is
	// negative. Use 0 to disable coalescing entirely.
	ErrInvalidDebounce = errors.New("invalid debounce window: must be non-negative")

	// ErrInvalidPollInterval is returned when the watch poll interval is
	// not positive.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
