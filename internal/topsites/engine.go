package topsites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nao1215/topsites/internal/config"
	"github.com/nao1215/topsites/internal/model"
	"github.com/nao1215/topsites/internal/pipeline"
)

// ErrHistoryUnavailable indicates the history snapshot could not be
// taken. The engine fails the whole recomputation rather than compose a
// grid from partial inputs.
var ErrHistoryUnavailable = errors.New("history source unavailable")

// HistorySource supplies the aggregated site records for one
// recomputation, keyed by identity key.
type HistorySource interface {
	Sites(ctx context.Context) (map[string]model.SiteRecord, error)
}

// PinStore supplies the pin sequence. The returned slice has one entry
// per grid slot; nil entries mean the slot is unpinned.
type PinStore interface {
	PinnedTopSites(ctx context.Context, gridSize int) ([]*model.SiteRecord, error)
}

// IgnoreStore supplies the identity keys the user removed from the grid.
type IgnoreStore interface {
	IgnoredTopSites(ctx context.Context) (map[string]struct{}, error)
}

// BookmarkIndex answers whether a location is bookmarked.
type BookmarkIndex interface {
	Bookmarked(ctx context.Context, location string) (bool, error)
}

// Notifier receives the composed grid after each successful
// recomputation.
type Notifier interface {
	TopSiteDataAvailable(grid model.Grid)
}

// Scheduler defers a recomputation request. The engine hands
// non-immediate requests to the scheduler instead of running them
// inline.
type Scheduler interface {
	Trigger()
}

// Engine owns the threshold cache and runs the ranking pipeline.
// All recomputation state is guarded by mu; callers may invoke the
// engine from multiple goroutines.
type Engine struct {
	history   HistorySource
	pins      PinStore
	ignores   IgnoreStore
	bookmarks BookmarkIndex
	notifier  Notifier
	scheduler Scheduler

	gridSize         int
	poolSize         int
	catalog          []model.SiteRecord
	protectedSchemes map[string]struct{}
	registrableDedup bool
	logger           *slog.Logger

	// mu serializes recomputation and guards floor.
	mu    sync.Mutex
	floor model.Watermarks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithGridSize sets the number of grid slots to compose.
func WithGridSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.gridSize = n
		}
	}
}

// WithPoolSize sets the ranked candidate pool size.
func WithPoolSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

// WithCatalog sets the curated fallback entries used to pad a sparse
// grid.
func WithCatalog(catalog []model.SiteRecord) EngineOption {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// WithProtectedSchemes sets the URL schemes excluded from ranking.
func WithProtectedSchemes(schemes []string) EngineOption {
	return func(e *Engine) {
		set := make(map[string]struct{}, len(schemes))
		for _, s := range schemes {
			set[s] = struct{}{}
		}
		e.protectedSchemes = set
	}
}

// WithRegistrableDomainDedup switches deduplication from exact hostname
// to registrable domain, so www.example.com and blog.example.com
// collapse to one slot.
func WithRegistrableDomainDedup(enabled bool) EngineOption {
	return func(e *Engine) {
		e.registrableDedup = enabled
	}
}

// WithLogger sets the engine logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithNotifier sets the receiver of composed grids.
func WithNotifier(n Notifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithScheduler sets the deferral policy for non-immediate requests.
func WithScheduler(s Scheduler) EngineOption {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// NewEngine creates an Engine over the given collaborators.
// history is required; pins, ignores, and bookmarks may be nil, in
// which case the engine treats them as empty.
func NewEngine(history HistorySource, pins PinStore, ignores IgnoreStore, bookmarks BookmarkIndex, opts ...EngineOption) *Engine {
	e := &Engine{
		history:   history,
		pins:      pins,
		ignores:   ignores,
		bookmarks: bookmarks,
		gridSize:  config.DefaultGridSize,
		poolSize:  config.DefaultPoolSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.protectedSchemes == nil {
		set := make(map[string]struct{})
		for _, s := range config.DefaultProtectedSchemes() {
			set[s] = struct{}{}
		}
		e.protectedSchemes = set
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// CalculateTopSites is the engine's entry point for recomputation
// requests.
//
// When clearCache is true, the threshold cache is reset before anything
// else, so previously excluded records become eligible again. When
// immediate is false and a scheduler is configured, the request is
// deferred to the scheduler and the call returns without computing.
// Otherwise the recomputation runs inline.
func (e *Engine) CalculateTopSites(ctx context.Context, clearCache, immediate bool) error {
	if clearCache {
		e.ClearTopSiteCacheData()
	}

	if !immediate && e.scheduler != nil {
		e.scheduler.Trigger()
		return nil
	}

	_, err := e.Recompute(ctx)
	return err
}

// Recompute runs one full ranking pass and returns its report.
//
// The threshold cache is copied out under the lock, threaded through
// the pipeline, and written back only when every step succeeds. The
// notifier, if any, receives the composed grid before Recompute
// returns.
func (e *Engine) Recompute(ctx context.Context) (*model.GridReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.history.Sites(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}

	var pinned []*model.SiteRecord
	if e.pins != nil {
		pinned, err = e.pins.PinnedTopSites(ctx, e.gridSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load pins: %w", err)
		}
	}

	var ignored map[string]struct{}
	if e.ignores != nil {
		ignored, err = e.ignores.IgnoredTopSites(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load ignored set: %w", err)
		}
	}

	c := model.NewComputation(records, pinned, ignored, e.catalog, e.gridSize, e.floor)

	p := pipeline.New(pipeline.WithLogger(e.logger))
	p.AddSteps(
		&FilterStep{ProtectedSchemes: e.protectedSchemes, Logger: e.logger},
		&RankStep{PoolSize: e.poolSize, Bookmarks: e.bookmarks, Logger: e.logger},
		&DedupeStep{ByRegistrableDomain: e.registrableDedup, Logger: e.logger},
		&ComposeStep{Bookmarks: e.bookmarks, Logger: e.logger},
	)

	if err := p.Execute(ctx, c); err != nil {
		return nil, err
	}

	// Persist the tightened threshold cache only after a full success.
	e.floor = c.Floor

	report := model.NewGridReport(c)
	e.logger.Info("grid recomputed",
		"slots", len(report.Grid),
		"pinned", report.PinnedCount,
		"ranked", report.RankedCount,
		"catalog", report.CatalogCount,
		"dropped", report.DroppedLocations,
	)

	if e.notifier != nil {
		e.notifier.TopSiteDataAvailable(report.Grid)
	}

	return report, nil
}

// ClearTopSiteCacheData resets the threshold cache. The next
// recomputation considers the full history again.
func (e *Engine) ClearTopSiteCacheData() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.floor = model.Watermarks{}
	e.logger.Debug("threshold cache cleared")
}

// Floor returns a copy of the current threshold cache.
func (e *Engine) Floor() model.Watermarks {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.floor
}
