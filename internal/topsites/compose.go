package topsites

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/nao1215/topsites/internal/model"
)

// ComposeStep assembles the final grid: pins hold their slots, ranked
// candidates fill the rest in order, and a sparse grid is padded from
// the curated catalog. Slots that cannot be filled are dropped, so the
// grid is always compact.
type ComposeStep struct {
	// Bookmarks annotates catalog entries with bookmark state. May be nil.
	Bookmarks BookmarkIndex

	// Logger receives composition summaries at debug level.
	Logger *slog.Logger
}

// Name implements pipeline.Step.
func (s *ComposeStep) Name() string {
	return "compose"
}

// Do implements pipeline.Step.
func (s *ComposeStep) Do(ctx context.Context, c *model.Computation) error {
	working := append([]model.SiteRecord(nil), c.Candidates...)
	working = s.padFromCatalog(ctx, c, working)

	grid := make(model.Grid, 0, c.GridSize)
	placed := make(map[string]struct{}, c.GridSize)

	for i := 0; i < c.GridSize; i++ {
		if pin := c.PinAt(i); pin != nil {
			if _, dup := placed[pin.Key]; dup {
				continue
			}
			// A candidate for the pinned site is redundant: the pin
			// already guarantees the site a slot.
			working = evictKey(working, pin.Key)

			r := *pin
			r.Bookmarked = s.bookmarked(ctx, r.Location)
			r.SlotKey = strconv.Itoa(i)
			r.Source = model.SourcePinned
			grid = append(grid, r)
			placed[r.Key] = struct{}{}
			continue
		}

		for len(working) > 0 {
			r := working[0]
			working = working[1:]
			if _, dup := placed[r.Key]; dup {
				continue
			}
			r.SlotKey = strconv.Itoa(i)
			grid = append(grid, r)
			placed[r.Key] = struct{}{}
			break
		}
	}

	if s.Logger != nil {
		s.Logger.Debug("grid composed",
			"slots", len(grid),
			"grid_size", c.GridSize,
		)
	}

	c.Grid = grid
	return nil
}

// padFromCatalog appends curated entries when the candidate list cannot
// fill the grid. Catalog entries that are pinned, ignored, or already
// present among the candidates are skipped.
//
// Catalog padding does not deduplicate by hostname against the ranked
// candidates, so a catalog entry can share a domain with a ranked site.
func (s *ComposeStep) padFromCatalog(ctx context.Context, c *model.Computation, working []model.SiteRecord) []model.SiteRecord {
	if len(working) >= c.GridSize {
		return working
	}

	pinnedKeys := c.PinnedKeys()
	present := make(map[string]struct{}, len(working))
	for _, r := range working {
		present[r.Key] = struct{}{}
	}

	for _, entry := range c.Catalog {
		if len(working) >= c.GridSize {
			break
		}
		if entry.Key == "" {
			entry.Key = model.DeriveKey(entry.Location)
		}
		if _, ok := pinnedKeys[entry.Key]; ok {
			continue
		}
		if _, ok := c.Ignored[entry.Key]; ok {
			continue
		}
		if _, ok := present[entry.Key]; ok {
			continue
		}

		entry.Bookmarked = s.bookmarked(ctx, entry.Location)
		entry.Source = model.SourceCatalog
		working = append(working, entry)
		present[entry.Key] = struct{}{}
	}

	return working
}

// evictKey removes every record with the given identity key.
func evictKey(records []model.SiteRecord, key string) []model.SiteRecord {
	kept := records[:0]
	for _, r := range records {
		if r.Key != key {
			kept = append(kept, r)
		}
	}
	return kept
}

// bookmarked mirrors RankStep's lookup: failures degrade to false.
func (s *ComposeStep) bookmarked(ctx context.Context, location string) bool {
	if s.Bookmarks == nil {
		return false
	}
	ok, err := s.Bookmarks.Bookmarked(ctx, location)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Debug("bookmark lookup failed", "location", location, "error", err)
		}
		return false
	}
	return ok
}
