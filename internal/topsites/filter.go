package topsites

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/nao1215/topsites/internal/model"
)

// FilterStep builds the initial candidate list from the history
// snapshot. It drops records with protected schemes, records already
// pinned, records the user ignored, and records below the threshold
// cache.
type FilterStep struct {
	// ProtectedSchemes contains lowercase URL schemes that never appear
	// in the grid (browser-internal pages, raw data URLs, and so on).
	ProtectedSchemes map[string]struct{}

	// Logger receives per-record debug output.
	Logger *slog.Logger
}

// Name implements pipeline.Step.
func (s *FilterStep) Name() string {
	return "filter"
}

// Do implements pipeline.Step.
func (s *FilterStep) Do(_ context.Context, c *model.Computation) error {
	pinnedKeys := c.PinnedKeys()

	candidates := make([]model.SiteRecord, 0, len(c.Records))
	for _, r := range c.Records {
		if s.isProtected(r.Location) {
			continue
		}
		if _, ok := pinnedKeys[r.Key]; ok {
			// Pinned sites hold their slot directly; ranking them too
			// would place the same site twice.
			continue
		}
		if _, ok := c.Ignored[r.Key]; ok {
			continue
		}
		if !c.Floor.Allows(r.Count, r.LastAccessed) {
			continue
		}
		candidates = append(candidates, r)
	}

	if s.Logger != nil {
		s.Logger.Debug("filtered history snapshot",
			"input", len(c.Records),
			"candidates", len(candidates),
		)
	}

	c.Candidates = candidates
	return nil
}

// isProtected reports whether the location's scheme is excluded from
// ranking. Unparseable locations pass through here; the dedupe step
// drops them with accounting.
func (s *FilterStep) isProtected(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	_, protected := s.ProtectedSchemes[u.Scheme]
	return protected
}
