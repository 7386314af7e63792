package topsites

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/nao1215/topsites/internal/model"
)

// RankStep orders the candidates and truncates them to the pool size.
// Each retained candidate is annotated with its bookmark state, a
// position-derived slot key, and ranked provenance, and its signals are
// folded into the threshold cache.
type RankStep struct {
	// PoolSize is the maximum number of candidates kept after ranking.
	PoolSize int

	// Bookmarks answers bookmark-state lookups. May be nil.
	Bookmarks BookmarkIndex

	// Logger receives annotation failures at debug level.
	Logger *slog.Logger
}

// Name implements pipeline.Step.
func (s *RankStep) Name() string {
	return "rank"
}

// Do implements pipeline.Step.
//
// Ordering is visit count descending, then last access descending. The
// sort is stable, so candidates tied on both signals keep their input
// order and repeated runs over the same snapshot produce the same
// ranking.
func (s *RankStep) Do(ctx context.Context, c *model.Computation) error {
	sort.SliceStable(c.Candidates, func(i, j int) bool {
		a, b := c.Candidates[i], c.Candidates[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.LastAccessed > b.LastAccessed
	})

	if s.PoolSize > 0 && len(c.Candidates) > s.PoolSize {
		c.Candidates = c.Candidates[:s.PoolSize]
	}

	for i := range c.Candidates {
		r := &c.Candidates[i]
		r.Bookmarked = s.bookmarked(ctx, r.Location)
		r.SlotKey = strconv.Itoa(i)
		r.Source = model.SourceRanked

		c.Floor = c.Floor.Tighten(r.Count, r.LastAccessed)
	}

	return nil
}

// bookmarked looks up the bookmark state, treating lookup failure as
// not bookmarked. The annotation is cosmetic; losing it must not fail
// the ranking pass.
func (s *RankStep) bookmarked(ctx context.Context, location string) bool {
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
