package model

import "time"

// Grid is the final output of a recomputation: an ordered sequence of
// site records ready for rendering. Empty slots have already been
// dropped, so the length may be less than the configured grid size.
//
// Invariant: no two entries share the same Key.
type Grid []SiteRecord

// Keys returns the identity keys of all entries in grid order.
func (g Grid) Keys() []string {
	keys := make([]string, len(g))
	for i, r := range g {
		keys[i] = r.Key
	}
	return keys
}

// HasKey reports whether any entry carries the given identity key.
func (g Grid) HasKey(key string) bool {
	for _, r := range g {
		if r.Key == key {
			return true
		}
	}
	return false
}

// CountBySource returns the number of entries with each provenance.
func (g Grid) CountBySource() map[SlotSource]int {
	counts := make(map[SlotSource]int)
	for _, r := range g {
		counts[r.Source]++
	}
	return counts
}

// GridReport bundles a computed grid with the metadata report writers
// and the database need: when it was produced, which pipeline steps ran,
// and how many records were dropped for unparseable locations.
type GridReport struct {
	// GeneratedAt is when the recomputation finished.
	GeneratedAt time.Time `json:"generated_at"`

	// GridSize is the configured number of slots.
	GridSize int `json:"grid_size"`

	// Grid is the computed output.
	Grid Grid `json:"grid"`

	// PinnedCount, RankedCount, and CatalogCount break the grid down
	// by slot provenance.
	PinnedCount  int `json:"pinned_count"`
	RankedCount  int `json:"ranked_count"`
	CatalogCount int `json:"catalog_count"`

	// DroppedLocations is the number of history records discarded
	// because their location could not be parsed.
	DroppedLocations int `json:"dropped_locations,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`
}

// NewGridReport builds a GridReport from a finished computation.
func NewGridReport(c *Computation) *GridReport {
	counts := c.Grid.CountBySource()
	return &GridReport{
		GeneratedAt:      time.Now(),
		GridSize:         c.GridSize,
		Grid:             c.Grid,
		PinnedCount:      counts[SourcePinned],
		RankedCount:      counts[SourceRanked],
		CatalogCount:     counts[SourceCatalog],
		DroppedLocations: c.DroppedLocations,
		PerformedSteps:   append([]string(nil), c.PerformedSteps...),
	}
}
