package model

import "sort"

// Computation is the mutable carrier threaded through the ranking
// pipeline. Each step reads the fields earlier steps produced and
// writes its own output back onto the carrier.
//
// Design decision: steps share one carrier instead of passing typed
// values between functions because it keeps the step interface uniform
// (every step sees the whole recompute state), mirrors how the grid is
// assembled incrementally, and lets the runner record bookkeeping
// (performed steps, errors) in one place.
type Computation struct {
	// Records is the input snapshot of history records, in a
	// deterministic order (see NewComputation).
	Records []SiteRecord

	// Pinned is the pin sequence indexed by grid position. A nil entry
	// means the slot has no pin and is filled from ranked candidates.
	// May be shorter than GridSize; missing tail entries count as nil.
	Pinned []*SiteRecord

	// Ignored holds identity keys the user removed from the grid.
	Ignored map[string]struct{}

	// Catalog is the curated fallback list used to pad a sparse grid.
	Catalog []SiteRecord

	// GridSize is the number of slots to compose.
	GridSize int

	// Floor carries the threshold cache. The filter step reads it; the
	// rank step tightens it. The engine copies it back after a
	// successful run.
	Floor Watermarks

	// Candidates is the working list each step rewrites in place:
	// filtered, then ranked and truncated, then deduplicated.
	Candidates []SiteRecord

	// Grid is the composed output, populated by the final step.
	Grid Grid

	// DroppedLocations counts records discarded because their location
	// could not be parsed.
	DroppedLocations int

	// PerformedSteps lists executed step names in order.
	PerformedSteps []string

	// Cancelled is set when the run was abandoned via context.
	Cancelled bool

	// Err holds the first step error when the run failed.
	Err error

	// ErrMessage mirrors Err for serialized output.
	ErrMessage string `json:"error,omitempty"`
}

// NewComputation builds the carrier for one recomputation. The record
// snapshot arrives as a map (the history store's natural shape); it is
// flattened into a slice ordered by key so ranking sees a deterministic
// input order regardless of map iteration.
func NewComputation(records map[string]SiteRecord, pinned []*SiteRecord, ignored map[string]struct{}, catalog []SiteRecord, gridSize int, floor Watermarks) *Computation {
	snapshot := make([]SiteRecord, 0, len(records))
	for _, r := range records {
		snapshot = append(snapshot, r)
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].Key < snapshot[j].Key })

	if ignored == nil {
		ignored = make(map[string]struct{})
	}

	return &Computation{
		Records:  snapshot,
		Pinned:   pinned,
		Ignored:  ignored,
		Catalog:  catalog,
		GridSize: gridSize,
		Floor:    floor,
	}
}

// PinnedKeys returns the identity keys of all non-nil pins.
func (c *Computation) PinnedKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(c.Pinned))
	for _, p := range c.Pinned {
		if p != nil {
			keys[p.Key] = struct{}{}
		}
	}
	return keys
}

// PinAt returns the pin at grid position i, or nil when the slot is
// unpinned or beyond the recorded pin sequence.
func (c *Computation) PinAt(i int) *SiteRecord {
	if i < 0 || i >= len(c.Pinned) {
		return nil
	}
	return c.Pinned[i]
}
