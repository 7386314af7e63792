// Package topsites implements the ranking engine that turns browsing
// history into the new-tab grid.
//
// The engine snapshots its collaborators (history store, pin store,
// ignored set, bookmark index), then runs a four-stage pipeline over
// the snapshot:
//
//  1. filter    - drop protected schemes, pinned, ignored, and records
//     below the threshold cache
//  2. rank      - stable sort by visit count and recency, truncate to
//     the candidate pool, tighten the threshold cache
//  3. dedupe    - keep one candidate per hostname (or registrable
//     domain), dropping unparseable locations
//  4. compose   - place pins, fill remaining slots from candidates,
//     pad a sparse grid from the curated catalog
//
// Recomputation is serialized: one run at a time, with the threshold
// cache read at the start and written back only when the run succeeds.
// A failed or cancelled run leaves the cache untouched.
package topsites
