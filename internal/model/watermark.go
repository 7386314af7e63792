package model

// Watermark is an optional numeric lower bound. The zero value is unset,
// which places no bound at all.
type Watermark struct {
	// Value is the bound. Meaningless unless Set is true.
	Value int64 `json:"value"`

	// Set reports whether the bound is active.
	Set bool `json:"set"`
}

// Allows reports whether v satisfies the watermark.
// An unset watermark allows every value.
func (w Watermark) Allows(v int64) bool {
	return !w.Set || v >= w.Value
}

// Tighten folds v into the watermark: the result is the minimum of the
// current bound (or +infinity when unset) and v. Because every candidate
// already passed the previous bound before ranking, folding retained
// values this way never lowers an established watermark between clears.
func (w Watermark) Tighten(v int64) Watermark {
	if !w.Set || v < w.Value {
		return Watermark{Value: v, Set: true}
	}
	return w
}

// Watermarks is the threshold cache carried across recomputations:
// cached lower bounds on visit count and access time used to shrink
// the candidate pool on subsequent runs. It is owned by the engine and
// must only be read and written under the engine's recompute lock.
type Watermarks struct {
	// MinCount excludes candidates whose visit count falls below it.
	MinCount Watermark `json:"min_count"`

	// MinAccess excludes candidates whose last access time falls below it.
	MinAccess Watermark `json:"min_access"`
}

// Allows reports whether a record with the given count and access time
// passes both watermarks.
func (w Watermarks) Allows(count, lastAccessed int64) bool {
	return w.MinCount.Allows(count) && w.MinAccess.Allows(lastAccessed)
}

// Tighten folds one retained record's signals into both watermarks.
func (w Watermarks) Tighten(count, lastAccessed int64) Watermarks {
	return Watermarks{
		MinCount:  w.MinCount.Tighten(count),
		MinAccess: w.MinAccess.Tighten(lastAccessed),
	}
}
