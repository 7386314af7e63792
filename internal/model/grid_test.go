package model

import (
	"testing"
)

// TestGridHelpers tests Grid accessors.
func TestGridHelpers(t *testing.T) {
	t.Parallel()

	grid := Grid{
		{Key: "a", Source: SourcePinned},
		{Key: "b", Source: SourceRanked},
		{Key: "c", Source: SourceRanked},
		{Key: "d", Source: SourceCatalog},
	}

	t.Run("keys in order", func(t *testing.T) {
		t.Parallel()

		keys := grid.Keys()
		want := []string{"a", "b", "c", "d"}
		for i, k := range want {
			if keys[i] != k {
				t.Errorf("keys[%d] = %q, want %q", i, keys[i], k)
			}
		}
	})

	t.Run("has key", func(t *testing.T) {
		t.Parallel()

		if !grid.HasKey("c") {
			t.Error("expected HasKey(c) to be true")
		}
		if grid.HasKey("z") {
			t.Error("expected HasKey(z) to be false")
		}
	})

	t.Run("counts by source", func(t *testing.T) {
		t.Parallel()

		counts := grid.CountBySource()
		if counts[SourcePinned] != 1 || counts[SourceRanked] != 2 || counts[SourceCatalog] != 1 {
			t.Errorf("unexpected counts: %v", counts)
		}
	})
}

// TestNewComputation tests snapshot flattening and determinism.
func TestNewComputation(t *testing.T) {
	t.Parallel()

	t.Run("orders records by key", func(t *testing.T) {
		t.Parallel()

		records := map[string]SiteRecord{
			"c": {Key: "c"},
			"a": {Key: "a"},
			"b": {Key: "b"},
		}
		c := NewComputation(records, nil, nil, nil, 18, Watermarks{})

		want := []string{"a", "b", "c"}
		for i, k := range want {
			if c.Records[i].Key != k {
				t.Errorf("record %d: got key %q, want %q", i, c.Records[i].Key, k)
			}
		}
	})

	t.Run("initializes nil ignored set", func(t *testing.T) {
		t.Parallel()

		c := NewComputation(nil, nil, nil, nil, 18, Watermarks{})
		if c.Ignored == nil {
			t.Fatal("expected non-nil ignored set")
		}
	})

	t.Run("pin lookup tolerates short sequences", func(t *testing.T) {
		t.Parallel()

		pin := &SiteRecord{Key: "p"}
		c := NewComputation(nil, []*SiteRecord{nil, pin}, nil, nil, 18, Watermarks{})

		if c.PinAt(0) != nil {
			t.Error("expected slot 0 to be unpinned")
		}
		if c.PinAt(1) != pin {
			t.Error("expected slot 1 pin")
		}
		if c.PinAt(5) != nil {
			t.Error("expected slot beyond sequence to be nil")
		}
		if c.PinAt(-1) != nil {
			t.Error("expected negative slot to be nil")
		}
	})

	t.Run("pinned keys skips nils", func(t *testing.T) {
		t.Parallel()

		c := NewComputation(nil, []*SiteRecord{nil, {Key: "x"}, nil, {Key: "y"}}, nil, nil, 18, Watermarks{})
		keys := c.PinnedKeys()
		if len(keys) != 2 {
			t.Fatalf("expected 2 keys, got %d", len(keys))
		}
		if _, ok := keys["x"]; !ok {
			t.Error("missing key x")
		}
	})
}

// TestNewGridReport tests provenance counting.
func TestNewGridReport(t *testing.T) {
	t.Parallel()

	c := &Computation{
		GridSize: 18,
		Grid: Grid{
			{Key: "a", Source: SourcePinned},
			{Key: "b", Source: SourceRanked},
			{Key: "c", Source: SourceCatalog},
			{Key: "d", Source: SourceCatalog},
		},
		DroppedLocations: 2,
		PerformedSteps:   []string{"filter", "rank", "dedupe", "compose"},
	}
	rep := NewGridReport(c)

	if rep.PinnedCount != 1 || rep.RankedCount != 1 || rep.CatalogCount != 2 {
		t.Errorf("unexpected provenance counts: %+v", rep)
	}
	if rep.DroppedLocations != 2 {
		t.Errorf("expected 2 dropped locations, got %d", rep.DroppedLocations)
	}
	if len(rep.PerformedSteps) != 4 {
		t.Errorf("expected 4 performed steps, got %d", len(rep.PerformedSteps))
	}
	if rep.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt to be set")
	}
}
