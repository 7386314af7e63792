package topsites

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nao1215/topsites/internal/model"
)

// fakeStore implements HistorySource, PinStore, IgnoreStore, and
// BookmarkIndex over in-memory maps.
type fakeStore struct {
	sites     map[string]model.SiteRecord
	pinned    []*model.SiteRecord
	ignored   map[string]struct{}
	bookmarks map[string]bool

	sitesErr error
}

// Sites implements HistorySource.
func (f *fakeStore) Sites(_ context.Context) (map[string]model.SiteRecord, error) {
	if f.sitesErr != nil {
		return nil, f.sitesErr
	}
	return f.sites, nil
}

// PinnedTopSites implements PinStore.
func (f *fakeStore) PinnedTopSites(_ context.Context, gridSize int) ([]*model.SiteRecord, error) {
	pinned := make([]*model.SiteRecord, gridSize)
	for i := 0; i < gridSize && i < len(f.pinned); i++ {
		pinned[i] = f.pinned[i]
	}
	return pinned, nil
}

// IgnoredTopSites implements IgnoreStore.
func (f *fakeStore) IgnoredTopSites(_ context.Context) (map[string]struct{}, error) {
	return f.ignored, nil
}

// Bookmarked implements BookmarkIndex.
func (f *fakeStore) Bookmarked(_ context.Context, location string) (bool, error) {
	return f.bookmarks[location], nil
}

// addSite records a site in the fake history.
func (f *fakeStore) addSite(location string, count, lastAccessed int64) {
	if f.sites == nil {
		f.sites = make(map[string]model.SiteRecord)
	}
	r := site(location, count, lastAccessed)
	f.sites[r.Key] = r
}

// recordingNotifier captures grids delivered by the engine.
type recordingNotifier struct {
	grids []model.Grid
}

// TopSiteDataAvailable implements Notifier.
func (n *recordingNotifier) TopSiteDataAvailable(grid model.Grid) {
	n.grids = append(n.grids, grid)
}

// countingScheduler counts deferred requests.
type countingScheduler struct {
	triggers int
}

// Trigger implements Scheduler.
func (s *countingScheduler) Trigger() {
	s.triggers++
}

// TestEngineRecompute_TwentyRecordScenario tests a full pass over
// twenty sites with descending counts and a six-slot grid.
func TestEngineRecompute_TwentyRecordScenario(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	for i := 0; i < 20; i++ {
		store.addSite(fmt.Sprintf("https://site-%02d.example/", i), int64(50-i), int64(1000+i))
	}

	e := NewEngine(store, store, store, store, WithGridSize(6), WithPoolSize(100))

	report, err := e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Grid) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(report.Grid))
	}
	for i, r := range report.Grid {
		want := fmt.Sprintf("https://site-%02d.example/", i)
		if r.Location != want {
			t.Errorf("slot %d: got %q, want %q", i, r.Location, want)
		}
		if r.Source != model.SourceRanked {
			t.Errorf("slot %d: expected ranked provenance, got %q", i, r.Source)
		}
	}
	if report.RankedCount != 6 || report.PinnedCount != 0 || report.CatalogCount != 0 {
		t.Errorf("unexpected provenance counts: %+v", report)
	}
}

// TestEngineRecompute_Deterministic tests that repeated runs over the
// same inputs produce identical grids.
func TestEngineRecompute_Deterministic(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	// Heavy ties so ordering depends on deterministic input order.
	for i := 0; i < 30; i++ {
		store.addSite(fmt.Sprintf("https://tied-%02d.example/", i), 7, 500)
	}

	e := NewEngine(store, store, store, store, WithGridSize(8))

	first, err := e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := e.Recompute(context.Background())
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		for i := range first.Grid {
			if again.Grid[i].Key != first.Grid[i].Key {
				t.Fatalf("run %d: slot %d diverged: %q vs %q",
					run, i, again.Grid[i].Location, first.Grid[i].Location)
			}
		}
	}
}

// TestEngineRecompute_PinEqualsTopRanked tests that pinning the top
// site does not consume a second slot.
func TestEngineRecompute_PinEqualsTopRanked(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	store.addSite("https://top.example/", 100, 900)
	store.addSite("https://second.example/", 50, 800)
	store.addSite("https://third.example/", 25, 700)
	top := site("https://top.example/", 100, 900)
	store.pinned = []*model.SiteRecord{nil, nil, &top}

	e := NewEngine(store, store, store, store, WithGridSize(3))

	report, err := e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Grid) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(report.Grid))
	}
	want := []struct {
		location string
		source   model.SlotSource
	}{
		{"https://second.example/", model.SourceRanked},
		{"https://third.example/", model.SourceRanked},
		{"https://top.example/", model.SourcePinned},
	}
	for i, w := range want {
		if report.Grid[i].Location != w.location || report.Grid[i].Source != w.source {
			t.Errorf("slot %d: got %q (%s), want %q (%s)",
				i, report.Grid[i].Location, report.Grid[i].Source, w.location, w.source)
		}
	}
}

// TestEngineRecompute_SameHostname tests that only the best page per
// hostname reaches the grid.
func TestEngineRecompute_SameHostname(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	store.addSite("https://example.com/winner", 90, 900)
	store.addSite("https://example.com/loser", 80, 800)
	store.addSite("https://example.com/also-ran", 70, 700)
	store.addSite("https://other.example/", 10, 100)

	e := NewEngine(store, store, store, store, WithGridSize(6))

	report, err := e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Grid) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(report.Grid))
	}
	if report.Grid[0].Location != "https://example.com/winner" {
		t.Errorf("expected the most visited page per host, got %q", report.Grid[0].Location)
	}
}

// TestEngineRecompute_EmptyHistoryUsesCatalog tests catalog fallback.
func TestEngineRecompute_EmptyHistoryUsesCatalog(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	catalog := []model.SiteRecord{
		site("https://catalog-a.example/", 0, 0),
		site("https://catalog-b.example/", 0, 0),
	}

	e := NewEngine(store, store, store, store, WithGridSize(4), WithCatalog(catalog))

	report, err := e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Grid) != 2 {
		t.Fatalf("expected 2 catalog slots, got %d", len(report.Grid))
	}
	if report.CatalogCount != 2 {
		t.Errorf("expected catalog provenance, got %+v", report)
	}
}

// TestEngineRecompute_WatermarkMonotone tests that the threshold cache
// only tightens across runs and that clearing restores eligibility.
func TestEngineRecompute_WatermarkMonotone(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	for i := 0; i < 5; i++ {
		store.addSite(fmt.Sprintf("https://site-%d.example/", i), int64(10+i), int64(100+i))
	}

	e := NewEngine(store, store, store, store, WithGridSize(3), WithPoolSize(3))

	if _, err := e.Recompute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	floor := e.Floor()
	if !floor.MinCount.Set {
		t.Fatal("expected the count floor set after the first run")
	}
	// Pool of 3 keeps counts 14, 13, 12.
	if floor.MinCount.Value != 12 {
		t.Errorf("expected count floor 12, got %d", floor.MinCount.Value)
	}

	// A low-count newcomer stays below the floor on the next run.
	store.addSite("https://newcomer.example/", 1, 5000)
	report, err := e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Grid.HasKey(model.DeriveKey("https://newcomer.example/")) {
		t.Error("record below the floor reached the grid")
	}
	after := e.Floor()
	if after.MinCount.Value < floor.MinCount.Value {
		t.Errorf("count floor loosened: %d -> %d", floor.MinCount.Value, after.MinCount.Value)
	}

	// Remove everything above the floor. Without a clear, the newcomer
	// stays excluded and the grid goes empty; after a clear it is
	// eligible again.
	store.sites = nil
	store.addSite("https://newcomer.example/", 1, 5000)

	report, err = e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Grid) != 0 {
		t.Fatalf("expected an empty grid while the floor holds, got %d slots", len(report.Grid))
	}

	e.ClearTopSiteCacheData()
	report, err = e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Grid.HasKey(model.DeriveKey("https://newcomer.example/")) {
		t.Error("expected the newcomer eligible after clearing the cache")
	}
	if !e.Floor().MinCount.Set {
		t.Error("expected the floor re-established after the post-clear run")
	}
}

// TestEngineRecompute_FailedRunLeavesFloorUntouched tests threshold
// cache atomicity.
func TestEngineRecompute_FailedRunLeavesFloorUntouched(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	store.addSite("https://site.example/", 10, 100)

	e := NewEngine(store, store, store, store, WithGridSize(3))
	if _, err := e.Recompute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := e.Floor()

	store.sitesErr = errors.New("disk gone")
	if _, err := e.Recompute(context.Background()); err == nil {
		t.Fatal("expected an error when the history source fails")
	}
	if e.Floor() != before {
		t.Error("failed run modified the threshold cache")
	}
}

// TestEngineRecompute_HistoryUnavailable tests the loud-failure
// contract.
func TestEngineRecompute_HistoryUnavailable(t *testing.T) {
	t.Parallel()

	store := &fakeStore{sitesErr: errors.New("locked")}
	e := NewEngine(store, store, store, store)

	_, err := e.Recompute(context.Background())
	if !errors.Is(err, ErrHistoryUnavailable) {
		t.Errorf("expected ErrHistoryUnavailable, got %v", err)
	}
}

// TestEngineRecompute_NotifiesGrid tests notifier delivery.
func TestEngineRecompute_NotifiesGrid(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	store.addSite("https://site.example/", 10, 100)
	notifier := &recordingNotifier{}

	e := NewEngine(store, store, store, store, WithGridSize(3), WithNotifier(notifier))

	if _, err := e.Recompute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.grids) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.grids))
	}
	if len(notifier.grids[0]) != 1 {
		t.Errorf("expected the composed grid delivered, got %d slots", len(notifier.grids[0]))
	}
}

// TestEngineCalculateTopSites tests the request entry point.
func TestEngineCalculateTopSites(t *testing.T) {
	t.Parallel()

	t.Run("non-immediate requests defer to the scheduler", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		scheduler := &countingScheduler{}
		notifier := &recordingNotifier{}
		e := NewEngine(store, store, store, store,
			WithScheduler(scheduler), WithNotifier(notifier))

		if err := e.CalculateTopSites(context.Background(), false, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scheduler.triggers != 1 {
			t.Errorf("expected 1 deferred request, got %d", scheduler.triggers)
		}
		if len(notifier.grids) != 0 {
			t.Error("deferred request must not compute inline")
		}
	})

	t.Run("immediate requests bypass the scheduler", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		store.addSite("https://site.example/", 10, 100)
		scheduler := &countingScheduler{}
		notifier := &recordingNotifier{}
		e := NewEngine(store, store, store, store,
			WithScheduler(scheduler), WithNotifier(notifier))

		if err := e.CalculateTopSites(context.Background(), false, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scheduler.triggers != 0 {
			t.Errorf("expected no deferral, got %d triggers", scheduler.triggers)
		}
		if len(notifier.grids) != 1 {
			t.Errorf("expected an inline recomputation, got %d notifications", len(notifier.grids))
		}
	})

	t.Run("clear cache resets the floor before deferring", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		store.addSite("https://site.example/", 10, 100)
		e := NewEngine(store, store, store, store)

		if _, err := e.Recompute(context.Background()); err != nil {
			t.Fatal(err)
		}
		if !e.Floor().MinCount.Set {
			t.Fatal("expected the floor set")
		}

		scheduler := &countingScheduler{}
		WithScheduler(scheduler)(e)
		if err := e.CalculateTopSites(context.Background(), true, false); err != nil {
			t.Fatal(err)
		}
		if e.Floor().MinCount.Set {
			t.Error("expected the floor cleared")
		}
		if scheduler.triggers != 1 {
			t.Errorf("expected the request deferred, got %d triggers", scheduler.triggers)
		}
	})
}

// TestEngineRecompute_ReportBookkeeping tests step recording and drop
// accounting in the report.
func TestEngineRecompute_ReportBookkeeping(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	store.addSite("https://good.example/", 10, 100)
	bad := model.SiteRecord{Key: "bad", Location: "::broken::%zz", Count: 5}
	store.sites[bad.Key] = bad

	e := NewEngine(store, store, store, store, WithGridSize(3))

	report, err := e.Recompute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"filter", "rank", "dedupe", "compose"}
	if len(report.PerformedSteps) != len(want) {
		t.Fatalf("expected %d steps, got %v", len(want), report.PerformedSteps)
	}
	for i, w := range want {
		if report.PerformedSteps[i] != w {
			t.Errorf("step %d: got %q, want %q", i, report.PerformedSteps[i], w)
		}
	}
	if report.DroppedLocations != 1 {
		t.Errorf("expected 1 dropped location, got %d", report.DroppedLocations)
	}
}
