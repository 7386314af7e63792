package topsites

import (
	"context"
	"testing"

	"github.com/nao1215/topsites/internal/model"
)

// runDedupe executes a DedupeStep over candidates and returns the
// computation.
func runDedupe(t *testing.T, step *DedupeStep, candidates []model.SiteRecord) *model.Computation {
	t.Helper()

	c := model.NewComputation(nil, nil, nil, nil, 18, model.Watermarks{})
	c.Candidates = candidates
	if err := step.Do(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

// TestDedupeStep_FirstWinsPerHostname tests rank-order tie-breaking
// within a hostname.
func TestDedupeStep_FirstWinsPerHostname(t *testing.T) {
	t.Parallel()

	c := runDedupe(t, &DedupeStep{}, []model.SiteRecord{
		site("https://example.com/top", 50, 900),
		site("https://example.com/second", 30, 800),
		site("https://other.example/page", 20, 700),
	})

	if len(c.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(c.Candidates))
	}
	if c.Candidates[0].Location != "https://example.com/top" {
		t.Errorf("expected the higher-ranked page to win, got %q", c.Candidates[0].Location)
	}
	if c.Candidates[1].Location != "https://other.example/page" {
		t.Errorf("expected the other host kept, got %q", c.Candidates[1].Location)
	}
}

// TestDedupeStep_SubdomainsAreDistinctHostnames tests the default exact
// hostname mode.
func TestDedupeStep_SubdomainsAreDistinctHostnames(t *testing.T) {
	t.Parallel()

	c := runDedupe(t, &DedupeStep{}, []model.SiteRecord{
		site("https://www.example.com/", 50, 900),
		site("https://blog.example.com/", 30, 800),
	})

	if len(c.Candidates) != 2 {
		t.Errorf("expected subdomains to survive hostname mode, got %d candidates", len(c.Candidates))
	}
}

// TestDedupeStep_RegistrableDomainMode tests subdomain collapsing.
func TestDedupeStep_RegistrableDomainMode(t *testing.T) {
	t.Parallel()

	c := runDedupe(t, &DedupeStep{ByRegistrableDomain: true}, []model.SiteRecord{
		site("https://www.example.com/", 50, 900),
		site("https://blog.example.com/", 30, 800),
		site("https://example.org/", 20, 700),
	})

	if len(c.Candidates) != 2 {
		t.Fatalf("expected example.com collapsed, got %d candidates", len(c.Candidates))
	}
	if c.Candidates[0].Location != "https://www.example.com/" {
		t.Errorf("expected the higher-ranked subdomain to win, got %q", c.Candidates[0].Location)
	}
}

// TestDedupeStep_RegistrableDomainFallsBackToHost tests hosts outside
// the public suffix list.
func TestDedupeStep_RegistrableDomainFallsBackToHost(t *testing.T) {
	t.Parallel()

	c := runDedupe(t, &DedupeStep{ByRegistrableDomain: true}, []model.SiteRecord{
		site("http://intranet/wiki", 50, 900),
		site("http://intranet/tools", 30, 800),
		site("http://192.168.1.10/admin", 20, 700),
	})

	if len(c.Candidates) != 2 {
		t.Fatalf("expected intranet collapsed and the IP kept, got %d candidates", len(c.Candidates))
	}
}

// TestDedupeStep_DropsUnparseableLocations tests recoverable drop
// accounting.
func TestDedupeStep_DropsUnparseableLocations(t *testing.T) {
	t.Parallel()

	c := runDedupe(t, &DedupeStep{}, []model.SiteRecord{
		site("https://good.example/", 50, 900),
		{Key: "bad1", Location: "::not a url::%zz", Count: 40},
		{Key: "bad2", Location: "no-host-here", Count: 30},
	})

	if len(c.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(c.Candidates))
	}
	if c.DroppedLocations != 2 {
		t.Errorf("expected 2 dropped locations, got %d", c.DroppedLocations)
	}
	if c.Candidates[0].Location != "https://good.example/" {
		t.Errorf("wrong survivor: %q", c.Candidates[0].Location)
	}
}

// TestDedupeStep_EmptyInput tests the no-candidate case.
func TestDedupeStep_EmptyInput(t *testing.T) {
	t.Parallel()

	c := runDedupe(t, &DedupeStep{}, nil)

	if len(c.Candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(c.Candidates))
	}
	if c.DroppedLocations != 0 {
		t.Errorf("expected no drops, got %d", c.DroppedLocations)
	}
}
