package topsites

import (
	"context"
	"log/slog"
	"net/url"

	"golang.org/x/net/publicsuffix"

	"github.com/nao1215/topsites/internal/model"
)

// DedupeStep keeps at most one candidate per domain. The ranked order
// decides the winner: the first candidate seen for a domain keeps its
// place, later ones are dropped.
//
// Candidates whose location cannot be parsed are dropped and counted in
// DroppedLocations. Dropping is recoverable by design: the grid is
// still composed from the remaining candidates.
type DedupeStep struct {
	// ByRegistrableDomain collapses subdomains of the same registrable
	// domain (www.example.com, blog.example.com) into one slot instead
	// of deduplicating on exact hostname.
	ByRegistrableDomain bool

	// Logger receives a warning for each dropped location.
	Logger *slog.Logger
}

// Name implements pipeline.Step.
func (s *DedupeStep) Name() string {
	return "dedupe"
}

// Do implements pipeline.Step.
func (s *DedupeStep) Do(_ context.Context, c *model.Computation) error {
	seen := make(map[string]struct{}, len(c.Candidates))
	kept := c.Candidates[:0]

	for _, r := range c.Candidates {
		domain, ok := s.domainOf(r.Location)
		if !ok {
			c.DroppedLocations++
			if s.Logger != nil {
				s.Logger.Warn("dropping unparseable location", "location", r.Location)
			}
			continue
		}
		if _, dup := seen[domain]; dup {
			continue
		}
		seen[domain] = struct{}{}
		kept = append(kept, r)
	}

	c.Candidates = kept
	return nil
}

// domainOf extracts the deduplication key from a location. Locations
// without a host (or that fail to parse) report ok=false.
func (s *DedupeStep) domainOf(location string) (string, bool) {
	u, err := url.Parse(location)
	if err != nil || u.Hostname() == "" {
		return "", false
	}

	host := u.Hostname()
	if s.ByRegistrableDomain {
		// Hosts outside the public suffix list (IPs, single labels,
		// intranet names) fall back to exact-host deduplication.
		if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			return etld, true
		}
	}
	return host, true
}
