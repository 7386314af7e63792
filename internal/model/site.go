package model

import (
	"encoding/hex"
	"net/url"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// SlotSource identifies where a grid slot's record came from.
type SlotSource string

// Slot provenance values. The composer stamps each placed record so
// report writers can distinguish user pins from ranked and fallback fill.
const (
	// SourceRanked marks a record that earned its slot through ranking.
	SourceRanked SlotSource = "ranked"

	// SourcePinned marks a record fixed to its slot by explicit user action.
	SourcePinned SlotSource = "pinned"

	// SourceCatalog marks a curated default record used to pad a sparse grid.
	SourceCatalog SlotSource = "catalog"
)

// SiteRecord represents one visited location eligible for the new-tab grid.
//
// A record is sourced fresh from the history store on every recomputation,
// annotated during the ranking pass (bookmark flag, slot key, provenance),
// and discarded once the grid has been produced. The ranking core never
// retains records across invocations.
type SiteRecord struct {
	// Key is the stable identity of the site, derived from the canonical
	// location with DeriveKey. It is identical across recomputations.
	Key string `json:"key"`

	// Location is the full URL of the site.
	Location string `json:"location"`

	// Title is the page title, NFC-normalized at ingest.
	Title string `json:"title,omitempty"`

	// Count is the accumulated visit count. Never negative.
	Count int64 `json:"count"`

	// LastAccessed is the most recent visit time in Unix milliseconds.
	// Zero means the access time is unknown.
	LastAccessed int64 `json:"last_accessed"`

	// Bookmarked reports whether the location appears in the bookmark
	// index. Derived at composition time, not stored with the record.
	Bookmarked bool `json:"bookmarked"`

	// SlotKey is the position-derived key assigned by the ranker.
	// It addresses the record within a single ranking pass only and is
	// distinct from Key, which carries identity across passes.
	SlotKey string `json:"slot_key,omitempty"`

	// Source is the slot provenance stamped by the grid composer.
	Source SlotSource `json:"source,omitempty"`
}

// keyLength is the number of key bytes kept from the blake2b digest.
// 16 bytes (32 hex characters) is far beyond collision range for the
// size of a browsing history while keeping keys readable in logs.
const keyLength = 16

// DeriveKey returns the stable identity key for a location.
// The location is canonicalized (trimmed, scheme and host lowercased)
// before hashing so trivially different spellings of the same URL map
// to the same key.
func DeriveKey(location string) string {
	sum := blake2b.Sum256([]byte(CanonicalLocation(location)))
	return hex.EncodeToString(sum[:keyLength])
}

// CanonicalLocation normalizes a location string for key derivation.
// Scheme and host are lowercased; the rest of the URL is preserved
// byte-for-byte because path and query are case-sensitive.
// Unparseable locations are returned trimmed but otherwise untouched.
func CanonicalLocation(location string) string {
	location = strings.TrimSpace(location)
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		return location
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// NormalizeTitle prepares a page title for storage: trims surrounding
// whitespace and applies Unicode NFC so visually identical titles
// compare equal regardless of how the browser composed them.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}
