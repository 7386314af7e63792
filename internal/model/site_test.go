package model

import (
	"strings"
	"testing"
)

// TestDeriveKey tests stable key derivation.
func TestDeriveKey(t *testing.T) {
	t.Parallel()

	t.Run("is stable across calls", func(t *testing.T) {
		t.Parallel()

		a := DeriveKey("https://example.com/news")
		b := DeriveKey("https://example.com/news")
		if a != b {
			t.Errorf("expected identical keys, got %q and %q", a, b)
		}
	})

	t.Run("normalizes scheme and host case", func(t *testing.T) {
		t.Parallel()

		a := DeriveKey("HTTPS://Example.COM/news")
		b := DeriveKey("https://example.com/news")
		if a != b {
			t.Errorf("expected identical keys after canonicalization, got %q and %q", a, b)
		}
	})

	t.Run("preserves path case", func(t *testing.T) {
		t.Parallel()

		a := DeriveKey("https://example.com/News")
		b := DeriveKey("https://example.com/news")
		if a == b {
			t.Error("expected different keys for different paths")
		}
	})

	t.Run("returns fixed-length hex", func(t *testing.T) {
		t.Parallel()

		key := DeriveKey("https://example.com")
		if len(key) != keyLength*2 {
			t.Errorf("expected %d hex characters, got %d", keyLength*2, len(key))
		}
		for _, r := range key {
			if !strings.ContainsRune("0123456789abcdef", r) {
				t.Fatalf("unexpected character %q in key %q", r, key)
			}
		}
	})

	t.Run("handles unparseable locations", func(t *testing.T) {
		t.Parallel()

		key := DeriveKey("  ://not a url  ")
		if key == "" {
			t.Error("expected a key even for unparseable input")
		}
	})
}

// TestCanonicalLocation tests location canonicalization.
func TestCanonicalLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTP://WWW.Example.org/A/b", "http://www.example.org/A/b"},
		{"trims whitespace", "  https://example.com  ", "https://example.com"},
		{"keeps query untouched", "https://example.com/s?Q=AbC", "https://example.com/s?Q=AbC"},
		{"passes schemeless strings through", "example.com/path", "example.com/path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CanonicalLocation(tt.in); got != tt.want {
				t.Errorf("CanonicalLocation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalizeTitle tests title normalization.
func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	t.Run("trims whitespace", func(t *testing.T) {
		t.Parallel()

		if got := NormalizeTitle("  Example News  "); got != "Example News" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("composes decomposed characters", func(t *testing.T) {
		t.Parallel()

		// "é" as 'e' + combining acute accent vs the precomposed rune.
		decomposed := "Cafe\u0301"
		composed := "Caf\u00e9"
		if got := NormalizeTitle(decomposed); got != composed {
			t.Errorf("expected NFC form %q, got %q", composed, got)
		}
	})

	t.Run("empty stays empty", func(t *testing.T) {
		t.Parallel()

		if got := NormalizeTitle("   "); got != "" {
			t.Errorf("expected empty title, got %q", got)
		}
	})
}
