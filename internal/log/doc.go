// Package log provides privacy-preserving logging for topsites, built on
// top of the standard slog package.
//
// Browsing history is sensitive by nature: a full URL can carry search
// terms, session tokens, and account identifiers in its query string or
// fragment. The PrivacyHandler wraps any slog.Handler and reduces
// URL-valued attributes to scheme://host/path before they reach the
// sink, and drops userinfo entirely. Even in verbose mode, debug logs
// therefore never reproduce a complete browsing trail.
//
// # Usage
//
//	logger := log.NewPrivacyLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("dropping record",
//	    "location", "https://user:pw@example.com/search?q=secret#frag",
//	    // logged as "https://example.com/search"
//	)
//
//	slog.SetDefault(logger)
package log
