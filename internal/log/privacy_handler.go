package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// locationKeys contains attribute keys whose values are always treated
// as locations, even if they fail to parse as absolute URLs. A value
// under one of these keys that cannot be reduced safely is masked.
var locationKeys = map[string]bool{
	"location": true,
	"url":      true,
	"site":     true,
	"page":     true,
	"referrer": true,
	"bookmark": true,
}

// MaskValue replaces location values that cannot be reduced safely.
const MaskValue = "***ELIDED***"

// PrivacyHandler wraps an slog.Handler to reduce URL-valued attributes
// before they are written. It intercepts log records, rewrites any
// attribute that carries a location, and passes the sanitized record to
// the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because it integrates seamlessly with standard slog APIs and works
// with any underlying handler (text, JSON, etc.), so every package can
// keep logging through plain *slog.Logger values.
type PrivacyHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler
}

// NewPrivacyHandler creates a new PrivacyHandler wrapping the given handler.
// If handler is nil, the returned PrivacyHandler uses slog.Default().Handler().
func NewPrivacyHandler(handler slog.Handler) *PrivacyHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PrivacyHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PrivacyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *PrivacyHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *PrivacyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &PrivacyHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *PrivacyHandler) WithGroup(name string) slog.Handler {
	return &PrivacyHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *PrivacyHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	val := a.Value.String()
	keyLower := strings.ToLower(a.Key)

	if locationKeys[keyLower] {
		return slog.String(a.Key, reduceLocation(val))
	}

	// Values under other keys are reduced only when they are clearly
	// absolute URLs, so ordinary strings pass through untouched.
	if looksLikeURL(val) {
		return slog.String(a.Key, reduceLocation(val))
	}

	return a
}

// looksLikeURL reports whether a value is an absolute http(s) URL.
func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// reduceLocation strips the sensitive parts of a location: userinfo,
// query string, and fragment. Values that cannot be parsed are masked
// rather than passed through, because an unparseable location may still
// embed sensitive text.
func reduceLocation(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return MaskValue
	}

	u.User = nil
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}

// NewPrivacyLogger creates a new slog.Logger with privacy handling.
// The logger reduces location attributes in all log output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewPrivacyLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewPrivacyHandler(textHandler))
}

// NewPrivacyJSONLogger creates a new slog.Logger with privacy handling
// that outputs JSON format. Useful for structured log aggregation.
func NewPrivacyJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewPrivacyHandler(jsonHandler))
}
