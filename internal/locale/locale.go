// Package locale carries the request language used to resolve localized names.
package locale

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// Default is used when a request names no language.
const Default = "en"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyLanguage contextKey = "language"

// WithLanguage returns a copy of ctx carrying lang.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLanguage, lang)
}

// FromContext returns the language stored in ctx, or Default.
func FromContext(ctx context.Context) string {
	if lang, ok := Lookup(ctx); ok {
		return lang
	}
	return Default
}

// Lookup returns the language stored in ctx, if any.
func Lookup(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(contextKeyLanguage).(string)
	return lang, ok && lang != ""
}

// FromHeader picks the language from an Accept-Language header value.
// The first listed tag wins regardless of quality weights, lowercased, and
// reduced to its base language ("ru-RU" becomes "ru").
func FromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return Default
	}

	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	first = strings.TrimSpace(first)
	if first == "" || first == "*" {
		return Default
	}

	tag, err := language.Parse(first)
	if err != nil {
		// Keep unparseable tags verbatim; lookups fall back to Default.
		return strings.ToLower(first)
	}

	base, _ := tag.Base()
	return strings.ToLower(base.String())
}
