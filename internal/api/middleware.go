package api

import (
	"net/http"

	"github.com/listenupapp/readlog-server/internal/locale"
)

// withLanguage stores the request language from Accept-Language in the
// request context. Localized genre names are resolved from it.
func withLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := locale.FromHeader(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(locale.WithLanguage(r.Context(), lang)))
	})
}
