package messages

import (
	"net/http"

	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

// Middleware negotiates the message locale from Accept-Language and stores it
// on the request context.
func Middleware(b *Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			catalog := b.Negotiate(r.Header.Get("Accept-Language"))
			locale := catalog.Locale().String()
			w.Header().Set("Content-Language", locale)
			ctx := requestcontext.WithLocale(r.Context(), locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
