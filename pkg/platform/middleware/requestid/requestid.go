// Package requestid propagates or assigns a correlation ID per request.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

// Header is the request/response header carrying the correlation ID.
const Header = "X-Request-ID"

const maxLen = 128

// Middleware reuses a sane inbound X-Request-ID or generates a new one, stores
// it in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxLen || strings.ContainsAny(id, "\r\n") {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
