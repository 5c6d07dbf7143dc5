package middleware

import (
	"net/http"
	"strings"

	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
)

// Identity reads the gateway's identity headers into the request context.
// Requests without them continue anonymously; handlers decide whether that is allowed.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(shared.HeaderUserID))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		caller := domain.Caller{
			ID:    id,
			Role:  domain.Role(strings.ToUpper(strings.TrimSpace(r.Header.Get(shared.HeaderUserRole)))),
			Email: strings.TrimSpace(r.Header.Get(shared.HeaderUserEmail)),
		}
		next.ServeHTTP(w, r.WithContext(shared.WithCaller(r.Context(), caller)))
	})
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.GetCaller(r.Context()); !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Missing user identity")
			return
		}
		next.ServeHTTP(w, r)
	})
}
