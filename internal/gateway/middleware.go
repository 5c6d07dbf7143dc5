package gateway

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/redact"
)

// clientKey identifies who a request counts against: the verified user when
// the auth middleware ran first, the client address otherwise.
func clientKey(r *http.Request) string {
	if id := r.Header.Get(shared.HeaderUserID); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimit rejects requests over the limiter's budget with 429. Limiter
// failures let the request through.
func RateLimit(limiter Limiter, base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContextOrDefault(r.Context(), base)

			result, err := limiter.Allow(r.Context(), clientKey(r))
			if err != nil {
				log.Warn("rate limiter unavailable, allowing request",
					slog.String("error", redact.Error(err)))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(result.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter), nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
