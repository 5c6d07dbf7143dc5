package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/redact"
)

// NewProxy forwards requests to target, keeping the incoming path and the
// identity headers set by the auth middleware.
func NewProxy(name, target string, logger *slog.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid %s upstream URL: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s upstream URL: scheme and host are required", name)
	}

	log := logger.With(slog.String("upstream", name))
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("upstream request failed",
				slog.String("error", redact.Error(err)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))
			shared.RespondWithError(w, r, http.StatusBadGateway, "Upstream service unavailable")
		},
	}, nil
}
