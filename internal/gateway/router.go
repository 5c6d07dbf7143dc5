package gateway

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/buyone/internal/api"
	apiMiddleware "github.com/phrazzld/buyone/internal/api/middleware"
	"github.com/phrazzld/buyone/internal/service/auth"
)

// Upstreams holds the base URL of each service behind the gateway.
type Upstreams struct {
	Product string
	User    string
	Media   string
}

// publicReadPrefixes are the route prefixes any caller may GET without a token.
var publicReadPrefixes = []string{"/products", "/categories", "/media"}

// IsPublic reports whether a request may pass without a bearer token:
// POST /auth/* and every GET on products, categories and media.
func IsPublic(r *http.Request) bool {
	path := r.URL.Path
	switch r.Method {
	case http.MethodPost:
		return strings.HasPrefix(path, "/auth/")
	case http.MethodGet, http.MethodHead:
		for _, prefix := range publicReadPrefixes {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
		}
	}
	return false
}

// NewRouter builds the gateway handler. limiter may be nil to disable rate limiting.
func NewRouter(upstreams Upstreams, jwtService auth.JWTService, limiter Limiter, logger *slog.Logger) (http.Handler, error) {
	productProxy, err := NewProxy("product", upstreams.Product, logger)
	if err != nil {
		return nil, err
	}
	userProxy, err := NewProxy("user", upstreams.User, logger)
	if err != nil {
		return nil, err
	}
	mediaProxy, err := NewProxy("media", upstreams.Media, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))

	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.MethodNotAllowedHandler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	authMiddleware := apiMiddleware.NewAuthMiddleware(jwtService, IsPublic)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		if limiter != nil {
			r.Use(RateLimit(limiter, logger))
		}

		r.Mount("/products", productProxy)
		r.Mount("/categories", productProxy)
		r.Mount("/api/users", userProxy)
		r.Mount("/auth", userProxy)
		r.Mount("/media", mediaProxy)
	})

	return r, nil
}
