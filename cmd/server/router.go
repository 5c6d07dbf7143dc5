package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/buyone/internal/api"
	apiMiddleware "github.com/phrazzld/buyone/internal/api/middleware"
)

// newServiceRouter returns the base router shared by the product, user and
// media services. Requests arrive through the gateway, so identity comes from
// the X-USER-* headers it sets.
func newServiceRouter(logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))
	r.Use(apiMiddleware.Identity)

	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.MethodNotAllowedHandler)

	r.Get("/health", healthHandler)
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func newProductRouter(products *api.ProductHandler, categories *api.CategoryHandler, logger *slog.Logger) http.Handler {
	r := newServiceRouter(logger)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.Get("/{id}", products.Get)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireIdentity)
			r.Post("/", products.Create)
			r.Put("/{id}", products.Update)
			r.Delete("/{id}", products.Delete)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categories.List)
		r.Get("/{id}", categories.Get)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireIdentity)
			r.Post("/", categories.Create)
			r.Put("/{id}", categories.Update)
			r.Delete("/{id}", categories.Delete)
		})
	})

	return r
}

func newUserRouter(users *api.UserHandler, authHandler *api.AuthHandler, logger *slog.Logger) http.Handler {
	r := newServiceRouter(logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Get("/sellers", users.Sellers)
		r.Get("/clients", users.Clients)
		r.Get("/{id}", users.Get)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireIdentity)
			r.Get("/me", users.Me)
			r.Put("/me", users.UpdateMe)
			r.Put("/{id}", users.Update)
			r.Delete("/{id}", users.Delete)
		})
	})

	return r
}

func newMediaRouter(media *api.MediaHandler, logger *slog.Logger) http.Handler {
	r := newServiceRouter(logger)

	r.Route("/media", func(r chi.Router) {
		r.Get("/images/product/{productId}", media.ListByProduct)
		r.Get("/images/{mediaId}", media.Get)
		r.Get("/files/*", media.File)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireIdentity)
			r.Post("/images", media.Upload)
			r.Put("/images/{mediaId}", media.Update)
			r.Delete("/images/{mediaId}", media.Delete)
		})
	})

	return r
}
