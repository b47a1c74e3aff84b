// Package router sets up all HTTP routes and middleware chains for the
// Tavola API. Routes are split into public site data, admin login, and
// the session-protected admin editors.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tavola/internal/handlers"
	"tavola/internal/middleware"
	"tavola/internal/session"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Public *handlers.Public
	Admin  *handlers.Admin
	Auth   *handlers.Auth
}

// New creates the configured Chi router. limiter guards the login route.
func New(sessions *session.Manager, limiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Upstream proxies answer both verbs; the storefront uses POST.
		r.Get("/client", h.Public.Client)
		r.Post("/client", h.Public.Client)
		r.Get("/menu", h.Public.Menu)
		r.Post("/menu", h.Public.Menu)
		r.Get("/categories", h.Public.Categories)
		r.Post("/categories", h.Public.Categories)

		r.Get("/theme", h.Public.Theme)
		r.Get("/layout", h.Public.Layout)
		r.Get("/site", h.Public.Site)

		r.Route("/admin", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			// The playlist is read by the public hero section.
			r.Get("/video", h.Public.Videos)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/session", h.Auth.Session)
				r.Get("/totp.png", h.Auth.TOTPQRCode)

				r.Get("/layout", h.Admin.LayoutGet)
				r.Post("/layout", h.Admin.LayoutPost)
				r.Get("/theme", h.Admin.ThemeGet)
				r.Post("/theme", h.Admin.ThemePost)
				r.Post("/video", h.Admin.VideoSave)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
