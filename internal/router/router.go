// Package router wires the HTTP surface: route tree, auth gates and the
// ambient middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ideahub-dev/ideahub/internal/domain"
	mw "github.com/ideahub-dev/ideahub/internal/middleware"
	"github.com/ideahub-dev/ideahub/internal/middleware/metrics"
	"github.com/ideahub-dev/ideahub/internal/setup"
)

func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	auth := deps.AuthMiddleware

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints, throttled per IP before a user identity exists
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(mw.NewUserRateLimiter(1, 5)))
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
		})
		r.Post("/auth/logout", h.Logout)

		// Read-only endpoints open to any authenticated user
		r.Group(func(r chi.Router) {
			r.Use(auth.NeedAuth())
			r.Use(mw.RateLimit(mw.NewUserRateLimiter(100, 200)))

			r.Get("/me", h.Me)
			r.Get("/closure", h.GetClosure)
			r.Get("/closure/status", h.SubmissionStatus)
			r.Get("/categories", h.ListCategories)

			r.Get("/posts", h.ListPosts)
			r.Get("/posts/{id}", h.GetPost)
			r.Post("/posts/{id}/view", h.ViewPost)
			r.Get("/comments/{id}", h.GetComment)

			// Mutations by the content owner
			r.Post("/posts", h.CreatePost)
			r.Put("/posts/{id}", h.UpdatePost)
			r.Post("/posts/{id}/hide", h.HidePost)
			r.Delete("/posts/{id}", h.DeletePost)
			r.Post("/posts/{id}/reactions", h.ReactToPost)

			r.Post("/posts/{id}/comments", h.CreateComment)
			r.Put("/comments/{id}", h.UpdateComment)
			r.Post("/comments/{id}/hide", h.HideComment)
			r.Delete("/comments/{id}", h.DeleteComment)
		})

		// QA staff see the dashboard
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(domain.RoleQACoordinator, domain.RoleQAManager, domain.RoleAdmin))
			r.Get("/overview", h.Overview)
		})

		// Admin-only management
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.AdminOnly())

			r.Post("/closure", h.CreateClosure)
			r.Put("/closure/{id}", h.UpdateClosure)
			r.Delete("/closure/{id}", h.DeleteClosure)

			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.RenameCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)
			r.Post("/categories/bulk_delete", h.BulkDeleteCategories)

			r.Get("/users", h.ListUsers)
			r.Post("/users/bulk_register", h.BulkRegisterUsers)
			r.Get("/users/{id}", h.GetUser)
			r.Put("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)
			r.Post("/users/bulk_delete", h.BulkDeleteUsers)

			r.Post("/posts/bulk_delete", h.BulkDeletePosts)
		})
	})

	return r
}
