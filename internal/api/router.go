package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/service"
)

// NewRouter creates a chi router with all API routes, to be mounted at /api.
// sseHandler, if non-nil, is mounted at GET /events behind authentication.
func NewRouter(svc *service.Service, authn Authenticator, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, authn)

	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authn))

		r.Get("/me", h.Me)
		r.Get("/schema", h.Schema)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}

		r.With(RequireView(models.ViewDashboard)).Get("/dashboard", h.Dashboard)
		r.With(RequireView(models.ViewDashboard)).Get("/export", h.Export)

		r.Route("/records", func(r chi.Router) {
			r.Use(RequireView(models.ViewData))
			r.Get("/", h.ListRecords)
			r.Post("/", h.CreateRecord)
			r.Get("/{id}", h.GetRecord)
			r.Put("/{id}", h.UpdateRecord)
			r.Delete("/{id}", h.DeleteRecord)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(RequireView(models.ViewTask))
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Patch("/{id}", h.MoveTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(RequireView(models.ViewManagement))
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Patch("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})
	})

	return r
}
