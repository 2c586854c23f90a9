// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/secretsanta/internal/app/system/auth"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin pages (typically at "/admin" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/groups", h.ServeGroups)
		pr.Get("/users", h.ServeUsers)
		pr.Post("/users/{id}/status", h.HandleSetStatus)
	})

	return r
}
