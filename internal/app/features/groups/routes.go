// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/secretsanta/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST
		pr.Get("/", h.ServeGroupsList)

		// CREATE
		pr.Get("/new", h.ServeNewGroup)
		pr.Post("/", h.HandleCreateGroup)

		// VIEW
		pr.Get("/{id}", h.ServeGroupView)

		// EDIT
		pr.Get("/{id}/edit", h.ServeEditGroup)
		pr.Post("/{id}/edit", h.HandleEditGroup)

		// DELETE
		pr.Post("/{id}/delete", h.HandleDeleteGroup)

		// MEMBERSHIP
		pr.Post("/{id}/join", h.HandleJoin)
		pr.Post("/{id}/leave", h.HandleLeave)

		// WISHLIST
		pr.Get("/{id}/wishlist", h.ServeWishlist)
		pr.Post("/{id}/wishlist", h.HandleWishlist)

		// DRAW
		pr.Get("/{id}/draw", h.ServeDraw)
		pr.Post("/{id}/draw", h.HandleDraw)
	})

	return r
}
