// internal/app/features/groups/wishlist.go
package groups

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	memberstore "github.com/dalemusser/secretsanta/internal/app/store/members"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/htmlsanitize"
	"github.com/dalemusser/secretsanta/internal/app/system/inputval"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

type wishlistInput struct {
	Wishlist string `validate:"max=4000" label:"Wishlist"`
}

type wishlistData struct {
	viewdata.BaseVM
	GroupID   string
	GroupName string
	Wishlist  string
	Error     string
}

// ServeWishlist renders the wishlist form for the current member.
func (h *Handler) ServeWishlist(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}

	m, err := h.Members.Get(ctx, g.ID, uid)
	if errors.Is(err, memberstore.ErrNotMember) {
		uierrors.RenderForbidden(w, r, "Join the group to write a wishlist.", groupPath(g.ID, ""))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading membership", err, "A database error occurred.", groupPath(g.ID, ""))
		return
	}

	templates.Render(w, r, "group_wishlist", wishlistData{
		BaseVM:    viewdata.NewBaseVM(r, "My wishlist", groupPath(g.ID, "")),
		GroupID:   g.ID.Hex(),
		GroupName: g.Name,
		Wishlist:  m.Wishlist,
	})
}

// HandleWishlist saves the current member's wishlist. Markup is stripped.
func (h *Handler) HandleWishlist(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}

	wish := htmlsanitize.PlainText(r.FormValue("wishlist"))
	if res := inputval.Validate(wishlistInput{Wishlist: wish}); res.HasErrors() {
		templates.Render(w, r, "group_wishlist", wishlistData{
			BaseVM:    viewdata.NewBaseVM(r, "My wishlist", groupPath(g.ID, "")),
			GroupID:   g.ID.Hex(),
			GroupName: g.Name,
			Wishlist:  wish,
			Error:     res.First(),
		})
		return
	}

	err := h.Members.UpdateWishlist(ctx, g.ID, uid, wish)
	if errors.Is(err, memberstore.ErrNotMember) {
		uierrors.RenderForbidden(w, r, "Join the group to write a wishlist.", groupPath(g.ID, ""))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update wishlist failed", err, "Could not save your wishlist.", groupPath(g.ID, ""))
		return
	}

	http.Redirect(w, r, groupPath(g.ID, "wishlist"), http.StatusSeeOther)
}
