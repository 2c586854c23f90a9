// internal/app/features/groups/groupdraw.go
package groups

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	"github.com/dalemusser/secretsanta/internal/app/policy/grouppolicy"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/draw"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type drawData struct {
	viewdata.BaseVM
	GroupID     string
	GroupName   string
	MemberCount int64
	Error       string
}

// ServeDraw renders the confirmation page for the draw.
func (h *Handler) ServeDraw(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if !h.checkCanDraw(w, r, g) {
		return
	}

	h.renderDraw(ctx, w, r, g, "")
}

// renderDraw shows the confirmation page with the current roster size.
func (h *Handler) renderDraw(ctx context.Context, w http.ResponseWriter, r *http.Request, g models.Group, errMsg string) {
	n, err := h.Members.CountByGroup(ctx, g.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error counting members", err, "A database error occurred.", groupPath(g.ID, ""))
		return
	}

	templates.Render(w, r, "group_draw", drawData{
		BaseVM:      viewdata.NewBaseVM(r, "Run the draw", groupPath(g.ID, "")),
		GroupID:     g.ID.Hex(),
		GroupName:   g.Name,
		MemberCount: n,
		Error:       errMsg,
	})
}

// HandleDraw runs the draw once the creator has ticked the confirmation box.
func (h *Handler) HandleDraw(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if !h.checkCanDraw(w, r, g) {
		return
	}

	if r.FormValue("confirm") == "" {
		h.renderDraw(ctx, w, r, g, "Please confirm the draw. This action cannot be undone.")
		return
	}

	_, err := h.Draws.Run(ctx, g.ID, uid)
	switch {
	case err == nil:
		http.Redirect(w, r, groupPath(g.ID, "drawn"), http.StatusSeeOther)
	case errors.Is(err, draw.ErrTooFewMembers):
		uierrors.RenderConflict(w, r, "A draw needs at least two members.", groupPath(g.ID, ""))
	case errors.Is(err, draw.ErrAlreadyMatched):
		uierrors.RenderConflict(w, r, "The draw for this group has already happened.", groupPath(g.ID, ""))
	case errors.Is(err, draw.ErrNotCreator):
		uierrors.RenderForbidden(w, r, "Only the group creator can run the draw.", groupPath(g.ID, ""))
	case errors.Is(err, draw.ErrGroupNotFound):
		uierrors.RenderNotFound(w, r, "Group not found.", "/groups")
	default:
		h.ErrLog.LogServerError(w, r, "draw failed", err, "The draw could not be completed. Nothing was changed.", groupPath(g.ID, ""))
	}
}

// checkCanDraw renders the refusal and returns false when the current user
// may not run the draw for g.
func (h *Handler) checkCanDraw(w http.ResponseWriter, r *http.Request, g models.Group) bool {
	if !grouppolicy.IsCreator(r, g) {
		uierrors.RenderForbidden(w, r, "Only the group creator can run the draw.", groupPath(g.ID, ""))
		return false
	}
	if g.IsMatched {
		uierrors.RenderConflict(w, r, "The draw for this group has already happened.", groupPath(g.ID, ""))
		return false
	}
	return true
}
