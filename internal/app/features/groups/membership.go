// internal/app/features/groups/membership.go
package groups

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	memberstore "github.com/dalemusser/secretsanta/internal/app/store/members"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/join                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleJoin adds the current user to the group. Joining twice is a no-op.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
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

	_, err := h.Members.Join(ctx, g.ID, uid)
	switch {
	case errors.Is(err, memberstore.ErrAlreadyMember):
		http.Redirect(w, r, groupPath(g.ID, ""), http.StatusSeeOther)
		return
	case errors.Is(err, memberstore.ErrGroupMatched):
		uierrors.RenderConflict(w, r, "The draw for this group has already happened, so it cannot take new members.", groupPath(g.ID, ""))
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "join group failed", err, "Could not join the group.", groupPath(g.ID, ""))
		return
	}

	h.Log.Info("member joined group",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", uid.Hex()))

	http.Redirect(w, r, groupPath(g.ID, "joined"), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/leave                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleLeave removes the current user from the group. The creator cannot
// leave their own group, and nobody can leave once the draw has happened.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
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
	if g.CreatedBy == uid {
		uierrors.RenderConflict(w, r, "The creator cannot leave the group. Delete it instead.", groupPath(g.ID, ""))
		return
	}

	err := h.Members.Leave(ctx, g.ID, uid)
	switch {
	case errors.Is(err, memberstore.ErrNotMember):
		http.Redirect(w, r, "/groups", http.StatusSeeOther)
		return
	case errors.Is(err, memberstore.ErrGroupMatched):
		uierrors.RenderConflict(w, r, "The draw for this group has already happened, so you cannot leave.", groupPath(g.ID, ""))
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "leave group failed", err, "Could not leave the group.", groupPath(g.ID, ""))
		return
	}

	h.Log.Info("member left group",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", uid.Hex()))

	http.Redirect(w, r, "/groups?success=left", http.StatusSeeOther)
}
