// internal/app/features/groups/groupdelete.go
package groups

import (
	"context"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	"github.com/dalemusser/secretsanta/internal/app/policy/grouppolicy"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/txn"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// HandleDeleteGroup deletes a group and its roster (creator or admin).
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if !grouppolicy.CanDelete(r, g) {
		uierrors.RenderForbidden(w, r, "You cannot delete this group.", groupPath(g.ID, ""))
		return
	}

	var removed int64
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		n, err := h.Members.DeleteByGroup(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("delete roster: %w", err)
		}
		if _, err := h.Groups.Delete(ctx, g.ID); err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete group failed", err, "Could not delete the group.", groupPath(g.ID, ""))
		return
	}

	h.Log.Info("group deleted",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", uid.Hex()),
		zap.Int64("members_removed", removed))

	dest := urlutil.SafeReturn(r.FormValue("return"), g.ID.Hex(), "/groups?success=deleted")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
