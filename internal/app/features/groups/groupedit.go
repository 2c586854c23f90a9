// internal/app/features/groups/groupedit.go
package groups

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	"github.com/dalemusser/secretsanta/internal/app/policy/grouppolicy"
	groupstore "github.com/dalemusser/secretsanta/internal/app/store/groups"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeEditGroup renders the Edit Group page.
func (h *Handler) ServeEditGroup(w http.ResponseWriter, r *http.Request) {
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
	if !grouppolicy.CanEdit(r, g) {
		uierrors.RenderForbidden(w, r, "You cannot edit this group.", groupPath(g.ID, ""))
		return
	}
	if g.IsMatched {
		uierrors.RenderConflict(w, r, "The draw for this group has already happened, so its details are final.", groupPath(g.ID, ""))
		return
	}

	templates.Render(w, r, "group_edit", groupFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Edit group", groupPath(g.ID, "")),
		GroupID:     g.ID.Hex(),
		Name:        g.Name,
		Description: g.Description,
		EventDate:   g.EventDate.UTC().Format(dateLayout),
		Budget:      formatBudget(g.BudgetLimitCents),
	})
}

// HandleEditGroup saves the Edit Group form.
func (h *Handler) HandleEditGroup(w http.ResponseWriter, r *http.Request) {
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
	if !grouppolicy.CanEdit(r, g) {
		uierrors.RenderForbidden(w, r, "You cannot edit this group.", groupPath(g.ID, ""))
		return
	}

	data := groupFormData{
		BaseVM:  viewdata.NewBaseVM(r, "Edit group", groupPath(g.ID, "")),
		GroupID: g.ID.Hex(),
	}
	in, msg := readGroupForm(r, &data)
	if msg != "" {
		data.Error = msg
		templates.Render(w, r, "group_edit", data)
		return
	}

	err := h.Groups.UpdateInfo(ctx, g.ID, groupstore.Info{
		Name:             in.Name,
		Description:      in.Description,
		EventDate:        in.EventDate,
		BudgetLimitCents: in.BudgetLimitCents,
	})
	switch {
	case errors.Is(err, groupstore.ErrAlreadyMatched):
		uierrors.RenderConflict(w, r, "The draw for this group has already happened, so its details are final.", groupPath(g.ID, ""))
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		uierrors.RenderNotFound(w, r, "Group not found.", "/groups")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update group failed", err, "Could not save the group.", groupPath(g.ID, ""))
		return
	}

	h.Log.Info("group updated",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", uid.Hex()))

	http.Redirect(w, r, groupPath(g.ID, "updated"), http.StatusSeeOther)
}
