// internal/app/features/groups/groupnew.go
package groups

import (
	"context"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/txn"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeNewGroup renders the Create Group page.
func (h *Handler) ServeNewGroup(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	templates.Render(w, r, "group_new", groupFormData{
		BaseVM: viewdata.NewBaseVM(r, "New group", "/groups"),
	})
}

// HandleCreateGroup processes the Create Group form. The creator becomes
// the first member in the same transaction as the insert.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups/new")
		return
	}

	data := groupFormData{BaseVM: viewdata.NewBaseVM(r, "New group", "/groups")}
	in, msg := readGroupForm(r, &data)
	if msg != "" {
		data.Error = msg
		templates.Render(w, r, "group_new", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var created models.Group
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		g, err := h.Groups.Create(ctx, models.Group{
			Name:             in.Name,
			Description:      in.Description,
			CreatedBy:        uid,
			EventDate:        in.EventDate,
			BudgetLimitCents: in.BudgetLimitCents,
		})
		if err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
		if _, err := h.Members.Join(ctx, g.ID, uid); err != nil {
			return fmt.Errorf("add creator: %w", err)
		}
		created = g
		return nil
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create group failed", err, "Could not create the group.", "/groups")
		return
	}

	h.Log.Info("group created",
		zap.String("group_id", created.ID.Hex()),
		zap.String("created_by", uid.Hex()))

	http.Redirect(w, r, groupPath(created.ID, "created"), http.StatusSeeOther)
}
