// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// groupRow is one line of a group table.
type groupRow struct {
	ID        string
	Name      string
	EventDate string
	Budget    string
	IsMatched bool
	Completed bool
	IsCreator bool
}

type listData struct {
	viewdata.BaseVM
	Groups []groupRow
}

// toRows maps groups to table rows. viewer may be NilObjectID.
func toRows(gs []models.Group, viewer primitive.ObjectID, now time.Time) []groupRow {
	return lo.Map(gs, func(g models.Group, _ int) groupRow {
		return groupRow{
			ID:        g.ID.Hex(),
			Name:      g.Name,
			EventDate: formatDate(g.EventDate),
			Budget:    formatBudget(g.BudgetLimitCents),
			IsMatched: g.IsMatched,
			Completed: g.Completed(now),
			IsCreator: g.CreatedBy == viewer,
		}
	})
}

// ServeGroupsList shows the groups the current user belongs to.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	gs, err := h.Groups.ListForUser(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing groups", err, "A database error occurred.", "/")
		return
	}

	templates.Render(w, r, "groups_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "My groups", "/"),
		Groups: toRows(gs, uid, time.Now()),
	})
}
