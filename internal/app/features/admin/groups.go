// internal/app/features/admin/groups.go
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type groupRow struct {
	ID          string
	Name        string
	CreatorName string
	EventDate   string
	Members     int64
	IsMatched   bool
	Completed   bool
}

type groupsData struct {
	viewdata.BaseVM
	Groups    []groupRow
	Matched   int
	Completed int
}

// ServeGroups lists every group with its matched and completed flags.
func (h *Handler) ServeGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gs, err := h.Groups.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing groups", err, "A database error occurred.", "/")
		return
	}

	creators := lo.Uniq(lo.Map(gs, func(g models.Group, _ int) primitive.ObjectID { return g.CreatedBy }))
	names, err := h.Users.NamesByIDs(ctx, creators)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading creator names", err, "A database error occurred.", "/")
		return
	}

	now := time.Now()
	data := groupsData{BaseVM: viewdata.NewBaseVM(r, "All groups", "/")}
	for _, g := range gs {
		n, err := h.Members.CountByGroup(ctx, g.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "database error counting members", err, "A database error occurred.", "/")
			return
		}
		row := groupRow{
			ID:          g.ID.Hex(),
			Name:        g.Name,
			CreatorName: names[g.CreatedBy],
			EventDate:   g.EventDate.UTC().Format("2006-01-02"),
			Members:     n,
			IsMatched:   g.IsMatched,
			Completed:   g.Completed(now),
		}
		if row.IsMatched {
			data.Matched++
		}
		if row.Completed {
			data.Completed++
		}
		data.Groups = append(data.Groups, row)
	}

	templates.Render(w, r, "admin_groups", data)
}
