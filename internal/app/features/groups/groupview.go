// internal/app/features/groups/groupview.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	"github.com/dalemusser/secretsanta/internal/app/policy/grouppolicy"
	memberstore "github.com/dalemusser/secretsanta/internal/app/store/members"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type rosterRow struct {
	Name     string
	JoinedAt string
	IsYou    bool
}

type groupViewData struct {
	viewdata.BaseVM

	GroupID     string
	Name        string
	Description string
	EventDate   string
	Budget      string
	CreatorName string
	IsMatched   bool
	Completed   bool
	MatchedAt   string
	MemberCount int

	IsMember  bool
	IsCreator bool
	CanDraw   bool
	CanEdit   bool
	CanDelete bool

	// Populated for members only.
	Roster   []rosterRow
	Wishlist string

	// Populated for members once the draw has happened.
	RecipientName     string
	RecipientWishlist string
}

// ServeGroupView renders a group's detail page. Any signed-in user can see
// the summary and join; the roster and the draw result are for members.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
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

	roster, err := h.Members.ListByGroup(ctx, g.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading roster", err, "A database error occurred.", "/groups")
		return
	}
	mine, isMember := lo.Find(roster, func(m models.GroupMember) bool { return m.UserID == uid })

	userIDs := lo.Uniq(append(lo.Map(roster, func(m models.GroupMember, _ int) primitive.ObjectID { return m.UserID }), g.CreatedBy))
	names, err := h.Users.NamesByIDs(ctx, userIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading member names", err, "A database error occurred.", "/groups")
		return
	}

	now := time.Now()
	data := groupViewData{
		BaseVM:      viewdata.NewBaseVM(r, g.Name, "/groups"),
		GroupID:     g.ID.Hex(),
		Name:        g.Name,
		Description: g.Description,
		EventDate:   formatDate(g.EventDate),
		Budget:      formatBudget(g.BudgetLimitCents),
		CreatorName: names[g.CreatedBy],
		IsMatched:   g.IsMatched,
		Completed:   g.Completed(now),
		MemberCount: len(roster),
		IsMember:    isMember,
		IsCreator:   grouppolicy.IsCreator(r, g),
		CanDraw:     grouppolicy.CanDraw(r, g),
		CanEdit:     grouppolicy.CanEdit(r, g),
		CanDelete:   grouppolicy.CanDelete(r, g),
	}
	if g.MatchedAt != nil {
		data.MatchedAt = formatDate(*g.MatchedAt)
	}

	if isMember || authz.IsAdmin(r) {
		data.Roster = lo.Map(roster, func(m models.GroupMember, _ int) rosterRow {
			return rosterRow{
				Name:     names[m.UserID],
				JoinedAt: formatDate(m.JoinedAt),
				IsYou:    m.UserID == uid,
			}
		})
	}

	if isMember {
		data.Wishlist = mine.Wishlist
		if g.IsMatched {
			rcpt, err := h.Members.RecipientOf(ctx, g.ID, uid)
			switch {
			case errors.Is(err, memberstore.ErrNoRecipient):
				h.Log.Warn("matched group member has no recipient",
					zap.String("group_id", g.ID.Hex()), zap.String("user_id", uid.Hex()))
			case err != nil:
				h.ErrLog.LogServerError(w, r, "database error loading recipient", err, "A database error occurred.", "/groups")
				return
			default:
				data.RecipientName = names[rcpt.UserID]
				data.RecipientWishlist = rcpt.Wishlist
			}
		}
	}

	templates.Render(w, r, "group_view", data)
}
