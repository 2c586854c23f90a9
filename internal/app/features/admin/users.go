// internal/app/features/admin/users.go
package admin

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/normalize"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type userRow struct {
	ID        string
	FullName  string
	LoginID   string
	Email     string
	Role      string
	Status    string
	IsSelf    bool
	LastLogin string
}

type usersData struct {
	viewdata.BaseVM
	Users []userRow
}

// ServeUsers lists every account with an enable/disable toggle.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	us, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing users", err, "A database error occurred.", "/admin/groups")
		return
	}

	last, err := h.Logins.LastByUsers(ctx, lo.Map(us, func(u models.User, _ int) primitive.ObjectID { return u.ID }))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading sign-in history", err, "A database error occurred.", "/admin/groups")
		return
	}

	data := usersData{BaseVM: viewdata.NewBaseVM(r, "Accounts", "/admin/groups")}
	for _, u := range us {
		lastLogin := "never"
		if t, ok := last[u.ID]; ok {
			lastLogin = t.UTC().Format("2006-01-02 15:04 UTC")
		}
		data.Users = append(data.Users, userRow{
			ID:        u.ID.Hex(),
			FullName:  u.FullName,
			LoginID:   u.LoginID,
			Email:     u.Email,
			Role:      u.Role,
			Status:    u.Status,
			IsSelf:    u.ID == uid,
			LastLogin: lastLogin,
		})
	}

	templates.Render(w, r, "admin_users", data)
}

// HandleSetStatus enables or disables an account. Admins cannot disable
// themselves. A disabled user is signed out on their next request because
// the session middleware re-reads the account.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/users")
		return
	}

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "User not found.", "/admin/users")
		return
	}

	status := normalize.Status(r.FormValue("status"))
	if status != models.StatusActive && status != models.StatusDisabled {
		h.ErrLog.LogBadRequest(w, r, "bad status value", errors.New(status), "Unknown status.", "/admin/users")
		return
	}
	if userID == actor && status == models.StatusDisabled {
		uierrors.RenderConflict(w, r, "You cannot disable your own account.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Users.SetStatus(ctx, userID, status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.RenderNotFound(w, r, "User not found.", "/admin/users")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "set user status failed", err, "Could not update the account.", "/admin/users")
		return
	}

	h.Log.Info("user status changed",
		zap.String("user_id", userID.Hex()),
		zap.String("status", status),
		zap.String("actor_id", actor.Hex()))

	http.Redirect(w, r, "/admin/users?success=status", http.StatusSeeOther)
}
