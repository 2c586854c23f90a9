// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	loginstore "github.com/dalemusser/secretsanta/internal/app/store/logins"
	userstore "github.com/dalemusser/secretsanta/internal/app/store/users"
	"github.com/dalemusser/secretsanta/internal/app/system/auth"
	"github.com/dalemusser/secretsanta/internal/app/system/normalize"
	"github.com/dalemusser/secretsanta/internal/app/system/ratelimit"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// defaultDest is where a successful sign-in lands without a return URL.
const defaultDest = "/groups"

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store
	Logins     *loginstore.Store
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Users:      userstore.New(db),
		Logins:     loginstore.New(db),
		Limiter:    limiter,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	LoginID   string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	loginID := normalize.LoginID(r.FormValue("login_id"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if loginID == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your login ID and password.", loginID, ret)
		return
	}

	if ok, msg := h.Limiter.Check(r, loginID); !ok {
		h.Log.Warn("login throttled",
			zap.String("login_id", loginID),
			zap.String("ip", ratelimit.ClientIP(r)))
		w.WriteHeader(http.StatusTooManyRequests)
		h.renderFormWithError(w, r, msg, loginID, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.Log.Info("login failed: unknown login id", zap.String("login_id", loginID))
		h.renderFormWithError(w, r, "Invalid login ID or password.", loginID, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			h.Log.Warn("stored password hash unusable", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		}
		h.Log.Info("login failed: bad password", zap.String("login_id", loginID))
		h.renderFormWithError(w, r, "Invalid login ID or password.", loginID, ret)
		return
	}

	if normalize.Status(u.Status) == models.StatusDisabled {
		h.renderFormWithError(w, r, "Your account is currently disabled. Please contact an administrator.", loginID, ret)
		return
	}

	h.Limiter.Succeeded(loginID)
	h.createSessionAndRedirect(w, r, u, ret)
}

// createSessionAndRedirect creates an authenticated session and redirects to the destination.
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	if _, err := h.SessionMgr.GetSession(r); err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, using fresh session",
				zap.Error(err), zap.String("user_id", u.ID.Hex()))
		} else {
			h.Log.Error("session store error during login, using fresh session",
				zap.Error(err), zap.String("user_id", u.ID.Hex()))
		}
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("login_id", u.LoginID))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", u.LoginID, returnURL)
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	// Sign-in history is informational; a failed write does not block login.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Logins.CreateFrom(ctx, r, u.ID); err != nil {
		h.Log.Warn("record login failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}

	dest := urlutil.SafeReturn(returnURL, "", defaultDest)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, loginID, returnURL string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:     msg,
		LoginID:   loginID,
		ReturnURL: returnURL,
	})
}
