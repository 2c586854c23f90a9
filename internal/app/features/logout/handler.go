// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/secretsanta/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles GET /logout: it expires the session cookie and sends
// the browser to the landing page.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}

	decodeErr, saveErr := h.SessionMgr.SignOut(w, r)
	if decodeErr != nil {
		h.Log.Warn("session decode failed during logout", zap.Error(decodeErr))
	}
	if saveErr != nil {
		h.Log.Error("logout: save session", zap.Error(saveErr))
	}
	if userID != "" {
		h.Log.Info("user signed out", zap.String("user_id", userID))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
