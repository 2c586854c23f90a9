// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
)

func newPage(r *http.Request, title, msg, backURL string) pageData {
	role, name, _, signed := authz.UserCtx(r)
	return pageData{
		Title:      title,
		SiteName:   viewdata.SiteName,
		IsLoggedIn: signed,
		IsAdmin:    signed && role == models.RoleAdmin,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Render(w, r, name, data)
}

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "error_forbidden",
		newPage(r, "Sign in required", "Please sign in to continue.", backURL))
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	render(w, r, http.StatusForbidden, "error_forbidden",
		newPage(r, "Access denied", msg, backURL))
}

// RenderNotFound shows a 404 page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	render(w, r, http.StatusNotFound, "error_notfound",
		newPage(r, "Not found", msg, backURL))
}

// RenderConflict shows a page for requests that clash with the current
// state, such as joining a group whose draw has happened.
func RenderConflict(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	render(w, r, http.StatusConflict, "error_forbidden",
		newPage(r, "Not possible right now", msg, backURL))
}
