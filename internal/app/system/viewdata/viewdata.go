// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the header and page titles.
const SiteName = "Secret Santa"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsAdmin    bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Success is a one-line confirmation picked from the ?success= code set
	// by the redirect that led here.
	Success string

	// CSRF protection
	CSRFToken string
}

// successMessages maps ?success= codes to messages.
var successMessages = map[string]string{
	"created":  "Group created. You are its first member.",
	"joined":   "You joined the group.",
	"left":     "You left the group.",
	"wishlist": "Wishlist updated.",
	"drawn":    "The draw is done. Everyone can now see who they give to.",
	"updated":  "Group updated.",
	"deleted":  "Group deleted.",
	"status":   "Account status updated.",
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	return BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  signedIn,
		IsAdmin:     signedIn && role == models.RoleAdmin,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		Success:     successMessages[r.URL.Query().Get("success")],
		CSRFToken:   csrf.Token(r),
	}
}
