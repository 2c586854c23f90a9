// internal/app/features/login/register.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/secretsanta/internal/app/store/users"
	"github.com/dalemusser/secretsanta/internal/app/system/inputval"
	"github.com/dalemusser/secretsanta/internal/app/system/normalize"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

type registerInput struct {
	FullName string `validate:"required,max=100" label:"Name"`
	LoginID  string `validate:"required,min=3,max=64" label:"Login ID"`
	Email    string `validate:"omitempty,email,max=254" label:"Email"`
	Password string `validate:"required,min=8,max=72" label:"Password"`
	Confirm  string `validate:"eqfield=Password" label:"Password confirmation"`
}

type registerFormData struct {
	viewdata.BaseVM
	Error     string
	FullName  string
	LoginID   string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Create an account", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRegisterPost creates a member account and signs it in.
func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	in := registerInput{
		FullName: normalize.Name(r.FormValue("full_name")),
		LoginID:  normalize.LoginID(r.FormValue("login_id")),
		Email:    normalize.Email(r.FormValue("email")),
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm"),
	}
	ret := strings.TrimSpace(r.FormValue("return"))

	data := registerFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Create an account", "/"),
		FullName:  in.FullName,
		LoginID:   in.LoginID,
		Email:     in.Email,
		ReturnURL: ret,
	}

	if res := inputval.Validate(in); res.HasErrors() {
		data.Error = res.All()
		templates.Render(w, r, "register", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName: in.FullName,
		LoginID:  in.LoginID,
		Email:    in.Email,
		Role:     models.RoleMember,
	}, in.Password)
	if errors.Is(err, userstore.ErrDuplicateLoginID) {
		data.Error = "That login ID is taken. Please choose another."
		templates.Render(w, r, "register", data)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create user failed", err, "A server error occurred.", "/register")
		return
	}

	h.createSessionAndRedirect(w, r, &u, ret)
}
