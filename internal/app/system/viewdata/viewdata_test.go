package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/secretsanta/internal/app/system/auth"
	"github.com/dalemusser/secretsanta/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewBaseVM_SignedOut(t *testing.T) {
	req := httptest.NewRequest("GET", "/groups", nil)

	vm := viewdata.NewBaseVM(req, "Groups", "/")

	if vm.IsLoggedIn || vm.IsAdmin {
		t.Errorf("expected signed-out VM, got %+v", vm)
	}
	if vm.Title != "Groups" || vm.SiteName != viewdata.SiteName {
		t.Errorf("unexpected title/site: %q / %q", vm.Title, vm.SiteName)
	}
	if vm.Success != "" {
		t.Errorf("expected no success message, got %q", vm.Success)
	}
}

func TestNewBaseVM_Admin_WithSuccess(t *testing.T) {
	req := httptest.NewRequest("GET", "/groups/abc?success=joined", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Name: "Elf", Role: "admin"})

	vm := viewdata.NewBaseVM(req, "Group", "/groups")

	if !vm.IsLoggedIn || !vm.IsAdmin || vm.UserName != "Elf" {
		t.Errorf("expected signed-in admin VM, got %+v", vm)
	}
	if vm.Success != "You joined the group." {
		t.Errorf("Success: got %q", vm.Success)
	}
}

func TestNewBaseVM_UnknownSuccessCode(t *testing.T) {
	req := httptest.NewRequest("GET", "/?success=<script>", nil)

	if vm := viewdata.NewBaseVM(req, "", "/"); vm.Success != "" {
		t.Errorf("expected unknown code to be ignored, got %q", vm.Success)
	}
}
