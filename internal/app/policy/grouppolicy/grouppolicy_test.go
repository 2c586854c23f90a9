package grouppolicy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/secretsanta/internal/app/policy/grouppolicy"
	"github.com/dalemusser/secretsanta/internal/app/system/auth"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestAs(id primitive.ObjectID, role string) *http.Request {
	req := httptest.NewRequest("GET", "/groups", nil)
	return auth.WithTestUser(req, &auth.SessionUser{ID: id.Hex(), Name: "Test", Role: role})
}

func TestGroupPolicy(t *testing.T) {
	creator := primitive.NewObjectID()
	other := primitive.NewObjectID()
	open := models.Group{ID: primitive.NewObjectID(), CreatedBy: creator}
	matched := models.Group{ID: primitive.NewObjectID(), CreatedBy: creator, IsMatched: true}

	tests := []struct {
		name       string
		req        *http.Request
		group      models.Group
		wantDraw   bool
		wantEdit   bool
		wantDelete bool
	}{
		{"creator, open", requestAs(creator, "member"), open, true, true, true},
		{"creator, matched", requestAs(creator, "member"), matched, false, false, true},
		{"other member, open", requestAs(other, "member"), open, false, false, false},
		{"admin, open", requestAs(other, "admin"), open, false, true, true},
		{"admin, matched", requestAs(other, "admin"), matched, false, true, true},
		{"signed out", httptest.NewRequest("GET", "/groups", nil), open, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanDraw(tt.req, tt.group); got != tt.wantDraw {
				t.Errorf("CanDraw = %v, want %v", got, tt.wantDraw)
			}
			if got := grouppolicy.CanEdit(tt.req, tt.group); got != tt.wantEdit {
				t.Errorf("CanEdit = %v, want %v", got, tt.wantEdit)
			}
			if got := grouppolicy.CanDelete(tt.req, tt.group); got != tt.wantDelete {
				t.Errorf("CanDelete = %v, want %v", got, tt.wantDelete)
			}
		})
	}
}
