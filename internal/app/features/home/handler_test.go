package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/secretsanta/internal/app/features/home"
	"github.com/dalemusser/secretsanta/internal/testutil"
	"go.uber.org/zap"
)

func TestServeRoot_SignedInRedirectsToGroups(t *testing.T) {
	handler := home.NewHandler(zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/", testutil.MemberUser())
	rec := testutil.NewRecorder()

	handler.ServeRoot(rec, req)

	rec.AssertRedirect(t, "/groups")
}

func TestServeRoot_Unauthenticated(t *testing.T) {
	handler := home.NewHandler(zap.NewNop())

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	// Template rendering may panic in tests without a booted engine.
	func() {
		defer func() { _ = recover() }()
		handler.ServeRoot(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("visitors should not be redirected")
	}
}
