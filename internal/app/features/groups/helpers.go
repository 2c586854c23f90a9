// internal/app/features/groups/helpers.go
package groups

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/secretsanta/internal/app/features/errors"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// dateLayout is the wire format of <input type="date">.
const dateLayout = "2006-01-02"

// maxBudget caps the budget limit, in dollars.
const maxBudget = 1_000_000

// groupPath returns the detail URL of a group, with an optional success code.
func groupPath(id primitive.ObjectID, success string) string {
	p := "/groups/" + id.Hex()
	if success != "" {
		p += "?success=" + success
	}
	return p
}

// loadGroup resolves the {id} URL param and loads the group. On failure it
// has already written the response and returns ok=false.
func (h *Handler) loadGroup(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Group not found.", "/groups")
		return models.Group{}, false
	}

	g, err := h.Groups.GetByID(ctx, gid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.RenderNotFound(w, r, "Group not found.", "/groups")
		return models.Group{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading group", err, "A database error occurred.", httpnav.ResolveBackURL(r, "/groups"))
		return models.Group{}, false
	}
	return g, true
}

// parseEventDate parses a YYYY-MM-DD date as midnight UTC. A non-empty msg
// is the problem to show the user.
func parseEventDate(s string) (t time.Time, msg string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, "Event date is required."
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, "Event date must be a valid date."
	}
	return t, ""
}

// parseBudget turns a dollar amount such as "25" or "25.50" into cents.
// An empty string means no limit.
func parseBudget(s string) (cents *int64, msg string) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return nil, ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, "Budget limit must be a number."
	}
	if f < 0 {
		return nil, "Budget limit cannot be negative."
	}
	if f > maxBudget {
		return nil, "Budget limit is too large."
	}
	c := int64(math.Round(f * 100))
	return &c, ""
}

// formatBudget renders cents as a dollar amount, or "" for no limit.
func formatBudget(cents *int64) string {
	if cents == nil {
		return ""
	}
	return fmt.Sprintf("%d.%02d", *cents/100, *cents%100)
}

// formatDate renders an event date for display.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Mon, Jan 2, 2006")
}
