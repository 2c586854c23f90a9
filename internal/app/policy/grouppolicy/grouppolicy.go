// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/secretsanta/internal/app/system/authz"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsMember returns true if the user is on the group's roster according to
// the authoritative group_members collection.
func IsMember(ctx context.Context, db *mongo.Database, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := db.Collection("group_members").CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsCreator reports whether the current request user created the group.
func IsCreator(r *http.Request, g models.Group) bool {
	_, _, uid, ok := authz.UserCtx(r)
	return ok && uid == g.CreatedBy
}

// CanDraw reports whether the current user may run the draw. Only the
// creator can, and only once.
func CanDraw(r *http.Request, g models.Group) bool {
	return IsCreator(r, g) && !g.IsMatched
}

// CanEdit reports whether the current user may change the group's details.
// Admins always can; the creator can until the draw has happened.
func CanEdit(r *http.Request, g models.Group) bool {
	if authz.IsAdmin(r) {
		return true
	}
	return IsCreator(r, g) && !g.IsMatched
}

// CanDelete reports whether the current user may delete the group.
func CanDelete(r *http.Request, g models.Group) bool {
	return authz.IsAdmin(r) || IsCreator(r, g)
}
