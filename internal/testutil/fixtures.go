package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "correct horse battery"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that read chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user whose password is TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, loginID, role string) models.User {
	f.t.Helper()

	// MinCost keeps fixture setup fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		LoginID:      loginID,
		LoginIDCI:    text.Fold(loginID),
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateMember creates a user with the member role.
func (f *Fixtures) CreateMember(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, models.RoleMember)
}

// CreateAdmin creates a user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, models.RoleAdmin)
}

// CreateGroup inserts an unmatched group owned by creator with an event date
// thirty days out. The creator is not added to the roster; use AddMember.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, creator primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedBy: creator,
		EventDate: now.AddDate(0, 0, 30).Truncate(24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// AddMember adds user to group. Each call gets a later joined_at than the
// previous one so roster order follows call order.
func (f *Fixtures) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) models.GroupMember {
	f.t.Helper()

	n, err := f.db.Collection("group_members").CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		f.t.Fatalf("failed to count group members: %v", err)
	}

	m := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now().UTC().Truncate(time.Millisecond).Add(time.Duration(n) * time.Millisecond),
	}
	if _, err := f.db.Collection("group_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to add group member: %v", err)
	}
	return m
}

// MarkMatched flips a group to matched without running a draw.
func (f *Fixtures) MarkMatched(ctx context.Context, groupID primitive.ObjectID) {
	f.t.Helper()

	now := time.Now().UTC()
	_, err := f.db.Collection("groups").UpdateByID(ctx, groupID, bson.M{
		"$set": bson.M{"is_matched": true, "matched_at": now, "draw_id": "fixture"},
	})
	if err != nil {
		f.t.Fatalf("failed to mark group matched: %v", err)
	}
}
