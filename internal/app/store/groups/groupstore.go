// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/secretsanta/internal/app/system/normalize"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c       *mongo.Collection
	members *mongo.Collection
}

var (
	// ErrAlreadyMatched is returned when a write needs an unmatched group.
	ErrAlreadyMatched = errors.New("the draw for this group has already happened")
	errEmptyName      = errors.New("group name is required")
	errNegativeBudget = errors.New("budget limit cannot be negative")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("groups"),
		members: db.Collection("group_members"),
	}
}

// listOrder is the order used by every group list: soonest event first.
var listOrder = bson.D{{Key: "event_date", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a new unmatched group. The caller adds the creator to the
// roster.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	g.Name = normalize.Name(g.Name)
	if g.Name == "" {
		return models.Group{}, errEmptyName
	}
	if g.BudgetLimitCents != nil && *g.BudgetLimitCents < 0 {
		return models.Group{}, errNegativeBudget
	}

	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.Description = strings.TrimSpace(g.Description)
	g.IsMatched = false
	g.MatchedAt = nil
	g.DrawID = ""
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// ListForUser returns the groups userID belongs to.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	ids, err := s.members.Distinct(ctx, "group_id", bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Group{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// ListAll returns every group (admin view).
func (s *Store) ListAll(ctx context.Context) ([]models.Group, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(listOrder))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Group{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Info holds the editable fields of a group.
type Info struct {
	Name             string
	Description      string
	EventDate        time.Time
	BudgetLimitCents *int64
}

// UpdateInfo edits an unmatched group. Matched groups are frozen and return
// ErrAlreadyMatched; unknown IDs return mongo.ErrNoDocuments.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, in Info) error {
	name := normalize.Name(in.Name)
	if name == "" {
		return errEmptyName
	}
	if in.BudgetLimitCents != nil && *in.BudgetLimitCents < 0 {
		return errNegativeBudget
	}

	set := bson.M{
		"name":        name,
		"name_ci":     text.Fold(name),
		"description": strings.TrimSpace(in.Description),
		"event_date":  in.EventDate,
		"updated_at":  time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if in.BudgetLimitCents != nil {
		set["budget_limit_cents"] = *in.BudgetLimitCents
	} else {
		update["$unset"] = bson.M{"budget_limit_cents": ""}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "is_matched": false}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missOrMatched(ctx, id)
	}
	return nil
}

// MarkMatched flips is_matched exactly once. A second call, or a call that
// lost a race with another draw, returns ErrAlreadyMatched.
func (s *Store) MarkMatched(ctx context.Context, id primitive.ObjectID, drawID string, at time.Time) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_matched": false},
		bson.M{"$set": bson.M{
			"is_matched": true,
			"matched_at": at.UTC(),
			"draw_id":    drawID,
			"updated_at": at.UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missOrMatched(ctx, id)
	}
	return nil
}

// ReleaseMatch undoes the MarkMatched made by drawID. It does nothing when
// the group is open or was claimed by another draw, and reports whether a
// claim was released.
func (s *Store) ReleaseMatch(ctx context.Context, id primitive.ObjectID, drawID string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_matched": true, "draw_id": drawID},
		bson.M{
			"$set":   bson.M{"is_matched": false, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"matched_at": "", "draw_id": ""},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// missOrMatched explains why a conditional update on is_matched:false missed.
func (s *Store) missOrMatched(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return ErrAlreadyMatched
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
// The roster is removed separately with memberstore.DeleteByGroup.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
