// internal/app/store/members/memberstore.go
package memberstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - member ID: the _id of a group_members document. Recipients point at
//     member IDs, not user IDs.

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/secretsanta/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c      *mongo.Collection
	groups *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("group_members"),
		groups: db.Collection("groups"),
	}
}

var (
	// ErrAlreadyMember is returned when the user is already on the roster.
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrNotMember is returned when the user is not on the roster.
	ErrNotMember = errors.New("user is not a member of this group")
	// ErrGroupMatched is returned when the roster is frozen by a completed draw.
	ErrGroupMatched = errors.New("the roster is frozen because the draw has happened")
	// ErrNoRecipient is returned by RecipientOf before the draw.
	ErrNoRecipient = errors.New("no recipient has been drawn yet")
)

// rosterOrder is the order the draw sees the roster in.
var rosterOrder = bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}}

// ensureOpen fails with ErrGroupMatched when the group has been drawn and
// with mongo.ErrNoDocuments when it does not exist.
func (s *Store) ensureOpen(ctx context.Context, groupID primitive.ObjectID) error {
	var g struct {
		IsMatched bool `bson:"is_matched"`
	}
	err := s.groups.FindOne(ctx, bson.M{"_id": groupID},
		options.FindOne().SetProjection(bson.M{"is_matched": 1})).Decode(&g)
	if err != nil {
		return err
	}
	if g.IsMatched {
		return ErrGroupMatched
	}
	return nil
}

// Join adds userID to the group's roster.
func (s *Store) Join(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupMember, error) {
	if err := s.ensureOpen(ctx, groupID); err != nil {
		return models.GroupMember{}, err
	}

	m := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMember{}, ErrAlreadyMember
		}
		return models.GroupMember{}, err
	}
	return m, nil
}

// Leave removes userID from the roster. Not allowed after the draw.
func (s *Store) Leave(ctx context.Context, groupID, userID primitive.ObjectID) error {
	if err := s.ensureOpen(ctx, groupID); err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotMember
	}
	return nil
}

// Get returns the membership of userID in groupID, or ErrNotMember.
func (s *Store) Get(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupMember, error) {
	var m models.GroupMember
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.GroupMember{}, ErrNotMember
	}
	if err != nil {
		return models.GroupMember{}, err
	}
	return m, nil
}

// Exists checks if a membership exists for the given group and user.
func (s *Store) Exists(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	_, err := s.Get(ctx, groupID, userID)
	if errors.Is(err, ErrNotMember) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByGroup returns the roster ordered by join time.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMember, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, options.Find().SetSort(rosterOrder))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	members := []models.GroupMember{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// CountByGroup returns the roster size.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// UpdateWishlist replaces the member's wishlist. Wishlists stay editable
// after the draw so givers see the latest version.
func (s *Store) UpdateWishlist(ctx context.Context, groupID, userID primitive.ObjectID, wishlist string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "user_id": userID},
		bson.M{"$set": bson.M{"wishlist": strings.TrimSpace(wishlist)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMember
	}
	return nil
}

// SetRecipients writes giver member ID -> recipient member ID for one group
// in a single bulk write. Every giver must belong to groupID.
func (s *Store) SetRecipients(ctx context.Context, groupID primitive.ObjectID, pairs map[primitive.ObjectID]primitive.ObjectID) error {
	if len(pairs) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(pairs))
	for giver, recipient := range pairs {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": giver, "group_id": groupID}).
			SetUpdate(bson.M{"$set": bson.M{"recipient_id": recipient}}))
	}
	res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return err
	}
	if res.MatchedCount != int64(len(pairs)) {
		return ErrNotMember
	}
	return nil
}

// RecipientOf returns the member userID gives a gift to in groupID.
func (s *Store) RecipientOf(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupMember, error) {
	giver, err := s.Get(ctx, groupID, userID)
	if err != nil {
		return models.GroupMember{}, err
	}
	if giver.RecipientID == nil {
		return models.GroupMember{}, ErrNoRecipient
	}
	var m models.GroupMember
	if err := s.c.FindOne(ctx, bson.M{"_id": *giver.RecipientID, "group_id": groupID}).Decode(&m); err != nil {
		return models.GroupMember{}, err
	}
	return m, nil
}

// DeleteByGroup removes the whole roster of a group.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
