// internal/app/store/logins/loginstore.go
package loginstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/secretsanta/internal/app/system/ratelimit"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// maxUserAgent bounds what we keep of the User-Agent header.
const maxUserAgent = 256

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// Create inserts rec. A zero CreatedAt is set to now.
func (s *Store) Create(ctx context.Context, rec models.LoginRecord) (models.LoginRecord, error) {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.LoginRecord{}, err
	}
	return rec, nil
}

// CreateFrom records a sign-in by userID using the request's client
// address and user agent.
func (s *Store) CreateFrom(ctx context.Context, r *http.Request, userID primitive.ObjectID) error {
	ua := r.UserAgent()
	if len(ua) > maxUserAgent {
		ua = ua[:maxUserAgent]
	}
	_, err := s.Create(ctx, models.LoginRecord{
		UserID:    userID,
		IP:        ratelimit.ClientIP(r),
		UserAgent: ua,
	})
	return err
}

// LastByUsers returns the most recent sign-in time for each of ids.
// Users who never signed in are absent from the map.
func (s *Store) LastByUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]time.Time, error) {
	out := make(map[primitive.ObjectID]time.Time, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$user_id", "last": bson.M{"$max": "$created_at"}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			UserID primitive.ObjectID `bson:"_id"`
			Last   time.Time          `bson:"last"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.UserID] = row.Last
	}
	return out, cur.Err()
}
