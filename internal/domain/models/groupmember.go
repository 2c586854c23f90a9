// internal/domain/models/groupmember.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMember is the join between a user and a group.
// Exactly one document per (group_id, user_id).
type GroupMember struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Wishlist string             `bson:"wishlist" json:"wishlist"`

	// RecipientID is the GroupMember this member gives a gift to.
	// Set once by the draw.
	RecipientID *primitive.ObjectID `bson:"recipient_id,omitempty" json:"recipient_id,omitempty"`

	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}
