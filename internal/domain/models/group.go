// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is one gift exchange.
//
// NOTE:
//   - Members are not embedded on Group; the roster lives in group_members.
//   - IsMatched is claimed before any recipient is written, and only a
//     failed run with the same DrawID may clear it. After that the roster
//     is frozen.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	EventDate   time.Time          `bson:"event_date" json:"event_date"`

	// BudgetLimitCents is the suggested spend in cents; nil means no limit.
	BudgetLimitCents *int64 `bson:"budget_limit_cents,omitempty" json:"budget_limit_cents,omitempty"`

	IsMatched bool       `bson:"is_matched" json:"is_matched"`
	MatchedAt *time.Time `bson:"matched_at,omitempty" json:"matched_at,omitempty"`
	DrawID    string     `bson:"draw_id,omitempty" json:"draw_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Completed reports whether the event date has been reached.
func (g Group) Completed(now time.Time) bool {
	return !now.Before(g.EventDate)
}
