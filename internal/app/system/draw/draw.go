// internal/app/system/draw/draw.go
//
// Package draw runs the one-time Secret Santa draw for a group: it loads the
// roster, pairs givers with recipients and records the result atomically.
package draw

import (
	"context"
	"errors"
	"fmt"
	"time"

	groupstore "github.com/dalemusser/secretsanta/internal/app/store/groups"
	memberstore "github.com/dalemusser/secretsanta/internal/app/store/members"
	"github.com/dalemusser/secretsanta/internal/app/system/timeouts"
	"github.com/dalemusser/secretsanta/internal/app/system/txn"
	"github.com/dalemusser/secretsanta/internal/domain/matching"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrAlreadyMatched = errors.New("the draw for this group has already happened")
	ErrNotCreator     = errors.New("only the group creator can run the draw")
	ErrTooFewMembers  = errors.New("a draw needs at least two members")
)

// Result describes a completed draw. It never carries the pairings.
type Result struct {
	GroupID primitive.ObjectID
	DrawID  string
	Members int
	At      time.Time
}

// Service runs draws. It is safe for concurrent use: two concurrent draws on
// the same group resolve to one success and one ErrAlreadyMatched, with or
// without transaction support, because the conditional MarkMatched claim
// comes before any recipient write.
type Service struct {
	db      *mongo.Database
	groups  *groupstore.Store
	members *memberstore.Store
	matcher *matching.Matcher[primitive.ObjectID]
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMatcher replaces the default randomly shuffling matcher.
func WithMatcher(m *matching.Matcher[primitive.ObjectID]) Option {
	return func(s *Service) { s.matcher = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *mongo.Database, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		db:      db,
		groups:  groupstore.New(db),
		members: memberstore.New(db),
		matcher: matching.New[primitive.ObjectID](),
		log:     logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs the draw for groupID on behalf of actorID, who must be the
// group's creator.
func (s *Service) Run(ctx context.Context, groupID, actorID primitive.ObjectID) (Result, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Result{}, ErrGroupNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("load group: %w", err)
	}
	if g.CreatedBy != actorID {
		return Result{}, ErrNotCreator
	}
	if g.IsMatched {
		return Result{}, ErrAlreadyMatched
	}

	res := Result{GroupID: groupID, DrawID: uuid.NewString(), At: s.now().UTC()}

	// The group is claimed before any recipient is written, so when
	// transactions are unavailable only the winning draw writes pairs.
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if err := s.groups.MarkMatched(ctx, groupID, res.DrawID, res.At); err != nil {
			if errors.Is(err, groupstore.ErrAlreadyMatched) {
				return ErrAlreadyMatched
			}
			return fmt.Errorf("mark matched: %w", err)
		}

		roster, err := s.members.ListByGroup(ctx, groupID)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}

		ids := lo.Map(roster, func(m models.GroupMember, _ int) primitive.ObjectID { return m.ID })
		pairs, err := s.matcher.Match(ids)
		if err != nil {
			if errors.Is(err, matching.ErrTooFewMembers) {
				return ErrTooFewMembers
			}
			return fmt.Errorf("match roster: %w", err)
		}

		if err := s.members.SetRecipients(ctx, groupID, pairs); err != nil {
			return fmt.Errorf("write recipients: %w", err)
		}
		res.Members = len(roster)
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyMatched) {
			s.release(groupID, res.DrawID)
		}
		if !errors.Is(err, ErrTooFewMembers) && !errors.Is(err, ErrAlreadyMatched) {
			s.log.Error("draw failed",
				zap.String("group_id", groupID.Hex()),
				zap.String("draw_id", res.DrawID),
				zap.Error(err))
		}
		return Result{}, err
	}

	s.log.Info("draw completed",
		zap.String("group_id", groupID.Hex()),
		zap.String("draw_id", res.DrawID),
		zap.Int("members", res.Members))
	return res, nil
}

// release drops this draw's claim after a failed run. Inside a transaction
// the claim was already rolled back and this matches nothing.
func (s *Service) release(groupID primitive.ObjectID, drawID string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	released, err := s.groups.ReleaseMatch(ctx, groupID, drawID)
	if err != nil {
		s.log.Error("release draw claim failed",
			zap.String("group_id", groupID.Hex()),
			zap.String("draw_id", drawID),
			zap.Error(err))
		return
	}
	if released {
		s.log.Warn("released draw claim after failed run",
			zap.String("group_id", groupID.Hex()),
			zap.String("draw_id", drawID))
	}
}
