package groupstore_test

import (
	"errors"
	"testing"
	"time"

	groupstore "github.com/dalemusser/secretsanta/internal/app/store/groups"
	"github.com/dalemusser/secretsanta/internal/domain/models"
	"github.com/dalemusser/secretsanta/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func cents(v int64) *int64 { return &v }

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)

	created, err := store.Create(ctx, models.Group{
		Name:             "  Office   Party ",
		Description:      " bring snacks ",
		CreatedBy:        creator,
		EventDate:        event,
		BudgetLimitCents: cents(2500),
		IsMatched:        true, // ignored on create
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Office Party" || created.NameCI != "office party" {
		t.Errorf("name normalization: got %q / %q", created.Name, created.NameCI)
	}
	if created.Description != "bring snacks" {
		t.Errorf("Description: got %q", created.Description)
	}
	if created.IsMatched {
		t.Error("new group must not be matched")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CreatedBy != creator {
		t.Errorf("CreatedBy: got %v, want %v", got.CreatedBy, creator)
	}
	if !got.EventDate.Equal(event) {
		t.Errorf("EventDate: got %v, want %v", got.EventDate, event)
	}
	if got.BudgetLimitCents == nil || *got.BudgetLimitCents != 2500 {
		t.Errorf("BudgetLimitCents: got %v", got.BudgetLimitCents)
	}
}

func TestStore_Create_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Group{Name: "   "}); err == nil {
		t.Error("expected error for blank name")
	}
	if _, err := store.Create(ctx, models.Group{Name: "Neg", BudgetLimitCents: cents(-1)}); err == nil {
		t.Error("expected error for negative budget")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice")
	bob := fixtures.CreateMember(ctx, "Bob", "bob")

	later := fixtures.CreateGroup(ctx, "Later", alice.ID)
	sooner, err := store.Create(ctx, models.Group{Name: "Sooner", CreatedBy: alice.ID, EventDate: time.Now().UTC().AddDate(0, 0, 1)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	other := fixtures.CreateGroup(ctx, "Bob Only", bob.ID)

	fixtures.AddMember(ctx, later.ID, alice.ID)
	fixtures.AddMember(ctx, sooner.ID, alice.ID)
	fixtures.AddMember(ctx, other.ID, bob.ID)

	groups, err := store.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].ID != sooner.ID || groups[1].ID != later.ID {
		t.Errorf("expected soonest event first, got %q then %q", groups[0].Name, groups[1].Name)
	}

	none, err := store.ListForUser(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no groups, got %d", len(none))
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAll: expected 3 groups, got %d", len(all))
	}
}

func TestStore_UpdateInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.Create(ctx, models.Group{Name: "Before", BudgetLimitCents: cents(1000)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	event := time.Date(2027, 1, 6, 0, 0, 0, 0, time.UTC)
	if err := store.UpdateInfo(ctx, g.ID, groupstore.Info{Name: "After", Description: "new", EventDate: event}); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}

	got, _ := store.GetByID(ctx, g.ID)
	if got.Name != "After" || got.NameCI != "after" || got.Description != "new" {
		t.Errorf("unexpected group after update: %+v", got)
	}
	if got.BudgetLimitCents != nil {
		t.Errorf("expected budget cleared, got %v", *got.BudgetLimitCents)
	}

	fixtures.MarkMatched(ctx, g.ID)
	if err := store.UpdateInfo(ctx, g.ID, groupstore.Info{Name: "Frozen"}); !errors.Is(err, groupstore.ErrAlreadyMatched) {
		t.Errorf("expected ErrAlreadyMatched, got %v", err)
	}
	if err := store.UpdateInfo(ctx, primitive.NewObjectID(), groupstore.Info{Name: "Ghost"}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_MarkMatched_Once(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.Create(ctx, models.Group{Name: "Draw Me"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	at := time.Now()
	if err := store.MarkMatched(ctx, g.ID, "draw-1", at); err != nil {
		t.Fatalf("MarkMatched failed: %v", err)
	}

	got, _ := store.GetByID(ctx, g.ID)
	if !got.IsMatched || got.DrawID != "draw-1" || got.MatchedAt == nil {
		t.Errorf("unexpected matched group: %+v", got)
	}

	if err := store.MarkMatched(ctx, g.ID, "draw-2", at); !errors.Is(err, groupstore.ErrAlreadyMatched) {
		t.Errorf("expected ErrAlreadyMatched on second draw, got %v", err)
	}
	got, _ = store.GetByID(ctx, g.ID)
	if got.DrawID != "draw-1" {
		t.Errorf("DrawID changed to %q", got.DrawID)
	}
}

func TestStore_ReleaseMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.Create(ctx, models.Group{Name: "Release Me"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkMatched(ctx, g.ID, "draw-1", time.Now()); err != nil {
		t.Fatalf("MarkMatched failed: %v", err)
	}

	// Another draw's id leaves the claim alone.
	released, err := store.ReleaseMatch(ctx, g.ID, "draw-2")
	if err != nil {
		t.Fatalf("ReleaseMatch failed: %v", err)
	}
	if released {
		t.Error("released a claim held by another draw")
	}

	released, err = store.ReleaseMatch(ctx, g.ID, "draw-1")
	if err != nil {
		t.Fatalf("ReleaseMatch failed: %v", err)
	}
	if !released {
		t.Error("expected the claim to be released")
	}

	got, _ := store.GetByID(ctx, g.ID)
	if got.IsMatched || got.DrawID != "" || got.MatchedAt != nil {
		t.Errorf("group still claimed: %+v", got)
	}

	// Released groups can be drawn again.
	if err := store.MarkMatched(ctx, g.ID, "draw-3", time.Now()); err != nil {
		t.Errorf("MarkMatched after release failed: %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.Create(ctx, models.Group{Name: "Temp"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, g.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v; want 1, nil", n, err)
	}
	n, err = store.Delete(ctx, g.ID)
	if err != nil || n != 0 {
		t.Errorf("second Delete = %d, %v; want 0, nil", n, err)
	}
}
