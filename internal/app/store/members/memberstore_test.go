package memberstore_test

import (
	"errors"
	"testing"

	memberstore "github.com/dalemusser/secretsanta/internal/app/store/members"
	"github.com/dalemusser/secretsanta/internal/app/system/indexes"
	"github.com/dalemusser/secretsanta/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Join(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	alice := fixtures.CreateMember(ctx, "Alice", "alice")
	g := fixtures.CreateGroup(ctx, "Family", alice.ID)

	m, err := store.Join(ctx, g.ID, alice.ID)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if m.ID == primitive.NilObjectID || m.JoinedAt.IsZero() {
		t.Errorf("expected ID and JoinedAt, got %+v", m)
	}

	if _, err := store.Join(ctx, g.ID, alice.ID); !errors.Is(err, memberstore.ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}

	if _, err := store.Join(ctx, primitive.NewObjectID(), alice.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments for unknown group, got %v", err)
	}
}

func TestStore_Join_MatchedGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice")
	late := fixtures.CreateMember(ctx, "Late", "late")
	g := fixtures.CreateGroup(ctx, "Frozen", alice.ID)
	fixtures.AddMember(ctx, g.ID, alice.ID)
	fixtures.MarkMatched(ctx, g.ID)

	if _, err := store.Join(ctx, g.ID, late.ID); !errors.Is(err, memberstore.ErrGroupMatched) {
		t.Errorf("Join: expected ErrGroupMatched, got %v", err)
	}
	if err := store.Leave(ctx, g.ID, alice.ID); !errors.Is(err, memberstore.ErrGroupMatched) {
		t.Errorf("Leave: expected ErrGroupMatched, got %v", err)
	}
}

func TestStore_Leave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice")
	g := fixtures.CreateGroup(ctx, "Family", alice.ID)
	fixtures.AddMember(ctx, g.ID, alice.ID)

	if err := store.Leave(ctx, g.ID, alice.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if ok, _ := store.Exists(ctx, g.ID, alice.ID); ok {
		t.Error("membership still exists after Leave")
	}
	if err := store.Leave(ctx, g.ID, alice.ID); !errors.Is(err, memberstore.ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestStore_ListByGroup_RosterOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateMember(ctx, "Creator", "creator")
	g := fixtures.CreateGroup(ctx, "Ordered", creator.ID)

	var want []primitive.ObjectID
	for _, login := range []string{"c", "a", "b"} {
		u := fixtures.CreateMember(ctx, login, login)
		want = append(want, fixtures.AddMember(ctx, g.ID, u.ID).ID)
	}

	roster, err := store.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(roster) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(roster))
	}
	for i := range want {
		if roster[i].ID != want[i] {
			t.Errorf("roster[%d]: got %v, want %v", i, roster[i].ID, want[i])
		}
	}

	n, err := store.CountByGroup(ctx, g.ID)
	if err != nil || n != 3 {
		t.Errorf("CountByGroup = %d, %v; want 3, nil", n, err)
	}
}

func TestStore_UpdateWishlist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice")
	g := fixtures.CreateGroup(ctx, "Family", alice.ID)
	fixtures.AddMember(ctx, g.ID, alice.ID)

	if err := store.UpdateWishlist(ctx, g.ID, alice.ID, "  socks\nbooks  "); err != nil {
		t.Fatalf("UpdateWishlist failed: %v", err)
	}
	m, err := store.Get(ctx, g.ID, alice.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if m.Wishlist != "socks\nbooks" {
		t.Errorf("Wishlist: got %q", m.Wishlist)
	}

	if err := store.UpdateWishlist(ctx, g.ID, primitive.NewObjectID(), "x"); !errors.Is(err, memberstore.ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestStore_SetRecipients_RecipientOf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice")
	bob := fixtures.CreateMember(ctx, "Bob", "bob")
	g := fixtures.CreateGroup(ctx, "Pair", alice.ID)
	ma := fixtures.AddMember(ctx, g.ID, alice.ID)
	mb := fixtures.AddMember(ctx, g.ID, bob.ID)

	if _, err := store.RecipientOf(ctx, g.ID, alice.ID); !errors.Is(err, memberstore.ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient before draw, got %v", err)
	}

	err := store.SetRecipients(ctx, g.ID, map[primitive.ObjectID]primitive.ObjectID{
		ma.ID: mb.ID,
		mb.ID: ma.ID,
	})
	if err != nil {
		t.Fatalf("SetRecipients failed: %v", err)
	}

	got, err := store.RecipientOf(ctx, g.ID, alice.ID)
	if err != nil {
		t.Fatalf("RecipientOf failed: %v", err)
	}
	if got.UserID != bob.ID {
		t.Errorf("alice gives to %v, want bob %v", got.UserID, bob.ID)
	}

	// A giver from another group is rejected.
	err = store.SetRecipients(ctx, g.ID, map[primitive.ObjectID]primitive.ObjectID{
		primitive.NewObjectID(): ma.ID,
	})
	if !errors.Is(err, memberstore.ErrNotMember) {
		t.Errorf("expected ErrNotMember for foreign giver, got %v", err)
	}
}

func TestStore_DeleteByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice")
	bob := fixtures.CreateMember(ctx, "Bob", "bob")
	g := fixtures.CreateGroup(ctx, "Gone", alice.ID)
	other := fixtures.CreateGroup(ctx, "Stays", alice.ID)
	fixtures.AddMember(ctx, g.ID, alice.ID)
	fixtures.AddMember(ctx, g.ID, bob.ID)
	fixtures.AddMember(ctx, other.ID, alice.ID)

	n, err := store.DeleteByGroup(ctx, g.ID)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByGroup = %d, %v; want 2, nil", n, err)
	}
	if ok, _ := store.Exists(ctx, other.ID, alice.ID); !ok {
		t.Error("membership in other group was deleted")
	}
}
