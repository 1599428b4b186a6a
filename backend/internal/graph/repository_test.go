package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "wayfarer/backend/pkg/errors"
)

// These tests require a running Neo4j instance at the default local
// address. Run with -short to skip them.

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func testRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	return NewRepository(driver), func() {
		driver.Close(context.Background())
	}
}

func testUser(t *testing.T, repo *Repository, name string) *User {
	t.Helper()
	ctx := context.Background()

	email := fmt.Sprintf("%s-%d@test.invalid", name, time.Now().UnixNano())
	user, err := repo.CreateUser(ctx, &User{Name: name, Email: email, PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.DeleteUser(ctx, user.ID)
	})
	return user
}

func TestRepository_UserRoundTrip(t *testing.T) {
	repo, done := testRepo(t)
	defer done()
	ctx := context.Background()

	created := testUser(t, repo, "roundtrip")

	fetched, err := repo.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if fetched.Email != created.Email {
		t.Errorf("Expected email %q, got %q", created.Email, fetched.Email)
	}
	if fetched.Role != RoleTraveller {
		t.Errorf("Expected default role traveller, got %q", fetched.Role)
	}
	if len(fetched.Following) != 0 || len(fetched.Followers) != 0 {
		t.Errorf("Expected empty follow projections, got %v / %v", fetched.Following, fetched.Followers)
	}
}

func TestRepository_FollowProjections(t *testing.T) {
	repo, done := testRepo(t)
	defer done()
	ctx := context.Background()

	a := testUser(t, repo, "follower")
	b := testUser(t, repo, "followee")

	if err := repo.Follow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	// a second follow of the same pair is a conflict, not a second edge
	err := repo.Follow(ctx, a.ID, b.ID)
	if !apperrors.Is(err, apperrors.KindConflict) {
		t.Errorf("Expected conflict on duplicate follow, got %v", err)
	}

	fetchedA, err := repo.GetUser(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if len(fetchedA.Following) != 1 || fetchedA.Following[0] != b.ID {
		t.Errorf("Expected following [%s], got %v", b.ID, fetchedA.Following)
	}

	fetchedB, err := repo.GetUser(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if len(fetchedB.Followers) != 1 || fetchedB.Followers[0] != a.ID {
		t.Errorf("Expected followers [%s], got %v", a.ID, fetchedB.Followers)
	}

	mutual, err := repo.AreMutuals(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("AreMutuals failed: %v", err)
	}
	if mutual {
		t.Error("Expected one-way follow to not be mutual")
	}

	if err := repo.Follow(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	mutual, err = repo.AreMutuals(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("AreMutuals failed: %v", err)
	}
	if !mutual {
		t.Error("Expected mutual follow after both edges exist")
	}

	// unfollow is idempotent
	if err := repo.Unfollow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if err := repo.Unfollow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Second unfollow failed: %v", err)
	}
}

func TestRepository_MessageFlow(t *testing.T) {
	repo, done := testRepo(t)
	defer done()
	ctx := context.Background()

	a := testUser(t, repo, "sender")
	b := testUser(t, repo, "receiver")

	m1, err := repo.CreateMessage(ctx, a.ID, b.ID, "first")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if m1.Read {
		t.Error("Expected new message to be unread")
	}
	if _, err := repo.CreateMessage(ctx, b.ID, a.ID, "second"); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	history, err := repo.MessagesBetween(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("MessagesBetween failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(history))
	}
	if history[0].Content != "first" || history[1].Content != "second" {
		t.Errorf("Expected chronological order, got %q then %q", history[0].Content, history[1].Content)
	}

	count, err := repo.MarkMessagesRead(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("MarkMessagesRead failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 message marked, got %d", count)
	}
	count, err = repo.MarkMessagesRead(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("MarkMessagesRead failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected idempotent mark-read, got %d", count)
	}

	heads, err := repo.ConversationHeads(ctx, a.ID)
	if err != nil {
		t.Fatalf("ConversationHeads failed: %v", err)
	}
	if len(heads) != 1 {
		t.Fatalf("Expected 1 conversation head, got %d", len(heads))
	}
	if heads[0].CounterpartID != b.ID {
		t.Errorf("Expected counterpart %s, got %s", b.ID, heads[0].CounterpartID)
	}
	if heads[0].LastMessage.Content != "second" {
		t.Errorf("Expected latest message 'second', got %q", heads[0].LastMessage.Content)
	}

	if _, err := repo.CreateMessage(ctx, a.ID, "no-such-user", "x"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("Expected not found for unknown receiver, got %v", err)
	}
}

func TestRepository_WishlistFlow(t *testing.T) {
	repo, done := testRepo(t)
	defer done()
	ctx := context.Background()

	user := testUser(t, repo, "wisher")

	event, err := repo.CreateEvent(ctx, &Event{
		Title: "Test Event", Date: time.Now().Add(24 * time.Hour),
		City: "Hampi", Country: "India",
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.DeleteEvent(ctx, event.ID) })

	if err := repo.AddEventToWishlist(ctx, user.ID, event.ID); err != nil {
		t.Fatalf("AddEventToWishlist failed: %v", err)
	}
	if err := repo.AddEventToWishlist(ctx, user.ID, event.ID); !apperrors.Is(err, apperrors.KindConflict) {
		t.Errorf("Expected conflict on duplicate wish, got %v", err)
	}

	present, err := repo.IsInWishlist(ctx, user.ID, "event", event.ID)
	if err != nil {
		t.Fatalf("IsInWishlist failed: %v", err)
	}
	if !present {
		t.Error("Expected event in wishlist")
	}

	wishlist, err := repo.GetWishlist(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetWishlist failed: %v", err)
	}
	if len(wishlist.Events) != 1 || wishlist.Events[0].ID != event.ID {
		t.Errorf("Expected wishlist with the event, got %+v", wishlist.Events)
	}

	if err := repo.RemoveEventFromWishlist(ctx, user.ID, event.ID); err != nil {
		t.Fatalf("RemoveEventFromWishlist failed: %v", err)
	}
	present, err = repo.IsInWishlist(ctx, user.ID, "event", event.ID)
	if err != nil {
		t.Fatalf("IsInWishlist failed: %v", err)
	}
	if present {
		t.Error("Expected event removed from wishlist")
	}
}

func TestRepository_ItineraryStops(t *testing.T) {
	repo, done := testRepo(t)
	defer done()
	ctx := context.Background()

	organizer := testUser(t, repo, "organizer")

	created, err := repo.CreateItinerary(ctx, &Itinerary{
		Title:       "Test Trip",
		OrganizerID: organizer.ID,
		Stops: []Stop{
			{Location: "Bangalore", ArrivalDate: time.Now(), DepartureDate: time.Now().Add(24 * time.Hour)},
			{Location: "Mysore", ArrivalDate: time.Now().Add(24 * time.Hour), DepartureDate: time.Now().Add(48 * time.Hour)},
		},
		Price: 1000, Days: 2, Nights: 1,
	})
	if err != nil {
		t.Fatalf("CreateItinerary failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.DeleteItinerary(ctx, created.ID) })

	fetched, err := repo.GetItinerary(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetItinerary failed: %v", err)
	}
	if len(fetched.Stops) != 2 {
		t.Fatalf("Expected 2 stops, got %d", len(fetched.Stops))
	}
	if fetched.Stops[0].Location != "Bangalore" || fetched.Stops[1].Location != "Mysore" {
		t.Errorf("Expected stop order preserved, got %q then %q",
			fetched.Stops[0].Location, fetched.Stops[1].Location)
	}
	if fetched.Organizer == nil || fetched.Organizer.ID != organizer.ID {
		t.Errorf("Expected organizer %s attached, got %+v", organizer.ID, fetched.Organizer)
	}
}
