package graph

import (
	"context"
	"fmt"
	"time"

	apperrors "wayfarer/backend/pkg/errors"
)

// ============================================================================
// Wishlist Operations
// ============================================================================
//
// A wishlist is not a node of its own. Saved items are WISHES edges from
// the user, so add/remove is one edge write and there is no per-user
// wishlist document to create lazily or keep consistent.

// AddEventToWishlist links a user to an event. Conflict when already saved.
func (r *Repository) AddEventToWishlist(ctx context.Context, userID, eventID string) error {
	return r.addWish(ctx, userID, eventID, "Event", "Event already in wishlist")
}

// AddItineraryToWishlist links a user to an itinerary
func (r *Repository) AddItineraryToWishlist(ctx context.Context, userID, itineraryID string) error {
	return r.addWish(ctx, userID, itineraryID, "Itinerary", "Itinerary already in wishlist")
}

func (r *Repository) addWish(ctx context.Context, userID, itemID, label, dupMessage string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := fmt.Sprintf(`
		MATCH (u:User {id: $userID})
		MATCH (t:%s {id: $itemID})
		OPTIONAL MATCH (u)-[existing:WISHES]->(t)
		WITH u, t, existing IS NOT NULL as already
		MERGE (u)-[w:WISHES]->(t)
		ON CREATE SET w.added_at = datetime($now)
		RETURN already
	`, label)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"itemID": itemID,
		"now":    now,
	})
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}

	if result.Next(ctx) {
		if getBoolFromRecord(result.Record(), "already") {
			return apperrors.Conflict(dupMessage)
		}
		return nil
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return apperrors.NotFound(label)
}

// RemoveEventFromWishlist drops the WISHES edge to an event. Removing an
// item that is not saved is a no-op, like the source's filter-style remove.
func (r *Repository) RemoveEventFromWishlist(ctx context.Context, userID, eventID string) error {
	return r.removeWish(ctx, userID, eventID, "Event")
}

// RemoveItineraryFromWishlist drops the WISHES edge to an itinerary
func (r *Repository) RemoveItineraryFromWishlist(ctx context.Context, userID, itineraryID string) error {
	return r.removeWish(ctx, userID, itineraryID, "Itinerary")
}

func (r *Repository) removeWish(ctx context.Context, userID, itemID, label string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (u:User {id: $userID})
		OPTIONAL MATCH (u)-[w:WISHES]->(:%s {id: $itemID})
		DELETE w
		RETURN count(*) as matched
	`, label)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"itemID": itemID,
	})
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}

	if result.Next(ctx) {
		return nil
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return apperrors.NotFound("User")
}

// IsInWishlist reports whether a user has saved the given event or itinerary
func (r *Repository) IsInWishlist(ctx context.Context, userID, itemType, itemID string) (bool, error) {
	var label string
	switch itemType {
	case "event":
		label = "Event"
	case "itinerary":
		label = "Itinerary"
	default:
		return false, apperrors.Validation("Invalid type parameter")
	}

	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		RETURN exists {
			MATCH (:User {id: $userID})-[:WISHES]->(:%s {id: $itemID})
		} as saved
	`, label)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"itemID": itemID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}

	if result.Next(ctx) {
		return getBoolFromRecord(result.Record(), "saved"), nil
	}
	if err := result.Err(); err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return false, nil
}

// GetWishlist returns a user's saved events and itineraries
func (r *Repository) GetWishlist(ctx context.Context, userID string) (*Wishlist, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	eventsQuery := `
		MATCH (:User {id: $userID})-[w:WISHES]->(e:Event)
		WITH e ORDER BY w.added_at ASC
	` + eventReturnClause

	result, err := session.Run(ctx, eventsQuery, map[string]interface{}{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist events: %w", err)
	}

	wl := &Wishlist{UserID: userID, Events: []Event{}, Itineraries: []Itinerary{}}
	for result.Next(ctx) {
		wl.Events = append(wl.Events, *eventFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to get wishlist events: %w", err)
	}

	itinerariesQuery := `
		MATCH (:User {id: $userID})-[w:WISHES]->(i:Itinerary)
		WITH i ORDER BY w.added_at ASC
	` + itineraryReturnClause

	result, err = session.Run(ctx, itinerariesQuery, map[string]interface{}{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist itineraries: %w", err)
	}
	for result.Next(ctx) {
		wl.Itineraries = append(wl.Itineraries, itineraryFromRecord(result.Record()).Itinerary)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to get wishlist itineraries: %w", err)
	}

	return wl, nil
}
