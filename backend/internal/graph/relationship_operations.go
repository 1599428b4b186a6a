package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "wayfarer/backend/pkg/errors"
)

// ============================================================================
// Follow Graph Operations
// ============================================================================
//
// A follow is a single FOLLOWS edge. Both directions of the original
// following/followers pair are projections of that one record, so a
// follow/unfollow is one write and the two views cannot diverge.

// Follow creates a FOLLOWS edge from follower to followee.
// Returns Conflict when the edge already exists.
func (r *Repository) Follow(ctx context.Context, followerID, followeeID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MATCH (a:User {id: $followerID})
		MATCH (b:User {id: $followeeID})
		OPTIONAL MATCH (a)-[existing:FOLLOWS]->(b)
		WITH a, b, existing IS NOT NULL as already
		MERGE (a)-[f:FOLLOWS]->(b)
		ON CREATE SET f.since = datetime($now)
		RETURN already
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"followerID": followerID,
		"followeeID": followeeID,
		"now":        now,
	})
	if err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}

	if result.Next(ctx) {
		if getBoolFromRecord(result.Record(), "already") {
			return apperrors.Conflict("Already following this user")
		}
		return nil
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	// No row means one of the MATCH clauses missed
	return apperrors.NotFound("User")
}

// Unfollow deletes the FOLLOWS edge if present. Deleting a missing edge
// is a no-op, matching the source's idempotent unfollow.
func (r *Repository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (a:User {id: $followerID})
		MATCH (b:User {id: $followeeID})
		OPTIONAL MATCH (a)-[f:FOLLOWS]->(b)
		DELETE f
		RETURN count(*) as matched
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"followerID": followerID,
		"followeeID": followeeID,
	})
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}

	if result.Next(ctx) {
		return nil
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return apperrors.NotFound("User")
}

// IsFollowing reports whether follower has a FOLLOWS edge to followee
func (r *Repository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		RETURN exists {
			MATCH (:User {id: $followerID})-[:FOLLOWS]->(:User {id: $followeeID})
		} as following
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"followerID": followerID,
		"followeeID": followeeID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check follow status: %w", err)
	}

	if result.Next(ctx) {
		return getBoolFromRecord(result.Record(), "following"), nil
	}
	if err := result.Err(); err != nil {
		return false, fmt.Errorf("failed to check follow status: %w", err)
	}
	return false, nil
}

// AreMutuals reports whether FOLLOWS edges exist in both directions.
// This is the edge-indexed form of the messaging gate.
func (r *Repository) AreMutuals(ctx context.Context, aID, bID string) (bool, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		RETURN exists {
			MATCH (a:User {id: $aID})-[:FOLLOWS]->(b:User {id: $bID})
			MATCH (b)-[:FOLLOWS]->(a)
		} as mutual
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"aID": aID,
		"bID": bID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check mutual follow: %w", err)
	}

	if result.Next(ctx) {
		return getBoolFromRecord(result.Record(), "mutual"), nil
	}
	if err := result.Err(); err != nil {
		return false, fmt.Errorf("failed to check mutual follow: %w", err)
	}
	return false, nil
}

func (r *Repository) listRelated(ctx context.Context, query, userID string) ([]*Organizer, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list related users: %w", err)
	}

	users := []*Organizer{}
	for result.Next(ctx) {
		users = append(users, organizerFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list related users: %w", err)
	}
	return users, nil
}

func organizerFromRecord(record *neo4j.Record) *Organizer {
	return &Organizer{
		ID:    getStringFromRecord(record, "id"),
		Name:  getStringFromRecord(record, "name"),
		Email: getStringFromRecord(record, "email"),
		Role:  getStringFromRecord(record, "role"),
	}
}

// Following returns the users a user follows (name/email/role projection)
func (r *Repository) Following(ctx context.Context, userID string) ([]*Organizer, error) {
	query := `
		MATCH (:User {id: $userID})-[:FOLLOWS]->(f:User)
		RETURN f.id as id, f.name as name, f.email as email, f.role as role
		ORDER BY f.name ASC
	`
	return r.listRelated(ctx, query, userID)
}

// Followers returns the users following a user
func (r *Repository) Followers(ctx context.Context, userID string) ([]*Organizer, error) {
	query := `
		MATCH (f:User)-[:FOLLOWS]->(:User {id: $userID})
		RETURN f.id as id, f.name as name, f.email as email, f.role as role
		ORDER BY f.name ASC
	`
	return r.listRelated(ctx, query, userID)
}

// MutualFollowers returns users with FOLLOWS edges in both directions
func (r *Repository) MutualFollowers(ctx context.Context, userID string) ([]*Organizer, error) {
	query := `
		MATCH (u:User {id: $userID})-[:FOLLOWS]->(f:User)-[:FOLLOWS]->(u)
		RETURN f.id as id, f.name as name, f.email as email, f.role as role
		ORDER BY f.name ASC
	`
	return r.listRelated(ctx, query, userID)
}
