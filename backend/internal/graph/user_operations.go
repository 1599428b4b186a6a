package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "wayfarer/backend/pkg/errors"
)

// ============================================================================
// User Operations
// ============================================================================

const userReturnClause = `
	RETURN u.id as id, u.name as name, u.email as email, u.role as role,
	       u.interests as interests, u.profile_picture as profile_picture,
	       u.password_hash as password_hash, u.created_at as created_at,
	       [(u)-[:FOLLOWS]->(f:User) | f.id] as following,
	       [(g:User)-[:FOLLOWS]->(u) | g.id] as followers
`

func userFromRecord(record *neo4j.Record) *User {
	return &User{
		ID:             getStringFromRecord(record, "id"),
		Name:           getStringFromRecord(record, "name"),
		Email:          getStringFromRecord(record, "email"),
		Role:           getStringFromRecord(record, "role"),
		Interests:      getStringSliceFromRecord(record, "interests"),
		ProfilePicture: getStringFromRecord(record, "profile_picture"),
		PasswordHash:   getStringFromRecord(record, "password_hash"),
		Following:      getStringSliceFromRecord(record, "following"),
		Followers:      getStringSliceFromRecord(record, "followers"),
		CreatedAt:      getTimeFromRecord(record, "created_at"),
	}
}

// CreateUser persists a new user node. Email is stored lower-cased; the
// uniqueness constraint turns duplicate registrations into a conflict.
func (r *Repository) CreateUser(ctx context.Context, u *User) (*User, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleTraveller
	}
	if u.Interests == nil {
		u.Interests = []string{}
	}
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now().UTC()

	query := `
		CREATE (u:User {
			id: $id,
			name: $name,
			email: $email,
			role: $role,
			interests: $interests,
			profile_picture: $profilePicture,
			password_hash: $passwordHash,
			created_at: datetime($now)
		})
	` + userReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"role":           u.Role,
		"interests":      u.Interests,
		"profilePicture": u.ProfilePicture,
		"passwordHash":   u.PasswordHash,
		"now":            u.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		if neo4j.IsNeo4jError(err) && strings.Contains(err.Error(), "ConstraintValidationFailed") {
			return nil, apperrors.Conflict("User already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if result.Next(ctx) {
		return userFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return nil, apperrors.Internal(fmt.Errorf("create user returned no record"))
}

// GetUser fetches a user by id, including follow projections
func (r *Repository) GetUser(ctx context.Context, id string) (*User, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `MATCH (u:User {id: $id})` + userReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if result.Next(ctx) {
		return userFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return nil, apperrors.NotFound("User")
}

// GetUserByEmail fetches a user by case-normalized email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `MATCH (u:User {email: $email})` + userReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"email": strings.ToLower(email),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if result.Next(ctx) {
		return userFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return nil, apperrors.NotFound("User")
}

// ListUsers returns all users ordered by creation time
func (r *Repository) ListUsers(ctx context.Context) ([]*User, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `MATCH (u:User)` + userReturnClause + ` ORDER BY u.created_at ASC`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var users []*User
	for result.Next(ctx) {
		users = append(users, userFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser overwrites a user's name and email. Blank fields are kept.
func (r *Repository) UpdateUser(ctx context.Context, id, name, email string) (*User, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $id})
		SET u.name = CASE WHEN $name <> '' THEN $name ELSE u.name END,
		    u.email = CASE WHEN $email <> '' THEN $email ELSE u.email END
	` + userReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":    id,
		"name":  name,
		"email": strings.ToLower(email),
	})
	if err != nil {
		if neo4j.IsNeo4jError(err) && strings.Contains(err.Error(), "ConstraintValidationFailed") {
			return nil, apperrors.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if result.Next(ctx) {
		return userFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return nil, apperrors.NotFound("User")
}

// UpdateInterests replaces a user's interest list
func (r *Repository) UpdateInterests(ctx context.Context, id string, interests []string) (*User, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	if interests == nil {
		interests = []string{}
	}

	query := `
		MATCH (u:User {id: $id})
		SET u.interests = $interests
	` + userReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":        id,
		"interests": interests,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update interests: %w", err)
	}

	if result.Next(ctx) {
		return userFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to update interests: %w", err)
	}
	return nil, apperrors.NotFound("User")
}

// DeleteUser removes a user and all of its relationships
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $id})
		DETACH DELETE u
		RETURN count(u) as deleted
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.Next(ctx) {
		if getIntFromRecord(result.Record(), "deleted") == 0 {
			return apperrors.NotFound("User")
		}
		return nil
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return apperrors.NotFound("User")
}
