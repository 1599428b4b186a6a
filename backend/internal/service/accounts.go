package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"wayfarer/backend/internal/auth"
	"wayfarer/backend/internal/graph"
	apperrors "wayfarer/backend/pkg/errors"
	"wayfarer/backend/pkg/logger"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the identity persistence the account flows depend on
type UserStore interface {
	CreateUser(ctx context.Context, u *graph.User) (*graph.User, error)
	GetUser(ctx context.Context, id string) (*graph.User, error)
	GetUserByEmail(ctx context.Context, email string) (*graph.User, error)
	UpdateUser(ctx context.Context, id, name, email string) (*graph.User, error)
}

// Accounts implements registration, login, and profile management
type Accounts struct {
	users  UserStore
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

// NewAccounts creates the accounts service
func NewAccounts(users UserStore, tokens *auth.TokenIssuer) *Accounts {
	return &Accounts{
		users:  users,
		tokens: tokens,
		logger: logger.Get(),
	}
}

// RegisterInput carries the registration request fields
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	Interests []string
}

func validateRegistration(in RegisterInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperrors.Validation("Name is required")
	}
	if len(name) < 2 {
		return apperrors.Validation("Name must be at least 2 characters long")
	}
	if in.Email == "" {
		return apperrors.Validation("Email is required")
	}
	if !emailPattern.MatchString(in.Email) {
		return apperrors.Validation("Invalid email format")
	}
	if in.Password == "" {
		return apperrors.Validation("Password is required")
	}
	if len(in.Password) < 6 {
		return apperrors.Validation("Password must be at least 6 characters long")
	}
	if in.Role != "" && in.Role != graph.RoleTraveller && in.Role != graph.RoleTripManager {
		return apperrors.Validation("Invalid role")
	}
	return nil
}

// Register creates a new user and returns it with a fresh token.
// Role defaults to traveller when not specified.
func (s *Accounts) Register(ctx context.Context, in RegisterInput) (*graph.User, string, error) {
	if err := validateRegistration(in); err != nil {
		return nil, "", err
	}

	// The store's uniqueness constraint still backstops this check
	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, "", apperrors.Conflict("User already exists")
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.CreateUser(ctx, &graph.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(in.Email),
		Role:         in.Role,
		Interests:    in.Interests,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
	)
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// An unknown email and a wrong password are indistinguishable.
func (s *Accounts) Login(ctx context.Context, email, password string) (*graph.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, "", apperrors.Unauthorized("Invalid credentials")
		}
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the user behind an authenticated request
func (s *Accounts) Profile(ctx context.Context, userID string) (*graph.User, error) {
	return s.users.GetUser(ctx, userID)
}

// UpdateProfile changes a user's name and email
func (s *Accounts) UpdateProfile(ctx context.Context, userID, name, email string) (*graph.User, error) {
	if email != "" && !emailPattern.MatchString(email) {
		return nil, apperrors.Validation("Invalid email format")
	}
	return s.users.UpdateUser(ctx, userID, name, email)
}
