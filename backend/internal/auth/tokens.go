package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "wayfarer/backend/pkg/errors"
)

// TokenIssuer mints and verifies the HS256 bearer tokens handed out at
// registration and login. The secret and lifetime are injected from
// configuration at startup.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token whose subject is the user id
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return signed, nil
}

// Verify parses a token and returns the user id it was issued for.
// Expired, malformed, or foreign-key tokens all come back unauthorized.
func (t *TokenIssuer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", apperrors.Wrap(apperrors.KindUnauthorized, "Invalid token.", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperrors.Unauthorized("Invalid token.")
	}
	return claims.Subject, nil
}
