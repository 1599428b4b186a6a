package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfarer/backend/internal/graph"
	apperrors "wayfarer/backend/pkg/errors"
)

// currentUserKey is the gin context key the auth middleware stores the
// authenticated user under
const currentUserKey = "currentUser"

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requireAuth verifies the bearer token and loads the user behind it
// into the request context. The loaded user carries fresh follow
// projections, so downstream gates see current relationship state.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			return
		}

		userID, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
			return
		}

		user, err := s.repo.GetUser(c.Request.Context(), userID)
		if err != nil {
			if apperrors.Is(err, apperrors.KindNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token. User not found."})
				return
			}
			s.respondError(c, err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// requireTripManager restricts a route to trip manager accounts.
// Must run after requireAuth.
func (s *Server) requireTripManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != graph.RoleTripManager {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. Trip manager role required."})
			return
		}
		c.Next()
	}
}

// currentUser returns the user loaded by requireAuth
func currentUser(c *gin.Context) *graph.User {
	return c.MustGet(currentUserKey).(*graph.User)
}
