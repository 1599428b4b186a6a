package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"wayfarer/backend/pkg/logger"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

func (r *Repository) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

func (r *Repository) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// EnsureSchema creates the uniqueness constraints and indexes the
// repository relies on. Safe to call repeatedly.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
		"CREATE CONSTRAINT user_email_unique IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE",
		"CREATE CONSTRAINT message_id_unique IF NOT EXISTS FOR (m:Message) REQUIRE m.id IS UNIQUE",
		"CREATE CONSTRAINT event_id_unique IF NOT EXISTS FOR (e:Event) REQUIRE e.id IS UNIQUE",
		"CREATE CONSTRAINT itinerary_id_unique IF NOT EXISTS FOR (i:Itinerary) REQUIRE i.id IS UNIQUE",
		"CREATE INDEX message_created_at IF NOT EXISTS FOR (m:Message) ON (m.created_at)",
		"CREATE INDEX event_date IF NOT EXISTS FOR (e:Event) ON (e.date)",
	}

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	r.logger.Debug("Graph schema ensured", zap.Int("statements", len(statements)))
	return nil
}
