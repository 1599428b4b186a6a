package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"wayfarer/backend/internal/auth"
	"wayfarer/backend/internal/graph"
	"wayfarer/backend/pkg/config"
	apperrors "wayfarer/backend/pkg/errors"
	"wayfarer/backend/pkg/logger"
)

func main() {
	force := flag.Bool("force", false, "Seed even if demo users already exist")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := graph.NewRepository(driver)

	log.Info("Applying schema constraints and indexes...")
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to apply graph schema", zap.Error(err))
	}

	// Check whether demo data is already present
	if _, err := repo.GetUserByEmail(ctx, "asha@example.com"); err == nil && !*force {
		log.Info("Demo users already exist, skipping seeding (use -force to reseed)")
		os.Exit(0)
	}

	users := seedUsers(ctx, log, repo)
	seedFollows(ctx, log, repo, users)
	seedMessages(ctx, log, repo, users)
	seedEvents(ctx, log, repo)
	seedItineraries(ctx, log, repo, users)

	log.Info("Seeding complete")
}

func seedUsers(ctx context.Context, log *zap.Logger, repo *graph.Repository) map[string]*graph.User {
	demo := []struct {
		name      string
		email     string
		role      string
		interests []string
	}{
		{"Asha Nair", "asha@example.com", graph.RoleTraveller, []string{"hiking", "street food"}},
		{"Boris Ivanov", "boris@example.com", graph.RoleTraveller, []string{"museums", "photography"}},
		{"Chitra Rao", "chitra@example.com", graph.RoleTripManager, []string{"trekking"}},
		{"Daan Visser", "daan@example.com", graph.RoleTraveller, nil},
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatal("Failed to hash demo password", zap.Error(err))
	}

	users := make(map[string]*graph.User, len(demo))
	for _, d := range demo {
		user, err := repo.CreateUser(ctx, &graph.User{
			Name:         d.name,
			Email:        d.email,
			Role:         d.role,
			Interests:    d.interests,
			PasswordHash: hash,
		})
		if err != nil {
			if apperrors.Is(err, apperrors.KindConflict) {
				user, err = repo.GetUserByEmail(ctx, d.email)
			}
			if err != nil {
				log.Fatal("Failed to seed user", zap.String("email", d.email), zap.Error(err))
			}
		}
		users[d.email] = user
		log.Info("Seeded user", zap.String("email", d.email), zap.String("id", user.ID))
	}
	return users
}

func seedFollows(ctx context.Context, log *zap.Logger, repo *graph.Repository, users map[string]*graph.User) {
	// Asha and Boris follow each other; Daan follows Asha one-way
	pairs := [][2]string{
		{"asha@example.com", "boris@example.com"},
		{"boris@example.com", "asha@example.com"},
		{"daan@example.com", "asha@example.com"},
		{"asha@example.com", "chitra@example.com"},
		{"chitra@example.com", "asha@example.com"},
	}
	for _, p := range pairs {
		err := repo.Follow(ctx, users[p[0]].ID, users[p[1]].ID)
		if err != nil && !apperrors.Is(err, apperrors.KindConflict) {
			log.Fatal("Failed to seed follow", zap.String("from", p[0]), zap.String("to", p[1]), zap.Error(err))
		}
	}
	log.Info("Seeded follow relationships", zap.Int("count", len(pairs)))
}

func seedMessages(ctx context.Context, log *zap.Logger, repo *graph.Repository, users map[string]*graph.User) {
	asha := users["asha@example.com"].ID
	boris := users["boris@example.com"].ID

	exchanges := []struct {
		from, to, content string
	}{
		{asha, boris, "Hey, are you joining the Hampi trip next month?"},
		{boris, asha, "Thinking about it! Is the itinerary up yet?"},
		{asha, boris, "Chitra just published it, check the itineraries tab."},
	}
	for _, e := range exchanges {
		if _, err := repo.CreateMessage(ctx, e.from, e.to, e.content); err != nil {
			log.Fatal("Failed to seed message", zap.Error(err))
		}
	}
	log.Info("Seeded messages", zap.Int("count", len(exchanges)))
}

func seedEvents(ctx context.Context, log *zap.Logger, repo *graph.Repository) {
	events := []*graph.Event{
		{
			Title:         "Hampi Heritage Walk",
			Description:   "Guided sunrise walk through the Vijayanagara ruins.",
			Date:          time.Now().AddDate(0, 1, 0),
			City:          "Hampi",
			Country:       "India",
			Category:      "heritage",
			PriceAmount:   1500,
			PriceCurrency: "INR",
			DurationHours: 4,
			Capacity:      20,
			Status:        graph.EventStatusPublished,
			Tags:          []string{"history", "walking"},
			Website:       "https://hampi.in",
		},
		{
			Title:         "Backwater Kayaking",
			Description:   "Half-day paddle through the Alleppey backwaters.",
			Date:          time.Now().AddDate(0, 2, 0),
			City:          "Alleppey",
			Country:       "India",
			Category:      "adventure",
			PriceAmount:   2200,
			PriceCurrency: "INR",
			DurationHours: 5,
			Capacity:      12,
			Status:        graph.EventStatusPublished,
			Tags:          []string{"water", "nature"},
		},
	}
	for _, e := range events {
		if _, err := repo.CreateEvent(ctx, e); err != nil {
			log.Fatal("Failed to seed event", zap.String("title", e.Title), zap.Error(err))
		}
	}
	log.Info("Seeded events", zap.Int("count", len(events)))
}

func seedItineraries(ctx context.Context, log *zap.Logger, repo *graph.Repository, users map[string]*graph.User) {
	organizer := users["chitra@example.com"].ID

	itinerary := &graph.Itinerary{
		Title:       "Karnataka Golden Triangle",
		Description: "Bangalore, Mysore, and Hampi over five days.",
		OrganizerID: organizer,
		Stops: []graph.Stop{
			{Location: "Bangalore", ArrivalDate: time.Now().AddDate(0, 1, 0), DepartureDate: time.Now().AddDate(0, 1, 1)},
			{Location: "Mysore", ArrivalDate: time.Now().AddDate(0, 1, 1), DepartureDate: time.Now().AddDate(0, 1, 3), Accommodation: "Hotel Mayura"},
			{Location: "Hampi", ArrivalDate: time.Now().AddDate(0, 1, 3), DepartureDate: time.Now().AddDate(0, 1, 5), Accommodation: "Riverside Lodge"},
		},
		Price:        18500,
		Days:         5,
		Nights:       4,
		RewardPoints: 185,
		Status:       "published",
	}
	if _, err := repo.CreateItinerary(ctx, itinerary); err != nil {
		log.Fatal("Failed to seed itinerary", zap.Error(err))
	}
	log.Info("Seeded itineraries", zap.Int("count", 1))
}
