package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "wayfarer/backend/pkg/errors"
)

// ============================================================================
// Itinerary Operations
// ============================================================================
//
// Stops are child nodes connected by ordered HAS_STOP edges. The
// organizer is linked with an ORGANIZES edge in addition to the
// organizer_id property, so organizer details come back in one query.

const itineraryReturnClause = `
	RETURN i.id as id, i.title as title, i.description as description,
	       i.organizer_id as organizer_id, i.price as price,
	       i.days as days, i.nights as nights,
	       i.reward_points as reward_points, i.status as status,
	       i.created_at as created_at,
	       [(i)-[s:HAS_STOP]->(st:Stop) | st {.*, order: s.order}] as stops,
	       head([(o:User)-[:ORGANIZES]->(i) | o {.id, .name, .email, .role}]) as organizer
`

func itineraryFromRecord(record *neo4j.Record) *ItineraryWithOrganizer {
	it := &ItineraryWithOrganizer{
		Itinerary: Itinerary{
			ID:           getStringFromRecord(record, "id"),
			Title:        getStringFromRecord(record, "title"),
			Description:  getStringFromRecord(record, "description"),
			OrganizerID:  getStringFromRecord(record, "organizer_id"),
			Price:        getFloat64FromRecord(record, "price"),
			Days:         getIntFromRecord(record, "days"),
			Nights:       getIntFromRecord(record, "nights"),
			RewardPoints: getIntFromRecord(record, "reward_points"),
			Status:       getStringFromRecord(record, "status"),
			CreatedAt:    getTimeFromRecord(record, "created_at"),
			Stops:        []Stop{},
		},
	}

	if raw, ok := record.Get("stops"); ok && raw != nil {
		if list, ok := raw.([]interface{}); ok {
			// Stops come back unordered; place them by the edge's order
			stops := make([]Stop, len(list))
			for _, item := range list {
				props, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				idx := 0
				if o, ok := props["order"].(int64); ok {
					idx = int(o)
				}
				if idx < 0 || idx >= len(stops) {
					continue
				}
				stops[idx] = Stop{
					Location:      getStringFromMap(props, "location"),
					ArrivalDate:   getTimeFromMap(props, "arrival_date"),
					DepartureDate: getTimeFromMap(props, "departure_date"),
					Accommodation: getStringFromMap(props, "accommodation"),
				}
			}
			it.Stops = stops
		}
	}

	if raw, ok := record.Get("organizer"); ok && raw != nil {
		if props, ok := raw.(map[string]interface{}); ok {
			it.Organizer = &Organizer{
				ID:    getStringFromMap(props, "id"),
				Name:  getStringFromMap(props, "name"),
				Email: getStringFromMap(props, "email"),
				Role:  getStringFromMap(props, "role"),
			}
		}
	}

	return it
}

func stopsParam(stops []Stop) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(stops))
	for i, s := range stops {
		out = append(out, map[string]interface{}{
			"order":          int64(i),
			"location":       s.Location,
			"arrival_date":   s.ArrivalDate.UTC().Format(time.RFC3339),
			"departure_date": s.DepartureDate.UTC().Format(time.RFC3339),
			"accommodation":  s.Accommodation,
		})
	}
	return out
}

// CreateItinerary persists an itinerary with its stops and organizer link
func (r *Repository) CreateItinerary(ctx context.Context, it *Itinerary) (*ItineraryWithOrganizer, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.Status == "" {
		it.Status = "draft"
	}
	it.CreatedAt = time.Now().UTC()

	query := `
		MATCH (o:User {id: $organizerID})
		CREATE (i:Itinerary {
			id: $id, title: $title, description: $description,
			organizer_id: $organizerID, price: $price,
			days: $days, nights: $nights,
			reward_points: $rewardPoints, status: $status,
			created_at: datetime($now)
		})
		CREATE (o)-[:ORGANIZES]->(i)
		WITH i
		CALL {
			WITH i
			UNWIND $stops as stop
			CREATE (st:Stop {
				location: stop.location,
				arrival_date: datetime(stop.arrival_date),
				departure_date: datetime(stop.departure_date),
				accommodation: stop.accommodation
			})
			CREATE (i)-[:HAS_STOP {order: stop.order}]->(st)
			RETURN count(st) as stopsCreated
		}
		WITH i
	` + itineraryReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":           it.ID,
		"title":        it.Title,
		"description":  it.Description,
		"organizerID":  it.OrganizerID,
		"price":        it.Price,
		"days":         it.Days,
		"nights":       it.Nights,
		"rewardPoints": it.RewardPoints,
		"status":       it.Status,
		"now":          it.CreatedAt.Format(time.RFC3339),
		"stops":        stopsParam(it.Stops),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	if result.Next(ctx) {
		return itineraryFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}
	return nil, apperrors.NotFound("User")
}

// GetItinerary fetches an itinerary with stops and organizer details
func (r *Repository) GetItinerary(ctx context.Context, id string) (*ItineraryWithOrganizer, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `MATCH (i:Itinerary {id: $id})` + itineraryReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}

	if result.Next(ctx) {
		return itineraryFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	return nil, apperrors.NotFound("Itinerary")
}

// ListItineraries returns all itineraries, newest first
func (r *Repository) ListItineraries(ctx context.Context) ([]*ItineraryWithOrganizer, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `MATCH (i:Itinerary)` + itineraryReturnClause + ` ORDER BY i.created_at DESC`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}

	items := []*ItineraryWithOrganizer{}
	for result.Next(ctx) {
		items = append(items, itineraryFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	return items, nil
}

// ListItinerariesByOrganizer returns one organizer's itineraries, newest first
func (r *Repository) ListItinerariesByOrganizer(ctx context.Context, organizerID string) ([]*ItineraryWithOrganizer, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `MATCH (i:Itinerary {organizer_id: $organizerID})` +
		itineraryReturnClause + ` ORDER BY i.created_at DESC`

	result, err := session.Run(ctx, query, map[string]interface{}{"organizerID": organizerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}

	items := []*ItineraryWithOrganizer{}
	for result.Next(ctx) {
		items = append(items, itineraryFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	return items, nil
}

// UpdateItinerary replaces an itinerary's fields and rebuilds its stops
func (r *Repository) UpdateItinerary(ctx context.Context, it *Itinerary) (*ItineraryWithOrganizer, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (i:Itinerary {id: $id})
		SET i.title = $title, i.description = $description,
		    i.price = $price, i.days = $days, i.nights = $nights,
		    i.reward_points = $rewardPoints, i.status = $status
		WITH i
		OPTIONAL MATCH (i)-[:HAS_STOP]->(old:Stop)
		DETACH DELETE old
		WITH DISTINCT i
		CALL {
			WITH i
			UNWIND $stops as stop
			CREATE (st:Stop {
				location: stop.location,
				arrival_date: datetime(stop.arrival_date),
				departure_date: datetime(stop.departure_date),
				accommodation: stop.accommodation
			})
			CREATE (i)-[:HAS_STOP {order: stop.order}]->(st)
			RETURN count(st) as stopsCreated
		}
		WITH i
	` + itineraryReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":           it.ID,
		"title":        it.Title,
		"description":  it.Description,
		"price":        it.Price,
		"days":         it.Days,
		"nights":       it.Nights,
		"rewardPoints": it.RewardPoints,
		"status":       it.Status,
		"stops":        stopsParam(it.Stops),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}

	if result.Next(ctx) {
		return itineraryFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}
	return nil, apperrors.NotFound("Itinerary")
}

// DeleteItinerary removes an itinerary with its stops
func (r *Repository) DeleteItinerary(ctx context.Context, id string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (i:Itinerary {id: $id})
		OPTIONAL MATCH (i)-[:HAS_STOP]->(st:Stop)
		DETACH DELETE st
		WITH DISTINCT i
		DETACH DELETE i
		RETURN count(i) as deleted
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}

	if result.Next(ctx) {
		if getIntFromRecord(result.Record(), "deleted") == 0 {
			return apperrors.NotFound("Itinerary")
		}
		return nil
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	return apperrors.NotFound("Itinerary")
}
