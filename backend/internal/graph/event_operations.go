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
// Event Operations
// ============================================================================

const eventReturnClause = `
	RETURN e.id as id, e.title as title, e.description as description,
	       e.date as date, e.city as city, e.country as country,
	       e.category as category,
	       e.price_amount as price_amount, e.price_currency as price_currency,
	       e.duration_hours as duration_hours, e.duration_minutes as duration_minutes,
	       e.capacity as capacity, e.status as status, e.tags as tags,
	       e.website as website, e.created_at as created_at
`

func eventFromRecord(record *neo4j.Record) *Event {
	return &Event{
		ID:              getStringFromRecord(record, "id"),
		Title:           getStringFromRecord(record, "title"),
		Description:     getStringFromRecord(record, "description"),
		Date:            getTimeFromRecord(record, "date"),
		City:            getStringFromRecord(record, "city"),
		Country:         getStringFromRecord(record, "country"),
		Category:        getStringFromRecord(record, "category"),
		PriceAmount:     getFloat64FromRecord(record, "price_amount"),
		PriceCurrency:   getStringFromRecord(record, "price_currency"),
		DurationHours:   getIntFromRecord(record, "duration_hours"),
		DurationMinutes: getIntFromRecord(record, "duration_minutes"),
		Capacity:        getIntFromRecord(record, "capacity"),
		Status:          getStringFromRecord(record, "status"),
		Tags:            getStringSliceFromRecord(record, "tags"),
		Website:         getStringFromRecord(record, "website"),
		CreatedAt:       getTimeFromRecord(record, "created_at"),
	}
}

func eventParams(e *Event) map[string]interface{} {
	return map[string]interface{}{
		"id":              e.ID,
		"title":           e.Title,
		"description":     e.Description,
		"date":            e.Date.UTC().Format(time.RFC3339),
		"city":            e.City,
		"country":         e.Country,
		"category":        e.Category,
		"priceAmount":     e.PriceAmount,
		"priceCurrency":   e.PriceCurrency,
		"durationHours":   e.DurationHours,
		"durationMinutes": e.DurationMinutes,
		"capacity":        e.Capacity,
		"status":          e.Status,
		"tags":            e.Tags,
		"website":         e.Website,
	}
}

// CreateEvent persists a new event node
func (r *Repository) CreateEvent(ctx context.Context, e *Event) (*Event, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = EventStatusDraft
	}
	if e.PriceCurrency == "" {
		e.PriceCurrency = "INR"
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	e.CreatedAt = time.Now().UTC()

	query := `
		CREATE (e:Event {
			id: $id, title: $title, description: $description,
			date: datetime($date), city: $city, country: $country,
			category: $category,
			price_amount: $priceAmount, price_currency: $priceCurrency,
			duration_hours: $durationHours, duration_minutes: $durationMinutes,
			capacity: $capacity, status: $status, tags: $tags,
			website: $website, created_at: datetime($now)
		})
	` + eventReturnClause

	params := eventParams(e)
	params["now"] = e.CreatedAt.Format(time.RFC3339)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if result.Next(ctx) {
		return eventFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return nil, apperrors.Internal(fmt.Errorf("create event returned no record"))
}

// GetEvent fetches an event by id
func (r *Repository) GetEvent(ctx context.Context, id string) (*Event, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `MATCH (e:Event {id: $id})` + eventReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if result.Next(ctx) {
		return eventFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return nil, apperrors.NotFound("Event")
}

// ListEvents returns all events ordered by date
func (r *Repository) ListEvents(ctx context.Context) ([]*Event, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `MATCH (e:Event)` + eventReturnClause + ` ORDER BY e.date ASC`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := []*Event{}
	for result.Next(ctx) {
		events = append(events, eventFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateEvent overwrites an event's mutable fields
func (r *Repository) UpdateEvent(ctx context.Context, e *Event) (*Event, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (e:Event {id: $id})
		SET e.title = $title, e.description = $description,
		    e.date = datetime($date), e.city = $city, e.country = $country,
		    e.category = $category,
		    e.price_amount = $priceAmount, e.price_currency = $priceCurrency,
		    e.duration_hours = $durationHours, e.duration_minutes = $durationMinutes,
		    e.capacity = $capacity, e.status = $status, e.tags = $tags,
		    e.website = $website
	` + eventReturnClause

	result, err := session.Run(ctx, query, eventParams(e))
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if result.Next(ctx) {
		return eventFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return nil, apperrors.NotFound("Event")
}

// DeleteEvent removes an event and any wishlist edges pointing at it
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (e:Event {id: $id})
		DETACH DELETE e
		RETURN count(e) as deleted
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.Next(ctx) {
		if getIntFromRecord(result.Record(), "deleted") == 0 {
			return apperrors.NotFound("Event")
		}
		return nil
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return apperrors.NotFound("Event")
}
