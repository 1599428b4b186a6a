package graph

import "time"

// User roles
const (
	RoleTraveller   = "traveller"
	RoleTripManager = "trip_manager"
)

// User represents a registered traveller or trip manager.
// Following/Followers are projections of FOLLOWS edges, hydrated on read.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Interests      []string  `json:"interests,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	PasswordHash   string    `json:"-"`
	Following      []string  `json:"following"`
	Followers      []string  `json:"followers"`
	CreatedAt      time.Time `json:"created_at"`
}

// Message is a directed message between two users. Immutable except for
// the read flag, which only the receiver-side mark-read operation flips.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationHead is the latest message exchanged with one counterpart,
// before the counterpart's display fields are hydrated.
type ConversationHead struct {
	CounterpartID string  `json:"counterpart_id"`
	LastMessage   Message `json:"last_message"`
}

// ConversationUser carries the counterpart display fields shown in a
// conversation list entry.
type ConversationUser struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

// Conversation is the derived, non-persisted grouping of message history
// by counterpart. Recomputed on every query.
type Conversation struct {
	ID              string           `json:"id"`
	User            ConversationUser `json:"user"`
	LastMessage     string           `json:"lastMessage"`
	LastMessageTime time.Time        `json:"lastMessageTime"`
	UnreadCount     int              `json:"unreadCount"`
}

// Event statuses
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

// Event is a bookable travel event
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	City            string    `json:"city"`
	Country         string    `json:"country"`
	Category        string    `json:"category"`
	PriceAmount     float64   `json:"price_amount"`
	PriceCurrency   string    `json:"price_currency"`
	DurationHours   int       `json:"duration_hours"`
	DurationMinutes int       `json:"duration_minutes"`
	Capacity        int       `json:"capacity"`
	Status          string    `json:"status"`
	Tags            []string  `json:"tags,omitempty"`
	Website         string    `json:"website,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Stop is one destination within an itinerary, ordered by HAS_STOP edges
type Stop struct {
	Location      string    `json:"location"`
	ArrivalDate   time.Time `json:"arrival_date"`
	DepartureDate time.Time `json:"departure_date"`
	Accommodation string    `json:"accommodation,omitempty"`
}

// Itinerary is a multi-stop trip plan created by a trip manager
type Itinerary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	OrganizerID  string    `json:"organizer_id"`
	Stops        []Stop    `json:"destinations"`
	Price        float64   `json:"price"`
	Days         int       `json:"days"`
	Nights       int       `json:"nights"`
	RewardPoints int       `json:"reward_points"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Organizer is the subset of user fields attached to itinerary listings
type Organizer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// ItineraryWithOrganizer pairs an itinerary with its organizer's details
type ItineraryWithOrganizer struct {
	Itinerary
	Organizer *Organizer `json:"organizer,omitempty"`
}

// Wishlist holds a user's saved events and itineraries, projected from
// WISHES edges
type Wishlist struct {
	UserID      string      `json:"user_id"`
	Events      []Event     `json:"events"`
	Itineraries []Itinerary `json:"itineraries"`
}
