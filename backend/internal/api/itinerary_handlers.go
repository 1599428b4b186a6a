package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/backend/internal/graph"
	apperrors "wayfarer/backend/pkg/errors"
)

// itineraryRequest mirrors the JSON shape itineraries are submitted in
type itineraryRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Destinations []struct {
		Location      string    `json:"location"`
		ArrivalDate   time.Time `json:"arrival_date"`
		DepartureDate time.Time `json:"departure_date"`
		Accommodation string    `json:"accommodation"`
	} `json:"destinations"`
	Price        float64 `json:"price"`
	Days         int     `json:"days"`
	Nights       int     `json:"nights"`
	RewardPoints int     `json:"reward_points"`
	Status       string  `json:"status"`
}

func (req *itineraryRequest) validate() error {
	if req.Title == "" {
		return apperrors.Validation("Title is required")
	}
	if len(req.Destinations) == 0 {
		return apperrors.Validation("At least one destination is required")
	}
	for _, d := range req.Destinations {
		if d.Location == "" {
			return apperrors.Validation("Each destination needs a location")
		}
		if d.ArrivalDate.IsZero() || d.DepartureDate.IsZero() {
			return apperrors.Validation("Each destination needs arrival and departure dates")
		}
		if d.DepartureDate.Before(d.ArrivalDate) {
			return apperrors.Validation("Departure date cannot be before arrival date")
		}
	}
	if req.Price < 0 {
		return apperrors.Validation("Price cannot be negative")
	}
	return nil
}

func (req *itineraryRequest) toItinerary(id, organizerID string) *graph.Itinerary {
	stops := make([]graph.Stop, len(req.Destinations))
	for i, d := range req.Destinations {
		stops[i] = graph.Stop{
			Location:      d.Location,
			ArrivalDate:   d.ArrivalDate,
			DepartureDate: d.DepartureDate,
			Accommodation: d.Accommodation,
		}
	}
	return &graph.Itinerary{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		OrganizerID:  organizerID,
		Stops:        stops,
		Price:        req.Price,
		Days:         req.Days,
		Nights:       req.Nights,
		RewardPoints: req.RewardPoints,
		Status:       req.Status,
	}
}

func (s *Server) handleListItineraries(c *gin.Context) {
	itineraries, err := s.repo.ListItineraries(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itineraries)
}

func (s *Server) handleMyItineraries(c *gin.Context) {
	itineraries, err := s.repo.ListItinerariesByOrganizer(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itineraries)
}

func (s *Server) handleGetItinerary(c *gin.Context) {
	itinerary, err := s.repo.GetItinerary(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itinerary)
}

func (s *Server) handleCreateItinerary(c *gin.Context) {
	var req itineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	itinerary, err := s.repo.CreateItinerary(c.Request.Context(), req.toItinerary("", currentUser(c).ID))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, itinerary)
}

// requireOwnItinerary loads the itinerary and rejects requesters who
// are not its organizer
func (s *Server) requireOwnItinerary(c *gin.Context) (*graph.ItineraryWithOrganizer, bool) {
	existing, err := s.repo.GetItinerary(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	if existing.OrganizerID != currentUser(c).ID {
		s.respondError(c, apperrors.Forbidden("You can only modify your own itineraries"))
		return nil, false
	}
	return existing, true
}

func (s *Server) handleUpdateItinerary(c *gin.Context) {
	existing, ok := s.requireOwnItinerary(c)
	if !ok {
		return
	}

	var req itineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	itinerary, err := s.repo.UpdateItinerary(c.Request.Context(), req.toItinerary(existing.ID, existing.OrganizerID))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, itinerary)
}

func (s *Server) handleDeleteItinerary(c *gin.Context) {
	if _, ok := s.requireOwnItinerary(c); !ok {
		return
	}

	if err := s.repo.DeleteItinerary(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Itinerary deleted successfully"})
}
