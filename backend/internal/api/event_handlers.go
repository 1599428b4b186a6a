package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/backend/internal/graph"
	apperrors "wayfarer/backend/pkg/errors"
)

// eventRequest mirrors the nested JSON shape events are submitted in
type eventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
	Category string `json:"category"`
	Price    struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"price"`
	Duration struct {
		Hours   int `json:"hours"`
		Minutes int `json:"minutes"`
	} `json:"duration"`
	Capacity int      `json:"capacity"`
	Status   string   `json:"status"`
	Tags     []string `json:"tags"`
	Website  string   `json:"website"`
}

func (req *eventRequest) validate() error {
	if req.Title == "" {
		return apperrors.Validation("Title is required")
	}
	if req.Date.IsZero() {
		return apperrors.Validation("Date is required")
	}
	if req.Location.City == "" || req.Location.Country == "" {
		return apperrors.Validation("Location city and country are required")
	}
	switch req.Status {
	case "", graph.EventStatusDraft, graph.EventStatusPublished,
		graph.EventStatusCancelled, graph.EventStatusCompleted:
	default:
		return apperrors.Validation("Invalid event status")
	}
	return nil
}

func (req *eventRequest) toEvent(id string) *graph.Event {
	return &graph.Event{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		City:            req.Location.City,
		Country:         req.Location.Country,
		Category:        req.Category,
		PriceAmount:     req.Price.Amount,
		PriceCurrency:   req.Price.Currency,
		DurationHours:   req.Duration.Hours,
		DurationMinutes: req.Duration.Minutes,
		Capacity:        req.Capacity,
		Status:          req.Status,
		Tags:            req.Tags,
		Website:         req.Website,
	}
}

func (s *Server) handleListEvents(c *gin.Context) {
	events, err := s.repo.ListEvents(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) handleGetEvent(c *gin.Context) {
	event, err := s.repo.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	event, err := s.repo.CreateEvent(c.Request.Context(), req.toEvent(""))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	event, err := s.repo.UpdateEvent(c.Request.Context(), req.toEvent(c.Param("id")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	if err := s.repo.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// handleEventPreview fetches link metadata for the event's website
func (s *Server) handleEventPreview(c *gin.Context) {
	event, err := s.repo.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if event.Website == "" {
		s.respondError(c, apperrors.Validation("Event has no website to preview"))
		return
	}

	meta, err := s.previews.Fetch(c.Request.Context(), event.Website)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
