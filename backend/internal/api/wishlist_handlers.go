package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleGetWishlist(c *gin.Context) {
	wishlist, err := s.repo.GetWishlist(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wishlist)
}

func (s *Server) handleWishlistCheck(c *gin.Context) {
	present, err := s.repo.IsInWishlist(c.Request.Context(), currentUser(c).ID, c.Param("type"), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inWishlist": present})
}

func (s *Server) handleWishlistAddEvent(c *gin.Context) {
	if err := s.repo.AddEventToWishlist(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event added to wishlist"})
}

func (s *Server) handleWishlistRemoveEvent(c *gin.Context) {
	if err := s.repo.RemoveEventFromWishlist(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event removed from wishlist"})
}

func (s *Server) handleWishlistAddItinerary(c *gin.Context) {
	if err := s.repo.AddItineraryToWishlist(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Itinerary added to wishlist"})
}

func (s *Server) handleWishlistRemoveItinerary(c *gin.Context) {
	if err := s.repo.RemoveItineraryFromWishlist(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Itinerary removed from wishlist"})
}
