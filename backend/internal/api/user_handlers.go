package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wayfarer/backend/pkg/errors"
)

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.repo.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleUpdateInterests(c *gin.Context) {
	var req struct {
		Interests []string `json:"interests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.repo.UpdateInterests(c.Request.Context(), currentUser(c).ID, req.Interests)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// handleDeleteUser removes an account. Only the account owner may do it.
func (s *Server) handleDeleteUser(c *gin.Context) {
	if c.Param("id") != currentUser(c).ID {
		s.respondError(c, apperrors.Forbidden("You can only delete your own account"))
		return
	}

	if err := s.repo.DeleteUser(c.Request.Context(), currentUser(c).ID); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (s *Server) handleFollowStatus(c *gin.Context) {
	following, err := s.repo.IsFollowing(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFollowing": following})
}

func (s *Server) handleFollow(c *gin.Context) {
	followeeID := c.Param("id")
	if followeeID == currentUser(c).ID {
		s.respondError(c, apperrors.Validation("You cannot follow yourself"))
		return
	}

	if err := s.repo.Follow(c.Request.Context(), currentUser(c).ID, followeeID); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User followed successfully"})
}

func (s *Server) handleUnfollow(c *gin.Context) {
	if err := s.repo.Unfollow(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed successfully"})
}

func (s *Server) handleFollowing(c *gin.Context) {
	users, err := s.repo.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleFollowers(c *gin.Context) {
	users, err := s.repo.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleMutualFollowers(c *gin.Context) {
	users, err := s.repo.MutualFollowers(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
