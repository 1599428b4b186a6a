package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSendMessage(c *gin.Context) {
	var req struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := s.messaging.Send(c.Request.Context(), currentUser(c).ID, req.ReceiverID, req.Content)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (s *Server) handleConversations(c *gin.Context) {
	conversations, err := s.messaging.ListConversations(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (s *Server) handleMessagesWith(c *gin.Context) {
	messages, err := s.messaging.MessagesWith(c.Request.Context(), currentUser(c).ID, c.Param("otherUserId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) handleMarkRead(c *gin.Context) {
	count, err := s.messaging.MarkRead(c.Request.Context(), currentUser(c).ID, c.Param("otherUserId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read", "count": count})
}
