package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanbyul/triago/pkg/chat"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Developer Profile Agents API",
		"version": Version,
		"endpoints": gin.H{
			"chat":    "/chat",
			"health":  "/health",
			"metrics": "/metrics",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UnixMilli(),
		"store_type": s.service.StoreType(),
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	resp, err := s.service.HandleTurn(c.Request.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Msg("Chat turn failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat turn failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
