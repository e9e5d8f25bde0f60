package handlers

import (
	"net/http"

	"github.com/brainstorm-app/brainstorm-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ChatInput is the JSON body for POST /api/ai/chat.
type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

// ChatAI is the handler for POST /api/ai/chat. Reviewers use it to ask
// questions about the idea pipeline ("which categories reject the most?").
// The service is optional: when no API key was configured at startup the
// endpoint reports itself unavailable instead of failing mid-request.
func (h *Handlers) ChatAI(c *gin.Context) {
	if h.AIService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not configured"})
		return
	}

	userRole := c.GetString(middleware.CtxUserRole)

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	aiResponse, err := h.AIService.GenerateResponse(c.Request.Context(), input.Message, userRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Service unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": aiResponse})
}
