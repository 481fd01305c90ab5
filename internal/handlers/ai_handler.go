package handlers

import (
	"net/http"
	"os"

	"go-quote-backend/internal/ai"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// --- POST /api/ask ---
func AskAI(c *gin.Context) {
	userID := currentUserID(c)

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message is required"})
		return
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server missing Gemini API key"})
		return
	}

	response, err := ai.RunAgent(req.Message, userID, apiKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": response})
}
