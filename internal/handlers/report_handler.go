package handlers

import (
	"net/http"

	"go-quote-backend/internal/database"
	"go-quote-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ReportData defines the shape of the dashboard payload
type ReportData struct {
	TotalQuotes   int64                  `json:"total_quotes"`
	PipelineValue float64                `json:"pipeline_value"`
	Pending       int64                  `json:"pending"`
	Approved      int64                  `json:"approved"`
	Rejected      int64                  `json:"rejected"`
	ByStatus      []database.StatusValue `json:"by_status"`
	RecentQuotes  []QuoteSummary         `json:"recent_quotes"`
}

// --- GET /api/reports ---
// Per-owner pipeline overview for the dashboard
func GetQuoteReport(c *gin.Context) {
	userID := currentUserID(c)

	var data ReportData

	// 1. Totals and status counts
	stats, err := database.GetQuoteStats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to calculate quote stats"})
		return
	}
	data.TotalQuotes = stats.TotalQuotes
	data.PipelineValue = stats.PipelineValue
	data.Pending = stats.Pending
	data.Approved = stats.Approved
	data.Rejected = stats.Rejected

	// 2. Value grouped by status
	data.ByStatus, err = database.GetQuoteValueByStatus(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to group quotes by status"})
		return
	}

	// 3. The five most recent quotes, newest first
	err = database.DB.Model(&models.Quote{}).
		Where("user_id = ?", userID).
		Select("id, quote_id, client_name, status, subtotal, grand_total, created_at, updated_at").
		Order("created_at desc").
		Limit(5).
		Scan(&data.RecentQuotes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch recent quotes"})
		return
	}

	c.JSON(http.StatusOK, data)
}
