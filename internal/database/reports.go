package database

import (
	"go-quote-backend/internal/models"
)

// QuoteStatsResult holds the dashboard numbers for one owner
type QuoteStatsResult struct {
	TotalQuotes   int64
	PipelineValue float64
	Pending       int64
	Approved      int64
	Rejected      int64
}

// GetQuoteStats sums up a single user's quote pipeline
func GetQuoteStats(userID uint) (*QuoteStatsResult, error) {
	var result QuoteStatsResult

	// 1. Total pipeline value
	// COALESCE ensures we get 0 instead of NULL if no quotes exist
	err := DB.Model(&models.Quote{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&result.PipelineValue).Error
	if err != nil {
		return nil, err
	}

	// 2. Count quotes
	err = DB.Model(&models.Quote{}).
		Where("user_id = ?", userID).
		Count(&result.TotalQuotes).Error
	if err != nil {
		return nil, err
	}

	// 3. Count by status
	counts := map[string]*int64{
		models.StatusPending:  &result.Pending,
		models.StatusApproved: &result.Approved,
		models.StatusRejected: &result.Rejected,
	}
	for status, dest := range counts {
		err = DB.Model(&models.Quote{}).
			Where("user_id = ? AND status = ?", userID, status).
			Count(dest).Error
		if err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// StatusValue is one row of the per-status value breakdown
type StatusValue struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Value  float64 `json:"value"`
}

// GetQuoteValueByStatus groups a user's quotes by status with totals
func GetQuoteValueByStatus(userID uint) ([]StatusValue, error) {
	var rows []StatusValue

	err := DB.Model(&models.Quote{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(grand_total), 0) as value").
		Where("user_id = ?", userID).
		Group("status").
		Order("value desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
