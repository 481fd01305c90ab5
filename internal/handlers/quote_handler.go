package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-quote-backend/internal/database"
	"go-quote-backend/internal/models"
	"go-quote-backend/internal/pricing"
	"go-quote-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func currentUserID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}

// quoteFilter builds the owner-scoped lookup for a path identifier that
// may be either the internal numeric id or the human-readable code.
// Cross-user access falls through to "not found", never "forbidden".
func quoteFilter(userID uint, identifier string) *gorm.DB {
	db := database.DB.Where("user_id = ?", userID)
	if _, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		return db.Where("id = ?", identifier)
	}
	return db.Where("quote_id = ?", identifier)
}

// validateWindows rejects invalid numeric input at the boundary instead
// of letting bad numbers silently contribute zero to a financial total.
func validateWindows(windows []models.WindowItem) error {
	for i := range windows {
		w := &windows[i]
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("window %d: width and height must be positive", i+1)
		}
		if w.Quantity <= 0 {
			return fmt.Errorf("window %d: quantity must be positive", i+1)
		}
		if w.PricePerFt <= 0 {
			return fmt.Errorf("window %d: pricePerFt must be positive", i+1)
		}
		if w.SqFt < 0 || w.Amount < 0 {
			return fmt.Errorf("window %d: sqFt and amount cannot be negative", i+1)
		}
	}
	return nil
}

// normalizeWindows derives sqFt and amount for lines the client did not
// price, and rounds stored values to 2 decimals either way.
func normalizeWindows(windows []models.WindowItem) {
	for i := range windows {
		w := &windows[i]
		if w.SqFt == 0 {
			w.SqFt = pricing.WindowSqFt(w.Width, w.Height)
		} else {
			w.SqFt = pricing.Round2(w.SqFt)
		}
		if w.Amount == 0 {
			w.Amount = pricing.WindowAmount(w.SqFt, w.PricePerFt, w.Quantity)
		} else {
			w.Amount = pricing.Round2(w.Amount)
		}
	}
}

type CreateQuoteRequest struct {
	Windows        []models.WindowItem `json:"windows"`
	ApplyGST       *bool               `json:"applyGST"`
	CgstPerc       *float64            `json:"cgstPerc"`
	SgstPerc       *float64            `json:"sgstPerc"`
	PackingCharges *float64            `json:"packingCharges"`
	ClientName     string              `json:"clientName"`
	Project        string              `json:"project"`
	Finish         string              `json:"finish"`
}

// --- POST /api/quotes ---
func CreateQuote(c *gin.Context) {
	userID := currentUserID(c)

	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}
	if len(req.Windows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Window list is empty"})
		return
	}
	if err := validateWindows(req.Windows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	normalizeWindows(req.Windows)

	// Financial defaults when the configurator sends nothing
	cfg := pricing.DefaultTaxConfig()
	if req.ApplyGST != nil {
		cfg.ApplyGST = *req.ApplyGST
	}
	if req.CgstPerc != nil {
		cfg.CgstPerc = *req.CgstPerc
	}
	if req.SgstPerc != nil {
		cfg.SgstPerc = *req.SgstPerc
	}
	if req.PackingCharges != nil {
		cfg.PackingCharges = *req.PackingCharges
	}

	totals := pricing.ComputeWindowTotals(req.Windows, cfg)

	// Code generation reads the latest row and writes a new one without
	// a transaction, so a concurrent create can collide on the unique
	// index. Regenerate once before surfacing a conflict.
	var quote models.Quote
	for attempt := 0; ; attempt++ {
		code, err := utils.NextQuoteCode(database.DB)
		if err != nil {
			log.Println("Quote code generation error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate quote code"})
			return
		}

		quote = models.Quote{
			QuoteID:        code,
			UserID:         userID,
			ClientName:     req.ClientName,
			Project:        req.Project,
			Finish:         req.Finish,
			ApplyGST:       cfg.ApplyGST,
			CgstPerc:       cfg.CgstPerc,
			SgstPerc:       cfg.SgstPerc,
			PackingCharges: cfg.PackingCharges,
			Windows:        req.Windows,
			Status:         models.StatusPending,
			Subtotal:       totals.Subtotal,
			Cgst:           totals.Cgst,
			Sgst:           totals.Sgst,
			GrandTotal:     totals.GrandTotal,
			VersionHistory: datatypes.JSONSlice[models.QuoteVersion]{},
		}

		err = database.DB.Create(&quote).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if attempt == 0 {
				continue
			}
			c.JSON(http.StatusConflict, gin.H{"message": "Quote code conflict, please retry"})
			return
		}
		log.Println("Create quote error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Quote created successfully",
		"quote":   quote,
	})
}

// QuoteSummary is the trimmed list row: no windows, no version history
type QuoteSummary struct {
	ID         uint      `json:"id"`
	QuoteID    string    `json:"quoteId"`
	ClientName string    `json:"clientName"`
	Status     string    `json:"status"`
	Subtotal   float64   `json:"subtotal"`
	GrandTotal float64   `json:"grandTotal"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var quoteSortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"grandTotal": "grand_total",
	"quoteId":    "quote_id",
}

// parseQuoteSort maps the client's "-createdAt" style key onto a
// whitelisted ORDER BY clause. Unknown keys fall back to newest first.
func parseQuoteSort(sort string) string {
	key := strings.TrimPrefix(sort, "-")
	col, ok := quoteSortColumns[key]
	if !ok {
		return "created_at DESC"
	}
	if strings.HasPrefix(sort, "-") {
		return col + " DESC"
	}
	return col + " ASC"
}

// --- GET /api/quotes ---
func ListQuotes(c *gin.Context) {
	userID := currentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	status := c.Query("status")
	search := strings.TrimSpace(c.Query("q"))
	order := parseQuoteSort(c.DefaultQuery("sort", "-createdAt"))

	filtered := func() *gorm.DB {
		q := database.DB.Model(&models.Quote{}).Where("user_id = ?", userID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		if search != "" {
			q = q.Where("quote_id LIKE ?", "%"+search+"%")
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count quotes"})
		return
	}

	items := []QuoteSummary{}
	err := filtered().
		Select("id, quote_id, client_name, status, subtotal, grand_total, created_at, updated_at").
		Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch quotes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"pages": (total + int64(limit) - 1) / int64(limit),
		"items": items,
	})
}

// --- GET /api/quotes/:id ---
func GetQuote(c *gin.Context) {
	userID := currentUserID(c)

	var quote models.Quote
	if err := quoteFilter(userID, c.Param("id")).First(&quote).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Quote not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote fetched successfully",
		"quote":   quote,
	})
}

type UpdateQuoteRequest struct {
	Windows        *[]models.WindowItem `json:"windows"`
	Status         *string              `json:"status"`
	ApplyGST       *bool                `json:"applyGST"`
	CgstPerc       *float64             `json:"cgstPerc"`
	SgstPerc       *float64             `json:"sgstPerc"`
	PackingCharges *float64             `json:"packingCharges"`
	ClientName     *string              `json:"clientName"`
	Project        *string              `json:"project"`
	Finish         *string              `json:"finish"`
}

// --- PUT /api/quotes/:id ---
// Partial update: absent fields stay untouched. The pre-update state is
// appended to the version history before anything is mutated, and the
// whole row (history included) persists in a single write.
func UpdateQuote(c *gin.Context) {
	userID := currentUserID(c)

	var req UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}
	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}
	if req.Windows != nil {
		if err := validateWindows(*req.Windows); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
	}

	var existing models.Quote
	if err := quoteFilter(userID, c.Param("id")).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Quote not found"})
		return
	}

	// 1. Save the old version before touching anything
	existing.VersionHistory = append(existing.VersionHistory, models.QuoteVersion{
		Timestamp: time.Now(),
		Previous: models.QuoteSnapshot{
			Windows:        existing.Windows,
			Subtotal:       existing.Subtotal,
			Cgst:           existing.Cgst,
			Sgst:           existing.Sgst,
			GrandTotal:     existing.GrandTotal,
			Status:         existing.Status,
			ClientName:     existing.ClientName,
			Project:        existing.Project,
			Finish:         existing.Finish,
			ApplyGST:       existing.ApplyGST,
			PackingCharges: existing.PackingCharges,
		},
	})

	// 2. Apply only the fields present in the payload
	if req.ClientName != nil {
		existing.ClientName = *req.ClientName
	}
	if req.Project != nil {
		existing.Project = *req.Project
	}
	if req.Finish != nil {
		existing.Finish = *req.Finish
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}
	if req.ApplyGST != nil {
		existing.ApplyGST = *req.ApplyGST
	}
	if req.CgstPerc != nil {
		existing.CgstPerc = *req.CgstPerc
	}
	if req.SgstPerc != nil {
		existing.SgstPerc = *req.SgstPerc
	}
	if req.PackingCharges != nil {
		existing.PackingCharges = *req.PackingCharges
	}

	// 3. Replace windows and recompute the subtotal if a new list came in
	if req.Windows != nil {
		windows := *req.Windows
		normalizeWindows(windows)
		existing.Windows = windows
		existing.Subtotal = pricing.SumWindowAmounts(windows)
	}

	// 4. Always recompute taxes and the grand total: percentages or
	// packing charges may have changed even if the windows did not.
	totals := pricing.ComputeFromSubtotal(existing.Subtotal, pricing.TaxConfig{
		ApplyGST:       existing.ApplyGST,
		CgstPerc:       existing.CgstPerc,
		SgstPerc:       existing.SgstPerc,
		PackingCharges: existing.PackingCharges,
	})
	existing.Cgst = totals.Cgst
	existing.Sgst = totals.Sgst
	existing.GrandTotal = totals.GrandTotal

	if err := database.DB.Save(&existing).Error; err != nil {
		log.Println("Update quote error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote updated successfully",
		"quote":   existing,
	})
}

// --- DELETE /api/quotes/:id ---
func DeleteQuote(c *gin.Context) {
	userID := currentUserID(c)

	var quote models.Quote
	if err := quoteFilter(userID, c.Param("id")).First(&quote).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Quote not found or not yours"})
		return
	}

	if err := database.DB.Delete(&quote).Error; err != nil {
		log.Println("Delete quote error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Quote deleted successfully",
		"deletedQuoteId": quote.QuoteID,
	})
}
