package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"go-quote-backend/internal/database"
	"go-quote-backend/internal/models"
	"go-quote-backend/internal/pricing"
	"go-quote-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// materialFilter mirrors quoteFilter for material quotes: numeric
// identifiers hit the internal id, everything else the MAT code.
func materialFilter(userID uint, identifier string) *gorm.DB {
	db := database.DB.Where("user_id = ?", userID)
	if _, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		return db.Where("id = ?", identifier)
	}
	return db.Where("material_id = ?", identifier)
}

func validateMaterials(materials []models.MaterialItem) error {
	for i := range materials {
		m := &materials[i]
		if m.Qty <= 0 {
			return fmt.Errorf("material %d: qty must be positive", i+1)
		}
		if m.Rate < 0 {
			return fmt.Errorf("material %d: rate cannot be negative", i+1)
		}
		if m.Unit != "" && !models.IsValidUnit(m.Unit) {
			return fmt.Errorf("material %d: unknown unit %q", i+1, m.Unit)
		}
		if m.Amount < 0 {
			return fmt.Errorf("material %d: amount cannot be negative", i+1)
		}
	}
	return nil
}

func normalizeMaterials(materials []models.MaterialItem) {
	for i := range materials {
		m := &materials[i]
		if m.Amount == 0 {
			m.Amount = pricing.MaterialAmount(m.Qty, m.Rate)
		} else {
			m.Amount = pricing.Round2(m.Amount)
		}
	}
}

type CreateMaterialQuoteRequest struct {
	RecipientInfo models.RecipientInfo  `json:"recipientInfo"`
	Materials     []models.MaterialItem `json:"materials"`
	Status        string                `json:"status"`
}

// --- POST /api/materials ---
func CreateMaterialQuote(c *gin.Context) {
	userID := currentUserID(c)

	var req CreateMaterialQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}
	if len(req.Materials) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Material list is empty"})
		return
	}
	if err := validateMaterials(req.Materials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	normalizeMaterials(req.Materials)

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	totalValue := pricing.ComputeMaterialTotal(req.Materials)

	// MAT codes are random, so a collision is unlikely but possible;
	// same regenerate-once discipline as quote codes.
	var quote models.MaterialQuote
	for attempt := 0; ; attempt++ {
		quote = models.MaterialQuote{
			MaterialID:     utils.NewMaterialCode(),
			UserID:         userID,
			RecipientInfo:  datatypes.NewJSONType(req.RecipientInfo),
			Materials:      req.Materials,
			TotalValue:     totalValue,
			Status:         status,
			VersionHistory: datatypes.JSONSlice[models.MaterialVersion]{},
		}

		err := database.DB.Create(&quote).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if attempt == 0 {
				continue
			}
			c.JSON(http.StatusConflict, gin.H{"message": "Material code conflict, please retry"})
			return
		}
		log.Println("Create material quote error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Material quote created successfully",
		"quote":   quote,
	})
}

// --- GET /api/materials ---
func ListMaterialQuotes(c *gin.Context) {
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

	filtered := func() *gorm.DB {
		q := database.DB.Model(&models.MaterialQuote{}).Where("user_id = ?", userID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count material quotes"})
		return
	}

	items := []models.MaterialQuote{}
	err := filtered().
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch material quotes"})
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

// --- GET /api/materials/:id ---
func GetMaterialQuote(c *gin.Context) {
	userID := currentUserID(c)

	var quote models.MaterialQuote
	if err := materialFilter(userID, c.Param("id")).First(&quote).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Material quote not found"})
		return
	}

	// The details page consumes the object directly, not wrapped
	c.JSON(http.StatusOK, quote)
}

type UpdateMaterialQuoteRequest struct {
	RecipientInfo *models.RecipientInfo  `json:"recipientInfo"`
	Materials     *[]models.MaterialItem `json:"materials"`
	Status        *string                `json:"status"`
}

// --- PUT /api/materials/:id ---
// Same protocol as quotes: snapshot first, partial apply, recompute,
// one row write.
func UpdateMaterialQuote(c *gin.Context) {
	userID := currentUserID(c)

	var req UpdateMaterialQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}
	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}
	if req.Materials != nil {
		if err := validateMaterials(*req.Materials); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
	}

	var existing models.MaterialQuote
	if err := materialFilter(userID, c.Param("id")).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Material quote not found"})
		return
	}

	existing.VersionHistory = append(existing.VersionHistory, models.MaterialVersion{
		Timestamp: time.Now(),
		Previous: models.MaterialSnapshot{
			Materials:     existing.Materials,
			TotalValue:    existing.TotalValue,
			Status:        existing.Status,
			RecipientInfo: existing.RecipientInfo.Data(),
		},
	})

	if req.RecipientInfo != nil {
		existing.RecipientInfo = datatypes.NewJSONType(*req.RecipientInfo)
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}
	if req.Materials != nil {
		materials := *req.Materials
		normalizeMaterials(materials)
		existing.Materials = materials
		existing.TotalValue = pricing.ComputeMaterialTotal(materials)
	}

	if err := database.DB.Save(&existing).Error; err != nil {
		log.Println("Update material quote error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Material quote updated successfully",
		"quote":   existing,
	})
}

// --- DELETE /api/materials/:id ---
func DeleteMaterialQuote(c *gin.Context) {
	userID := currentUserID(c)

	var quote models.MaterialQuote
	if err := materialFilter(userID, c.Param("id")).First(&quote).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Material quote not found"})
		return
	}

	if err := database.DB.Delete(&quote).Error; err != nil {
		log.Println("Delete material quote error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Material quote deleted successfully",
		"deletedId": quote.MaterialID,
	})
}
