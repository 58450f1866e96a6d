package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/models"
)

// CreateRefinishRequest represents the request body for creating a refinish entry
type CreateRefinishRequest struct {
	OrderNumber string `json:"order_number" binding:"required"`
	Description string `json:"description"`
}

// CreateRefinishEntry handles POST /api/v1/refinish - registers a reworked
// item in the refinish queue
func CreateRefinishEntry(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateRefinishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	entry := models.RefinishEntry{
		OrderNumber: req.OrderNumber,
		Description: req.Description,
		Status:      models.RefinishReceived,
		ReceivedBy:  user.Name,
	}

	db := config.GetDB()
	if err := db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create refinish entry",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
	})
}

// ListRefinishEntries handles GET /api/v1/refinish - lists refinish entries,
// optionally filtered by status
func ListRefinishEntries(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	query := db.Order("created_at ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var entries []models.RefinishEntry
	if err := query.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load refinish entries",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

// AdvanceRefinishEntry handles POST /api/v1/refinish/:id/advance - moves the
// entry one step through its linear status machine
func AdvanceRefinishEntry(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var entry models.RefinishEntry
	if err := db.First(&entry, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REFINISH_NOT_FOUND",
				"message": "Refinish entry not found",
			},
		})
		return
	}

	if err := entry.AdvanceStatus(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS_TRANSITION",
				"message": err.Error(),
			},
		})
		return
	}

	if err := db.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save refinish entry",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entry,
	})
}
