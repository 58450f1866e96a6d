package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/models"
)

// SendMessageRequest represents the request body for posting to an order thread
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendMessage handles POST /api/v1/orders/:id/messages - posts a note to the
// order's discussion thread
func SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	var req SendMessageRequest
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

	message := models.Message{
		OrderID:  order.ID,
		SenderID: user.ID,
		Text:     req.Text,
	}

	db := config.GetDB()
	if err := db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create message",
			},
		})
		return
	}

	// Load the sender relationship to return complete data
	if err := db.Preload("Sender").First(&message, message.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load message details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /api/v1/orders/:id/messages - the order's thread,
// oldest first
func ListMessages(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var messages []models.Message
	if err := db.Preload("Sender").Where("order_id = ?", order.ID).Order("created_at ASC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load messages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
