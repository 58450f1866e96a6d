package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/engine"
	"github.com/wheelworks/wheelshop-api/middleware"
	"github.com/wheelworks/wheelshop-api/models"
)

// currentUser resolves the authenticated user from the JWT subject. On
// failure it writes the error response and returns ok=false; the handler
// should just return.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// respondEngineError maps an engine rule violation to an HTTP response,
// surfacing the engine's message verbatim. Non-engine errors fall through to
// a generic 500 so backend failures are never dressed up as domain errors.
func respondEngineError(c *gin.Context, err error) {
	var engErr *engine.Error
	if !errors.As(err, &engErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred",
			},
		})
		return
	}

	status := http.StatusConflict
	switch engErr.Code {
	case engine.CodeReasonRequired, engine.CodeUnknownDepartment, engine.CodeInvalidStatus:
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    engErr.Code,
			"message": engErr.Message,
		},
	})
}

// findOrder loads an order with its history by URL id parameter. On failure
// it writes the error response and returns ok=false.
func findOrder(c *gin.Context) (*models.Order, bool) {
	db := config.GetDB()
	var order models.Order
	if err := db.Preload("History").First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return nil, false
	}
	return &order, true
}
