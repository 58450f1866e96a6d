package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/pipeline"
	"github.com/wheelworks/wheelshop-api/projections"
)

// loadOrders fetches the full order set for queue projections. On failure it
// writes the error response and returns ok=false.
func loadOrders(c *gin.Context) ([]models.Order, bool) {
	db := config.GetDB()
	var orders []models.Order
	if err := db.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return nil, false
	}
	return orders, true
}

// DepartmentQueue handles GET /api/v1/queues/department/:dept - the board
// view for one department. Cut orders are hidden before finishing.
func DepartmentQueue(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	dept := c.Param("dept")
	if !pipeline.IsValid(dept) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNKNOWN_DEPARTMENT",
				"message": "Unknown department: " + dept,
			},
		})
		return
	}

	orders, ok := loadOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    projections.ByDepartment(orders, dept),
	})
}

// RushQueue handles GET /api/v1/queues/rush - all rush-flagged orders
func RushQueue(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	orders, ok := loadOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    projections.RushQueue(orders),
	})
}

// HoldQueue handles GET /api/v1/queues/hold - all held orders with their age
func HoldQueue(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	orders, ok := loadOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    projections.HoldQueue(orders, time.Now()),
	})
}

// CutQueue handles GET /api/v1/queues/cut - all cut orders
func CutQueue(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	orders, ok := loadOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    projections.CutOrders(orders),
	})
}
