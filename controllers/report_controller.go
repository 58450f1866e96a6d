package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/export"
	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/reports"
)

// DepartmentStats handles GET /api/v1/reports/departments - order counts per
// department for the dashboard cards
func DepartmentStats(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	orders, ok := loadOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports.StatsByDepartment(orders),
	})
}

// ProductStats handles GET /api/v1/reports/products - order counts per
// product type, caps pre-summed
func ProductStats(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	orders, ok := loadOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports.StatsByProduct(orders),
	})
}

// dailyPerformanceData computes the performance report for the requested
// date. On failure it writes the error response and returns ok=false.
func dailyPerformanceData(c *gin.Context) (string, []reports.UserPerformance, bool) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid date; expected YYYY-MM-DD",
			},
		})
		return "", nil, false
	}

	db := config.GetDB()
	var movements []models.Movement
	if err := db.Find(&movements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load movement log",
			},
		})
		return "", nil, false
	}

	// The full user list resolves display names and target overrides; the
	// report itself is keyed by user id
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load users",
			},
		})
		return "", nil, false
	}

	defaultTarget := 5
	if cfg := config.GetConfig(); cfg != nil {
		defaultTarget = cfg.DefaultDailyTarget
	}

	return date, reports.DailyPerformance(movements, date, users, defaultTarget), true
}

// DailyPerformance handles GET /api/v1/reports/daily-performance - per-user
// completions, targets, and grades for one day
func DailyPerformance(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	date, perf, ok := dailyPerformanceData(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"date":  date,
			"users": perf,
		},
	})
}

// DepartmentScores handles GET /api/v1/reports/department-scores - composite
// scores as provided upstream; never recomputed here
func DepartmentScores(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var scores []models.DepartmentScore
	if err := db.Order("department ASC").Find(&scores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load department scores",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    scores,
	})
}

// OrdersCSV handles GET /api/v1/reports/orders.csv - full order export
func OrdersCSV(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	orders, ok := loadOrders(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteOrdersCSV(c.Writer, orders); err != nil {
		// Headers are already out; all we can do is log via gin's error list
		_ = c.Error(err)
	}
}

// DailyPerformanceCSV handles GET /api/v1/reports/daily-performance.csv
func DailyPerformanceCSV(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	date, perf, ok := dailyPerformanceData(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="performance-`+date+`.csv"`)
	c.Status(http.StatusOK)
	if err := export.WritePerformanceCSV(c.Writer, date, perf); err != nil {
		_ = c.Error(err)
	}
}
