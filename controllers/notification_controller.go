package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/services"
)

// UnreadCount handles GET /api/v1/notifications/unread-count - the cached
// unread count maintained by the 30-second poller
func UnreadCount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	poller := services.GetNotificationPoller()
	if poller == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "POLLER_UNAVAILABLE",
				"message": "Notification counts are not available",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"unread": poller.UnreadCount(user.ID),
		},
	})
}

// ListNotifications handles GET /api/v1/notifications - the user's
// notifications, newest first
func ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var notifications []models.Notification
	if err := db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load notifications",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// MarkNotificationsRead handles POST /api/v1/notifications/read - marks all
// of the user's notifications read
func MarkNotificationsRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", user.ID, false).Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to mark notifications read",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"updated": true},
	})
}
