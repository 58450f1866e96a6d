package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/engine"
	"github.com/wheelworks/wheelshop-api/models"
	"gorm.io/gorm"
)

// saveOrder persists the mutated order (history included) and the movement
// row, if any, in one transaction. Notifications for watchers are created in
// the same transaction so the audit trail and alerts never diverge.
func saveOrder(c *gin.Context, order *models.Order, movement *models.Movement, notifyText string) bool {
	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error; err != nil {
			return err
		}
		if movement != nil {
			if err := tx.Create(movement).Error; err != nil {
				return err
			}
		}
		if notifyText != "" {
			var admins []models.User
			if err := tx.Where("role = ?", "admin").Find(&admins).Error; err != nil {
				return err
			}
			for _, admin := range admins {
				n := models.Notification{
					UserID:  admin.ID,
					OrderID: order.ID,
					Message: notifyText,
				}
				if err := tx.Create(&n).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save order",
			},
		})
		return false
	}
	return true
}

// AdvanceOrder handles POST /api/v1/orders/:id/advance - moves the order to
// the next department
func AdvanceOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	movement, err := engine.Advance(order, user.Name, time.Now())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	movement.MovedByID = user.ID

	if !saveOrder(c, order, movement, "") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// MoveOrderRequest represents the request body for moving an order
type MoveOrderRequest struct {
	Department string `json:"department" binding:"required"`
}

// MoveOrder handles POST /api/v1/orders/:id/move - jumps the order to an
// arbitrary department (rush / admin override; allowed while on hold)
func MoveOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	var req MoveOrderRequest
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

	movement, err := engine.MoveTo(order, req.Department, user.Name, time.Now())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	movement.MovedByID = user.ID

	if !saveOrder(c, order, movement, "") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// HoldOrderRequest represents the request body for putting an order on hold
type HoldOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// HoldOrder handles POST /api/v1/orders/:id/hold - puts the order on hold
func HoldOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	var req HoldOrderRequest
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

	if err := engine.SetHold(order, req.Reason, user.Name, time.Now()); err != nil {
		respondEngineError(c, err)
		return
	}

	if !saveOrder(c, order, nil, "Order "+order.OrderNumber+" placed on hold: "+req.Reason) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ReleaseHold handles DELETE /api/v1/orders/:id/hold - releases a hold.
// Releasing an order that is not on hold succeeds and changes nothing.
func ReleaseHold(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	engine.ReleaseHold(order)

	if !saveOrder(c, order, nil, "") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// SetRushRequest represents the request body for toggling rush
type SetRushRequest struct {
	Rush   bool   `json:"rush"`
	Reason string `json:"reason"`
}

// SetRush handles POST /api/v1/orders/:id/rush - toggles the rush flag
func SetRush(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	var req SetRushRequest
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

	if err := engine.SetRush(order, req.Rush, req.Reason, user.Name, time.Now()); err != nil {
		respondEngineError(c, err)
		return
	}

	notify := ""
	if req.Rush {
		notify = "Order " + order.OrderNumber + " flagged rush: " + req.Reason
	}
	if !saveOrder(c, order, nil, notify) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ToggleCut handles POST /api/v1/orders/:id/cut - flips the cut status
func ToggleCut(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	if err := engine.ToggleCut(order); err != nil {
		respondEngineError(c, err)
		return
	}

	if !saveOrder(c, order, nil, "") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ToggleTires handles POST /api/v1/orders/:id/tires - flips the tires flag
func ToggleTires(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	if err := engine.ToggleTires(order); err != nil {
		respondEngineError(c, err)
		return
	}

	if !saveOrder(c, order, nil, "") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ToggleSteeringWheel handles POST /api/v1/orders/:id/steering-wheel - flips
// the steering wheel cross-sell flag
func ToggleSteeringWheel(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	if err := engine.ToggleSteeringWheel(order); err != nil {
		respondEngineError(c, err)
		return
	}

	if !saveOrder(c, order, nil, "") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// SetLaloStatusRequest represents the request body for setting lalo status
type SetLaloStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetLaloStatus handles POST /api/v1/orders/:id/lalo - sets the vendor
// handoff sub-status
func SetLaloStatus(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	var req SetLaloStatusRequest
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

	if err := engine.SetLaloStatus(order, req.Status); err != nil {
		respondEngineError(c, err)
		return
	}

	if !saveOrder(c, order, nil, "") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// SetFinalStatusRequest represents the request body for setting final status
type SetFinalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetFinalStatus handles POST /api/v1/orders/:id/final-status - records how
// a finished order left the shop (pickup or shipped)
func SetFinalStatus(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	order, ok := findOrder(c)
	if !ok {
		return
	}

	var req SetFinalStatusRequest
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

	if err := engine.SetFinalStatus(order, req.Status); err != nil {
		respondEngineError(c, err)
		return
	}

	if !saveOrder(c, order, nil, "") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
