package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/pipeline"
)

func actionsRouter() *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")
	auth := mockAuthMiddleware("auth0|staff")
	v1.POST("/orders/:id/advance", auth, AdvanceOrder)
	v1.POST("/orders/:id/move", auth, MoveOrder)
	v1.POST("/orders/:id/hold", auth, HoldOrder)
	v1.DELETE("/orders/:id/hold", auth, ReleaseHold)
	v1.POST("/orders/:id/rush", auth, SetRush)
	v1.POST("/orders/:id/cut", auth, ToggleCut)
	v1.POST("/orders/:id/tires", auth, ToggleTires)
	v1.POST("/orders/:id/steering-wheel", auth, ToggleSteeringWheel)
	v1.POST("/orders/:id/lalo", auth, SetLaloStatus)
	v1.POST("/orders/:id/final-status", auth, SetFinalStatus)
	return router
}

func TestAdvanceOrder(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/advance", order.ID), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, pipeline.DeptDesign, data["current_department"])

	// History: old entry closed, new one open
	var reloaded models.Order
	require.NoError(t, db.Preload("History").First(&reloaded, order.ID).Error)
	require.Equal(t, 2, len(reloaded.History))
	assert.NotNil(t, reloaded.History[0].CompletedAt)
	assert.Nil(t, reloaded.History[1].CompletedAt)

	// The transition lands in the movement log
	var movements []models.Movement
	require.NoError(t, db.Find(&movements).Error)
	require.Equal(t, 1, len(movements))
	assert.Equal(t, pipeline.DeptReceived, movements[0].FromDepartment)
	assert.Equal(t, pipeline.DeptDesign, movements[0].ToDepartment)
	assert.Equal(t, alice.ID, movements[0].MovedByID, "movements carry the unique actor id")
	assert.Equal(t, "alice", movements[0].MovedBy)
}

func TestAdvanceOrder_OnHold(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)
	require.NoError(t, db.Model(&order).Updates(map[string]interface{}{"is_on_hold": true, "hold_reason": "waiting"}).Error)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/advance", order.ID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ORDER_ON_HOLD", errorCode(response))

	// Nothing moved, nothing logged
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, pipeline.DeptReceived, reloaded.CurrentDepartment)
	var count int64
	db.Model(&models.Movement{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAdvanceOrder_Terminal(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)
	require.NoError(t, db.Model(&order).Update("current_department", pipeline.DeptShipped).Error)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/advance", order.ID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NO_NEXT_DEPARTMENT", errorCode(response))
}

func TestMoveOrder(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/move", order.ID), map[string]interface{}{
		"department": "machine",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, pipeline.DeptMachine, data["current_department"], "move may skip stages")
}

func TestMoveOrder_WhileHeld(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)
	require.NoError(t, db.Model(&order).Updates(map[string]interface{}{"is_on_hold": true, "hold_reason": "waiting"}).Error)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/move", order.ID), map[string]interface{}{
		"department": "program",
	})

	assert.Equal(t, http.StatusOK, w.Code, "move bypasses the hold")
	data := response["data"].(map[string]interface{})
	assert.Equal(t, pipeline.DeptProgram, data["current_department"])
	assert.True(t, data["is_on_hold"].(bool), "the hold itself stays")
}

func TestMoveOrder_UnknownDepartment(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/move", order.ID), map[string]interface{}{
		"department": "painting",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_DEPARTMENT", errorCode(response))
}

func TestHoldAndRelease(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "auth0|admin", "boss", "admin")
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/hold", order.ID), map[string]interface{}{
		"reason": "waiting on deposit",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.True(t, data["is_on_hold"].(bool))
	assert.Equal(t, "waiting on deposit", data["hold_reason"])

	// Admins are notified about the hold
	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Equal(t, 1, len(notifications))
	assert.Equal(t, admin.ID, notifications[0].UserID)
	assert.Contains(t, notifications[0].Message, "1042")

	// Release
	w, response = performRequest(router, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d/hold", order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	assert.False(t, data["is_on_hold"].(bool))
	assert.Nil(t, data["hold_reason"])

	// Releasing again is still fine
	w, _ = performRequest(router, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d/hold", order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHoldOrder_ReasonRequired(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/hold", order.ID), map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(response))
}

func TestSetRush(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)

	// Enabling without a reason fails inside the engine
	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/rush", order.ID), map[string]interface{}{
		"rush": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "REASON_REQUIRED", errorCode(response))

	w, response = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/rush", order.ID), map[string]interface{}{
		"rush":   true,
		"reason": "trade show",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.True(t, data["is_rush"].(bool))
	assert.Equal(t, "trade show", data["rush_reason"])

	// Clearing needs no reason
	w, response = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/rush", order.ID), map[string]interface{}{
		"rush": false,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	assert.False(t, data["is_rush"].(bool))
}

func TestToggleCut(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	caps := createTestOrder(t, db, "1042", pipeline.ProductStandardCaps)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cut", caps.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cut", response["data"].(map[string]interface{})["cut_status"])

	w, response = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cut", caps.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not_cut", response["data"].(map[string]interface{})["cut_status"])
}

func TestToggleCut_Rim(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	rim := createTestOrder(t, db, "1042", pipeline.ProductRim)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cut", rim.ID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_FOR_PRODUCT_TYPE", errorCode(response))
}

func TestToggleTiresAndSteeringWheel(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	rim := createTestOrder(t, db, "1042", pipeline.ProductRim)
	caps := createTestOrder(t, db, "1043", pipeline.ProductStandardCaps)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/tires", rim.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response["data"].(map[string]interface{})["has_tires"].(bool))

	w, response = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/steering-wheel", rim.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response["data"].(map[string]interface{})["has_steering_wheel"].(bool))

	// Cross-sell flags are rim-only
	w, response = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/tires", caps.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_FOR_PRODUCT_TYPE", errorCode(response))
}

func TestSetLaloStatus(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)

	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/lalo", order.ID), map[string]interface{}{
		"status": "at_lalo",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "at_lalo", response["data"].(map[string]interface{})["lalo_status"])

	w, response = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/lalo", order.ID), map[string]interface{}{
		"status": "lost_in_transit",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATUS", errorCode(response))
}

func TestSetFinalStatus(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()
	order := createTestOrder(t, db, "1042", pipeline.ProductRim)

	// Before the terminal stage it is rejected
	w, response := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/final-status", order.ID), map[string]interface{}{
		"status": "pickup",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NOT_TERMINAL", errorCode(response))

	require.NoError(t, db.Model(&order).Update("current_department", pipeline.DeptShipped).Error)

	w, response = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/final-status", order.ID), map[string]interface{}{
		"status": "pickup",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pickup", response["data"].(map[string]interface{})["final_status"])
}

func TestActionOnMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "auth0|staff", "alice", "staff")
	router := actionsRouter()

	w, response := performRequest(router, http.MethodPost, "/api/v1/orders/999/advance", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(response))
}
