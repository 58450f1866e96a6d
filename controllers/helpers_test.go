package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/engine"
	"github.com/wheelworks/wheelshop-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates a fresh in-memory database and registers it globally.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.DepartmentHistoryEntry{},
		&models.Movement{},
		&models.Attachment{},
		&models.Message{},
		&models.RefinishEntry{},
		&models.InventoryItem{},
		&models.InventoryTransaction{},
		&models.Notification{},
		&models.DepartmentScore{},
	)
	require.NoError(t, err)

	config.SetDB(db)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		config.SetDB(nil)
	})
	return db
}

// mockAuthMiddleware simulates a validated JWT for the given Auth0 subject.
func mockAuthMiddleware(auth0ID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", "mock-token")
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, auth0ID, name, role string) models.User {
	t.Helper()
	user := models.User{
		Auth0ID: auth0ID,
		Name:    name,
		Email:   name + "@wheelshop.test",
		Role:    role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestOrder(t *testing.T, db *gorm.DB, number, productType string) models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber: number,
		ProductType: productType,
		Quantity:    1,
		CutStatus:   "not_cut",
		LaloStatus:  "not_sent",
	}
	engine.OpenIntake(&order, "tester", time.Now())
	require.NoError(t, db.Create(&order).Error)
	return order
}

// performRequest runs a JSON request through the router and returns the
// recorder plus the decoded response body.
func performRequest(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func errorCode(response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}
