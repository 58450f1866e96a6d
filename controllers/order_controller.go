package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/engine"
	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/pipeline"
	"github.com/wheelworks/wheelshop-api/projections"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	OrderNumber  string  `json:"order_number" binding:"required"`
	ProductType  string  `json:"product_type" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required,gt=0"`
	CustomerName string  `json:"customer_name"`
	PaymentTotal float64 `json:"payment_total"`
	Notes        string  `json:"notes"`
	IsRedo       bool    `json:"is_redo"`
	IsRefinish   bool    `json:"is_refinish"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order at intake
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Parse request body
	var req CreateOrderRequest
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

	if !pipeline.IsValidProductType(req.ProductType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown product type: " + req.ProductType,
			},
		})
		return
	}

	db := config.GetDB()

	// The order number is the human-facing key; collisions are a caller error,
	// not a database error
	var existing int64
	db.Model(&models.Order{}).Where("order_number = ?", req.OrderNumber).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_ORDER_NUMBER",
				"message": "An order with number " + req.OrderNumber + " already exists",
			},
		})
		return
	}

	// Create the order in the first pipeline stage with an open history entry
	order := models.Order{
		OrderNumber:  req.OrderNumber,
		ProductType:  req.ProductType,
		Quantity:     req.Quantity,
		CustomerName: req.CustomerName,
		PaymentTotal: req.PaymentTotal,
		Notes:        req.Notes,
		IsRedo:       req.IsRedo,
		IsRefinish:   req.IsRefinish,
		CutStatus:    pipeline.CutStatusNotCut,
		LaloStatus:   pipeline.LaloNotSent,
	}
	engine.OpenIntake(&order, user.Name, time.Now())

	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists orders with optional filters
// (department, product_type, rush, hold, cut) and pagination
func ListOrders(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("History").Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	// Apply projection filters in memory; the order set is small enough that
	// O(n) per view is fine
	if dept := c.Query("department"); dept != "" {
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
		orders = projections.ByDepartment(orders, dept)
	}
	if productType := c.Query("product_type"); productType != "" {
		orders = projections.ProductFilter(orders, productType)
	}
	if c.Query("rush") == "true" {
		orders = projections.RushQueue(orders)
	}
	if c.Query("hold") == "true" {
		held := orders[:0:0]
		for _, o := range orders {
			if o.IsOnHold {
				held = append(held, o)
			}
		}
		orders = held
	}
	if c.Query("cut") == "true" {
		orders = projections.CutOrders(orders)
	}

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	total := len(orders)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders[start:end],
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches a single order
func GetOrder(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("History").Preload("Attachments").First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
