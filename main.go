package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/controllers"
	"github.com/wheelworks/wheelshop-api/middleware"
	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Wheelshop API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3-backed attachment storage
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitAttachmentService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, attachment uploads disabled")
	}

	// Start the 30-second notification poller
	poller := services.InitNotificationPoller()
	if err := poller.Start(); err != nil {
		log.Fatalf("Failed to start notification poller: %v", err)
	}
	poller.Refresh()
	defer poller.Stop()

	// Initialize Gin router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	auth := middleware.EnsureValidToken(cfg)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Users
		v1.POST("/users", auth, controllers.CreateUser)
		v1.GET("/users/me", auth, controllers.GetMyProfile)
		v1.PUT("/users/:id/target", auth, controllers.SetUserTarget)

		// Orders
		v1.POST("/orders", auth, controllers.CreateOrder)
		v1.GET("/orders", auth, controllers.ListOrders)
		v1.GET("/orders/:id", auth, controllers.GetOrder)

		// Order actions; each one is guarded against concurrent mutation of
		// the same order
		lock := middleware.LockOrderAction()
		v1.POST("/orders/:id/advance", auth, lock, controllers.AdvanceOrder)
		v1.POST("/orders/:id/move", auth, lock, controllers.MoveOrder)
		v1.POST("/orders/:id/hold", auth, lock, controllers.HoldOrder)
		v1.DELETE("/orders/:id/hold", auth, lock, controllers.ReleaseHold)
		v1.POST("/orders/:id/rush", auth, lock, controllers.SetRush)
		v1.POST("/orders/:id/cut", auth, lock, controllers.ToggleCut)
		v1.POST("/orders/:id/tires", auth, lock, controllers.ToggleTires)
		v1.POST("/orders/:id/steering-wheel", auth, lock, controllers.ToggleSteeringWheel)
		v1.POST("/orders/:id/lalo", auth, lock, controllers.SetLaloStatus)
		v1.POST("/orders/:id/final-status", auth, lock, controllers.SetFinalStatus)

		// Order thread and attachments
		v1.POST("/orders/:id/messages", auth, controllers.SendMessage)
		v1.GET("/orders/:id/messages", auth, controllers.ListMessages)
		v1.POST("/orders/:id/attachments", auth, controllers.UploadAttachment)
		v1.GET("/orders/:id/attachments", auth, controllers.ListAttachments)

		// Queues
		v1.GET("/queues/department/:dept", auth, controllers.DepartmentQueue)
		v1.GET("/queues/rush", auth, controllers.RushQueue)
		v1.GET("/queues/hold", auth, controllers.HoldQueue)
		v1.GET("/queues/cut", auth, controllers.CutQueue)

		// Refinish queue
		v1.POST("/refinish", auth, controllers.CreateRefinishEntry)
		v1.GET("/refinish", auth, controllers.ListRefinishEntries)
		v1.POST("/refinish/:id/advance", auth, controllers.AdvanceRefinishEntry)

		// Reports
		v1.GET("/reports/departments", auth, controllers.DepartmentStats)
		v1.GET("/reports/products", auth, controllers.ProductStats)
		v1.GET("/reports/daily-performance", auth, controllers.DailyPerformance)
		v1.GET("/reports/department-scores", auth, controllers.DepartmentScores)
		v1.GET("/reports/orders.csv", auth, controllers.OrdersCSV)
		v1.GET("/reports/daily-performance.csv", auth, controllers.DailyPerformanceCSV)

		// Inventory
		v1.POST("/inventory", auth, controllers.CreateInventoryItem)
		v1.GET("/inventory", auth, controllers.ListInventoryItems)
		v1.POST("/inventory/:id/adjust", auth, controllers.AdjustInventory)
		v1.GET("/inventory/:id/transactions", auth, controllers.ListInventoryTransactions)
		v1.GET("/inventory.csv", auth, controllers.InventoryCSV)
		v1.POST("/inventory/import", auth, controllers.ImportInventoryCSV)

		// Notifications
		v1.GET("/notifications", auth, controllers.ListNotifications)
		v1.GET("/notifications/unread-count", auth, controllers.UnreadCount)
		v1.POST("/notifications/read", auth, controllers.MarkNotificationsRead)
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Wheelshop API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
