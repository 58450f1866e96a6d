package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/export"
	"github.com/wheelworks/wheelshop-api/models"
	"gorm.io/gorm"
)

// CreateInventoryItemRequest represents the request body for creating an item
type CreateInventoryItemRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Location     string  `json:"location"`
	Quantity     float64 `json:"quantity"`
	MinThreshold float64 `json:"min_threshold"`
}

// CreateInventoryItem handles POST /api/v1/inventory
func CreateInventoryItem(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	var req CreateInventoryItemRequest
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

	item := models.InventoryItem{
		SKU:          req.SKU,
		Name:         req.Name,
		Location:     req.Location,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
	}

	db := config.GetDB()
	if err := db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create inventory item",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// ListInventoryItems handles GET /api/v1/inventory. Pass low=true to list
// only items below their reorder threshold.
func ListInventoryItems(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	query := db.Order("sku ASC")
	if c.Query("low") == "true" {
		query = query.Where("quantity < min_threshold")
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load inventory",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// AdjustInventoryRequest represents the request body for a stock adjustment
type AdjustInventoryRequest struct {
	Delta  float64 `json:"delta" binding:"required"`
	Reason string  `json:"reason" binding:"required"`
}

// AdjustInventory handles POST /api/v1/inventory/:id/adjust - applies a stock
// delta and records the transaction atomically
func AdjustInventory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AdjustInventoryRequest
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

	db := config.GetDB()
	var item models.InventoryItem
	if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ITEM_NOT_FOUND",
				"message": "Inventory item not found",
			},
		})
		return
	}

	if item.Quantity+req.Delta < 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_STOCK",
				"message": "Adjustment would make stock negative",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		item.Quantity += req.Delta
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		txn := models.InventoryTransaction{
			ItemID:    item.ID,
			Delta:     req.Delta,
			Reason:    req.Reason,
			CreatedBy: user.Name,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to adjust inventory",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// ListInventoryTransactions handles GET /api/v1/inventory/:id/transactions
func ListInventoryTransactions(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var txns []models.InventoryTransaction
	if err := db.Where("item_id = ?", c.Param("id")).Order("created_at DESC").Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load transactions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    txns,
	})
}

// InventoryCSV handles GET /api/v1/inventory.csv
func InventoryCSV(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var items []models.InventoryItem
	if err := db.Order("sku ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load inventory",
			},
		})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="inventory.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteInventoryCSV(c.Writer, items); err != nil {
		_ = c.Error(err)
	}
}

// ImportInventoryCSV handles POST /api/v1/inventory/import - upserts items
// from an uploaded CSV file. A malformed row rejects the whole file.
func ImportInventoryCSV(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A CSV file is required",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": "Could not open uploaded file",
			},
		})
		return
	}
	defer file.Close()

	items, err := export.ReadInventoryCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CSV",
				"message": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range items {
			var existing models.InventoryItem
			res := tx.Where("sku = ?", items[i].SKU).First(&existing)
			if res.Error == nil {
				existing.Name = items[i].Name
				existing.Location = items[i].Location
				existing.Quantity = items[i].Quantity
				existing.MinThreshold = items[i].MinThreshold
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to import inventory",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"imported": len(items),
		},
	})
}
