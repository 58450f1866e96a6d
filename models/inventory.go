package models

import (
	"time"

	"gorm.io/gorm"
)

// InventoryItem is a stocked part or material (blanks, hardware, powder).
type InventoryItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SKU          string  `gorm:"uniqueIndex;not null" json:"sku"`
	Name         string  `gorm:"not null" json:"name"`
	Location     string  `json:"location"`
	Quantity     float64 `gorm:"not null;default:0" json:"quantity"`
	MinThreshold float64 `gorm:"not null;default:0" json:"min_threshold"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// BelowThreshold reports whether the item needs reordering.
func (i *InventoryItem) BelowThreshold() bool {
	return i.Quantity < i.MinThreshold
}

// InventoryTransaction records a single stock adjustment, positive or
// negative, with the reason it happened.
type InventoryTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	Delta     float64   `gorm:"not null" json:"delta"`
	Reason    string    `gorm:"not null" json:"reason"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the InventoryTransaction model
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}
