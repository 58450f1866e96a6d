package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Refinish entry statuses. The machine is strictly linear, one step at a
// time: received, in_progress, completed, then shipped_back.
const (
	RefinishReceived    = "received"
	RefinishInProgress  = "in_progress"
	RefinishCompleted   = "completed"
	RefinishShippedBack = "shipped_back"
)

// RefinishStatusOrder is the fixed linear sequence refinish entries move
// through.
var RefinishStatusOrder = []string{
	RefinishReceived,
	RefinishInProgress,
	RefinishCompleted,
	RefinishShippedBack,
}

// RefinishEntry tracks a reworked item through its own status machine,
// distinct from the main order pipeline.
type RefinishEntry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"not null;index" json:"order_number"`
	Description string `json:"description"`
	Status      string `gorm:"not null;default:'received'" json:"status"`
	ReceivedBy  string `json:"received_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the RefinishEntry model
func (RefinishEntry) TableName() string {
	return "refinish_entries"
}

// AdvanceStatus moves the entry one step forward. Skipping steps is not
// allowed, and shipped_back is final.
func (r *RefinishEntry) AdvanceStatus() error {
	for i, s := range RefinishStatusOrder {
		if s != r.Status {
			continue
		}
		if i == len(RefinishStatusOrder)-1 {
			return fmt.Errorf("refinish entry already %s", RefinishShippedBack)
		}
		r.Status = RefinishStatusOrder[i+1]
		return nil
	}
	return fmt.Errorf("unknown refinish status: %q", r.Status)
}
