package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a shop user (staff member or admin)
type User struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Auth0ID string `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"uniqueIndex;not null" json:"email"`
	Role    string `gorm:"not null;default:'staff'" json:"role"` // "staff" or "admin"

	// DailyTarget overrides the shop-wide default daily movement target used
	// by performance reports. Nil means use the configured default.
	DailyTarget *int `json:"daily_target,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Notification is a short message for a user, created when an order they care
// about changes state (hold set, rush set). Read tracking feeds the unread
// count poller.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	OrderID   uint      `gorm:"index" json:"order_id"`
	Message   string    `gorm:"not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
