package models

import (
	"time"

	"github.com/wheelworks/wheelshop-api/pipeline"
	"gorm.io/gorm"
)

// Production priority derived from payment state.
const (
	PriorityWaitingDeposit  = "waiting_deposit"
	PriorityReadyProduction = "ready_production"
	PriorityFullyPaid       = "fully_paid"
)

// Order represents a production order moving through the shop's department
// pipeline.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"` // human-facing, may be alphanumeric
	ProductType string `gorm:"not null" json:"product_type"`
	Quantity    int    `gorm:"not null;check:quantity > 0" json:"quantity"`

	CurrentDepartment string                   `gorm:"not null;default:'received'" json:"current_department"`
	History           []DepartmentHistoryEntry `gorm:"foreignKey:OrderID" json:"department_history"`

	// Flags are independent booleans, not mutually exclusive.
	IsRush     bool `gorm:"not null;default:false" json:"is_rush"`
	IsRedo     bool `gorm:"not null;default:false" json:"is_redo"`
	IsOnHold   bool `gorm:"not null;default:false" json:"is_on_hold"`
	IsRefinish bool `gorm:"not null;default:false" json:"is_refinish"`

	HoldReason *string    `json:"hold_reason,omitempty"`
	HoldSetBy  *string    `json:"hold_added_by,omitempty"`
	HoldSetAt  *time.Time `json:"hold_set_at,omitempty"`

	RushReason *string    `json:"rush_reason,omitempty"`
	RushSetBy  *string    `json:"rush_set_by,omitempty"`
	RushSetAt  *time.Time `json:"rush_set_at,omitempty"`

	// CutStatus is only meaningful for steering wheels and the cap family.
	CutStatus  string `gorm:"not null;default:'not_cut'" json:"cut_status"`
	LaloStatus string `gorm:"not null;default:'not_sent'" json:"lalo_status"`

	PaymentTotal   float64 `gorm:"not null;default:0" json:"payment_total"`
	PercentagePaid float64 `gorm:"not null;default:0" json:"percentage_paid"`

	// Cross-sell indicators, only valid for rims.
	HasTires         bool `gorm:"not null;default:false" json:"has_tires"`
	HasSteeringWheel bool `gorm:"not null;default:false" json:"has_steering_wheel"`

	CustomerName string `json:"customer_name"`
	Notes        string `json:"notes"`
	OrderNotes   string `json:"order_notes"`

	// FinalStatus (pickup or shipped) is settable only once the order has
	// reached the terminal department; it does not re-enter the pipeline.
	FinalStatus *string `json:"final_status,omitempty"`

	Attachments []Attachment `gorm:"foreignKey:OrderID" json:"attachments,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ProductionPriority derives the payment tri-state for the order.
func (o *Order) ProductionPriority() string {
	switch {
	case o.PercentagePaid >= 100:
		return PriorityFullyPaid
	case o.PercentagePaid > 0:
		return PriorityReadyProduction
	default:
		return PriorityWaitingDeposit
	}
}

// IsTerminal reports whether the order has reached the end of the pipeline.
func (o *Order) IsTerminal() bool {
	return pipeline.IsTerminal(o.CurrentDepartment)
}

// OpenHistoryEntry returns the single open (completed_at == nil) history
// entry, or nil if every visited department stay has been closed.
func (o *Order) OpenHistoryEntry() *DepartmentHistoryEntry {
	for i := range o.History {
		if o.History[i].CompletedAt == nil {
			return &o.History[i]
		}
	}
	return nil
}

// DepartmentHistoryEntry records one stay in a department. At most one entry
// per order is open (CompletedAt == nil) at any time.
type DepartmentHistoryEntry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;index" json:"order_id"`
	Department  string     `gorm:"not null" json:"department"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	MovedBy     string     `json:"moved_by"`
}

// TableName specifies the table name for the DepartmentHistoryEntry model
func (DepartmentHistoryEntry) TableName() string {
	return "department_history"
}

// Movement is one row of the audit log: a single department transition
// performed by a user. Daily performance reports are computed from these.
// MovedByID is the unique actor key; MovedBy is the display name at the time
// of the move and is not unique across users.
type Movement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	FromDepartment string    `gorm:"not null" json:"from_department"`
	ToDepartment   string    `gorm:"not null" json:"to_department"`
	MovedByID      uint      `gorm:"index" json:"moved_by_id"`
	MovedBy        string    `gorm:"not null" json:"moved_by"`
	MovedAt        time.Time `gorm:"not null;index" json:"moved_at"`
}

// TableName specifies the table name for the Movement model
func (Movement) TableName() string {
	return "movements"
}

// Attachment is a file stored in S3 and linked to an order. URL is a computed
// presigned link, never persisted.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	Name        string    `gorm:"not null" json:"name"`
	S3Key       string    `gorm:"not null" json:"-"`
	ContentType string    `json:"content_type"`
	URL         string    `gorm:"-" json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Attachment model
func (Attachment) TableName() string {
	return "attachments"
}
