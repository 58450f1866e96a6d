package models

import "time"

// DepartmentScore is a 0-100 composite for a department, derived upstream
// from completion rate and average processing time. The score itself is
// stored as provided; this service never recomputes it.
type DepartmentScore struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Department         string    `gorm:"uniqueIndex;not null" json:"department"`
	CompletionRate     float64   `json:"completion_rate"`
	AvgProcessingHours float64   `json:"avg_processing_hours"`
	Score              float64   `gorm:"not null;default:0" json:"score"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for the DepartmentScore model
func (DepartmentScore) TableName() string {
	return "department_scores"
}
