package models

import (
	"time"

	"gorm.io/datatypes"
)

// Log is the audit trail. Writes are best-effort: a failed insert is logged
// server-side and never fails the operation that produced it.
type Log struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	Action      string         `gorm:"size:50;index" json:"action"` // LOGIN, LOGOUT, ...
	Status      string         `gorm:"size:20" json:"status"`       // SUCCESS, FAILURE, WARNING, INFO
	Description *string        `gorm:"size:255" json:"description,omitempty"`
	Details     datatypes.JSON `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

var ValidLogStatuses = []string{"SUCCESS", "FAILURE", "WARNING", "INFO"}

func IsValidLogStatus(status string) bool {
	for _, s := range ValidLogStatuses {
		if s == status {
			return true
		}
	}
	return false
}
