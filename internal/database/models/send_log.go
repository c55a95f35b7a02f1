package models

import (
	"time"
)

// Send outcome values recorded in the send log.
const (
	SendStatusSuccess = "success"
	SendStatusError   = "error"
)

// SendLogEntry records one send attempt. The log is append-only: entries
// are never updated or deleted while the account exists, and the daily
// quota is derived from it by counting entries since local midnight.
type SendLogEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AccountID  uint      `gorm:"index;not null" json:"account_id"`
	To         string    `gorm:"size:255;not null" json:"to"`
	Subject    string    `gorm:"size:998" json:"subject"`
	Status     string    `gorm:"size:10;not null" json:"status"` // success or error
	Error      string    `gorm:"type:text" json:"error"`
	Resent     bool      `gorm:"default:false" json:"resent"`
	OriginalID *uint     `gorm:"index" json:"original_id,omitempty"` // entry this resend retries
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
