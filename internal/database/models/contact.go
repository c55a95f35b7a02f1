package models

import (
	"time"
)

// Contact represents one outreach recipient. Contacts are unique only by
// position within the owning account's list; the whole list is replaced on
// every save and Position preserves the caller's ordering.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"index;not null" json:"account_id"`
	Position  int       `gorm:"index;not null" json:"position"` // 1-based list order
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Company   string    `gorm:"size:255" json:"company"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Fields returns the contact's attributes as a placeholder source for
// template rendering.
func (c *Contact) Fields() map[string]string {
	return map[string]string{
		"name":    c.Name,
		"email":   c.Email,
		"company": c.Company,
		"notes":   c.Notes,
	}
}
