package models

import (
	"time"
)

// Account represents an authenticated Google user and owns all other
// entities (contacts, send log, template, resume).
type Account struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	GoogleID string `gorm:"uniqueIndex;size:255;not null" json:"-"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name     string `gorm:"size:100" json:"name"`
	Avatar   string `gorm:"size:500" json:"avatar"`

	// Gmail grant, stored opaquely. Tokens are AES-256-GCM encrypted at rest
	// and never serialized to clients.
	GmailAccessToken  string    `gorm:"size:4000" json:"-"`
	GmailRefreshToken string    `gorm:"size:4000" json:"-"`
	GmailTokenType    string    `gorm:"size:50" json:"-"`
	GmailScope        string    `gorm:"size:500" json:"-"`
	GmailTokenExpiry  time.Time `json:"-"`

	// Email template. Empty means "use the default" (see services.TemplateService).
	TemplateSubject string `gorm:"size:500" json:"template_subject"`
	TemplateBody    string `gorm:"type:text" json:"template_body"`

	// Resume reference in the external file store. Core keeps only the
	// reference, never the bytes.
	ResumeURL        string    `gorm:"size:500" json:"resume_url"`
	ResumePublicID   string    `gorm:"size:255" json:"resume_public_id"`
	ResumeFilename   string    `gorm:"size:255" json:"resume_filename"`
	ResumeUploadedAt time.Time `json:"resume_uploaded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Contacts []Contact      `gorm:"foreignKey:AccountID" json:"contacts,omitempty"`
	SendLog  []SendLogEntry `gorm:"foreignKey:AccountID" json:"send_log,omitempty"`
}

// GmailConnected reports whether the account holds a usable Gmail grant.
func (a *Account) GmailConnected() bool {
	return a.GmailAccessToken != "" || a.GmailRefreshToken != ""
}

// HasResume reports whether a resume reference is stored.
func (a *Account) HasResume() bool {
	return a.ResumeURL != ""
}
