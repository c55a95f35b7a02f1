package services

import (
	"errors"

	"github.com/jobreach/core/internal/database/models"
	"gorm.io/gorm"
)

// Default template used until the account saves its own.
const (
	DefaultTemplateSubject = "Application for {{company}} - {{name}}"
	DefaultTemplateBody    = "Hi {{name}},\n\n" +
		"I came across {{company}} and was impressed by your work. " +
		"I'd love to connect and explore opportunities.\n\n" +
		"Best regards,\n[Your Name]"
)

// ErrTemplateIncomplete indicates a template save without subject or body
var ErrTemplateIncomplete = errors.New("template subject and body are required")

// Template is an account's email template with placeholders resolved at
// send time.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateService handles email template business logic
type TemplateService struct {
	db         *gorm.DB
	logService *LogService
}

// NewTemplateService creates a new TemplateService instance
func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{
		db:         db,
		logService: NewLogService(db),
	}
}

// TemplateFor returns the account's template, falling back to the default
// for any unset part.
func TemplateFor(account *models.Account) Template {
	tmpl := Template{
		Subject: account.TemplateSubject,
		Body:    account.TemplateBody,
	}
	if tmpl.Subject == "" {
		tmpl.Subject = DefaultTemplateSubject
	}
	if tmpl.Body == "" {
		tmpl.Body = DefaultTemplateBody
	}
	return tmpl
}

// Get returns the stored-or-default template for an account.
func (s *TemplateService) Get(accountID uint) (*Template, error) {
	var account models.Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	tmpl := TemplateFor(&account)
	return &tmpl, nil
}

// Save stores the template. Both parts are required; saved values round
// trip byte-identical.
func (s *TemplateService) Save(accountID uint, tmpl Template) (*Template, error) {
	if tmpl.Subject == "" || tmpl.Body == "" {
		return nil, ErrTemplateIncomplete
	}

	result := s.db.Model(&models.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"template_subject": tmpl.Subject,
		"template_body":    tmpl.Body,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAccountNotFound
	}

	s.logService.LogTemplateSaved(accountID)
	return &tmpl, nil
}
