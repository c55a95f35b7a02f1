package services

import (
	"github.com/jobreach/core/internal/database/models"
	"gorm.io/gorm"
)

// ContactService handles contact-list business logic. The list is only
// ever replaced wholesale; there are no incremental updates.
type ContactService struct {
	db         *gorm.DB
	logService *LogService
}

// NewContactService creates a new ContactService instance
func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{
		db:         db,
		logService: NewLogService(db),
	}
}

// ContactInput is one recipient in a replace-all save.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// ReplaceAll replaces the account's entire contact list in one
// transaction, preserving the caller's ordering via Position.
func (s *ContactService) ReplaceAll(accountID uint, inputs []ContactInput) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0, len(inputs))
	for i, input := range inputs {
		contacts = append(contacts, models.Contact{
			AccountID: accountID,
			Position:  i + 1,
			Name:      input.Name,
			Email:     input.Email,
			Company:   input.Company,
			Notes:     input.Notes,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		if len(contacts) == 0 {
			return nil
		}
		return tx.CreateInBatches(&contacts, 100).Error
	})
	if err != nil {
		return nil, err
	}

	s.logService.LogContactsReplaced(accountID, len(contacts))
	return contacts, nil
}

// List returns the account's contacts in list order.
func (s *ContactService) List(accountID uint) ([]models.Contact, error) {
	var contacts []models.Contact
	err := s.db.Where("account_id = ?", accountID).Order("position asc").Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
