package services

import (
	"time"

	"github.com/jobreach/core/internal/database/models"
	"gorm.io/gorm"
)

// SendLogService handles the append-only send log and the quota that is
// derived from it. Quota is never stored: it is recomputed from the log
// on every request, so it cannot drift.
type SendLogService struct {
	db *gorm.DB
}

// NewSendLogService creates a new SendLogService instance
func NewSendLogService(db *gorm.DB) *SendLogService {
	return &SendLogService{db: db}
}

// Append records one send attempt. Entries are immutable once created.
func (s *SendLogService) Append(entry *models.SendLogEntry) error {
	return s.db.Create(entry).Error
}

// List returns the account's send log, newest first.
func (s *SendLogService) List(accountID uint) ([]models.SendLogEntry, error) {
	var entries []models.SendLogEntry
	err := s.db.Where("account_id = ?", accountID).
		Order("created_at desc, id desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountToday counts entries whose timestamp falls within the current
// local calendar day.
func (s *SendLogService) CountToday(accountID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.SendLogEntry{}).
		Where("account_id = ? AND created_at >= ?", accountID, MidnightToday(time.Now())).
		Count(&count).Error
	return count, err
}

// QuotaLeft computes max(cap - sends today, 0). Resends count like any
// other entry.
func (s *SendLogService) QuotaLeft(accountID uint, cap int) (int, error) {
	sentToday, err := s.CountToday(accountID)
	if err != nil {
		return 0, err
	}
	left := cap - int(sentToday)
	if left < 0 {
		left = 0
	}
	return left, nil
}

// MidnightToday returns the most recent local midnight at or before now.
func MidnightToday(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}

// NextReset returns the next local midnight, when the daily quota resets.
func NextReset(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}
