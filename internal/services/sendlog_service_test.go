package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jobreach/core/internal/database/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	// Create a temporary database file
	tmpFile, err := os.CreateTemp("", "test_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpFile.Close()

	// Open database
	db, err := gorm.Open(sqlite.Open(tmpFile.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("Failed to open database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.Account{},
		&models.Contact{},
		&models.SendLogEntry{},
		&models.Log{},
	)
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("Failed to migrate: %v", err)
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(tmpFile.Name())
	}

	return db, cleanup
}

func createTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	account := &models.Account{
		GoogleID: fmt.Sprintf("google-%d", time.Now().UnixNano()),
		Email:    "applicant@example.com",
		Name:     "Applicant",
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
	return account
}

func TestQuotaLeftFullWithEmptyLog(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewSendLogService(db)

	left, err := service.QuotaLeft(account.ID, 500)
	if err != nil {
		t.Fatalf("QuotaLeft failed: %v", err)
	}
	if left != 500 {
		t.Errorf("Expected full quota 500 with empty log, got %d", left)
	}
}

func TestQuotaLeftIgnoresYesterday(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewSendLogService(db)

	// Two entries yesterday, one today
	yesterday := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 2; i++ {
		entry := &models.SendLogEntry{
			AccountID: account.ID,
			To:        "old@example.com",
			Subject:   "old",
			Status:    models.SendStatusSuccess,
			CreatedAt: yesterday,
		}
		if err := db.Create(entry).Error; err != nil {
			t.Fatalf("Failed to insert yesterday entry: %v", err)
		}
	}
	if err := service.Append(&models.SendLogEntry{
		AccountID: account.ID,
		To:        "new@example.com",
		Subject:   "new",
		Status:    models.SendStatusSuccess,
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	left, err := service.QuotaLeft(account.ID, 500)
	if err != nil {
		t.Fatalf("QuotaLeft failed: %v", err)
	}
	if left != 499 {
		t.Errorf("Expected 499 (only today's entry counted), got %d", left)
	}
}

func TestQuotaLeftCountsErrorsAndResends(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewSendLogService(db)

	entries := []*models.SendLogEntry{
		{AccountID: account.ID, To: "a@example.com", Subject: "s", Status: models.SendStatusSuccess},
		{AccountID: account.ID, To: "b@example.com", Subject: "s", Status: models.SendStatusError, Error: "boom"},
		{AccountID: account.ID, To: "a@example.com", Subject: "s", Status: models.SendStatusSuccess, Resent: true},
	}
	for _, entry := range entries {
		if err := service.Append(entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	left, err := service.QuotaLeft(account.ID, 500)
	if err != nil {
		t.Fatalf("QuotaLeft failed: %v", err)
	}
	if left != 497 {
		t.Errorf("Expected 497 (errors and resends count), got %d", left)
	}
}

func TestListNewestFirst(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewSendLogService(db)

	for i := 0; i < 3; i++ {
		if err := service.Append(&models.SendLogEntry{
			AccountID: account.ID,
			To:        fmt.Sprintf("r%d@example.com", i),
			Subject:   "s",
			Status:    models.SendStatusSuccess,
		}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries, err := service.List(account.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].To != "r2@example.com" || entries[2].To != "r0@example.com" {
		t.Errorf("Expected newest first, got %s .. %s", entries[0].To, entries[2].To)
	}
}

func TestNextResetIsNextLocalMidnight(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)
	reset := NextReset(now)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	if !reset.Equal(want) {
		t.Errorf("Expected %v, got %v", want, reset)
	}
	if !reset.After(now) {
		t.Errorf("Expected reset after now")
	}
}

// Derived quota never leaves [0, cap], regardless of how many entries the
// log holds today.
func TestProperty_QuotaLeftBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("quota_left_within_bounds", prop.ForAll(
		func(sentToday int, cap int) bool {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			account := createTestAccount(t, db)
			service := NewSendLogService(db)

			for i := 0; i < sentToday; i++ {
				if err := service.Append(&models.SendLogEntry{
					AccountID: account.ID,
					To:        "p@example.com",
					Subject:   "s",
					Status:    models.SendStatusSuccess,
				}); err != nil {
					return false
				}
			}

			left, err := service.QuotaLeft(account.ID, cap)
			if err != nil {
				return false
			}
			if left < 0 || left > cap {
				return false
			}
			expected := cap - sentToday
			if expected < 0 {
				expected = 0
			}
			return left == expected
		},
		gen.IntRange(0, 30),
		gen.IntRange(1, 25),
	))

	properties.TestingRun(t)
}
