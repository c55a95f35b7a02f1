package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jobreach/core/internal/database/models"
	"github.com/jobreach/core/internal/filestore"
	"gorm.io/gorm"
)

const (
	// MaxResumeSize is the upload size limit in bytes (5MB)
	MaxResumeSize = 5 * 1024 * 1024

	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrNoResume indicates the account has no stored resume
	ErrNoResume = errors.New("no resume found")
	// ErrNoFile indicates an upload request without a file
	ErrNoFile = errors.New("no file uploaded")
	// ErrFileTooLarge indicates the upload exceeds MaxResumeSize
	ErrFileTooLarge = errors.New("file exceeds the 5MB limit")
	// ErrUnsupportedFileType indicates a file that is neither PDF nor DOCX
	ErrUnsupportedFileType = errors.New("only PDF and DOCX files are allowed")
)

// ResumeInfo is the stored resume reference returned to clients.
type ResumeInfo struct {
	URL        string    `json:"url"`
	PublicID   string    `json:"public_id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ResumeService handles resume uploads. The binary lives in the external
// file store; only the reference is persisted.
type ResumeService struct {
	db             *gorm.DB
	accountService *AccountService
	store          filestore.Store
	deliveryURL    func(publicID string) string
	logService     *LogService
}

// NewResumeService creates a new ResumeService instance
func NewResumeService(db *gorm.DB, accountService *AccountService, store filestore.Store, deliveryURL func(string) string) *ResumeService {
	return &ResumeService{
		db:             db,
		accountService: accountService,
		store:          store,
		deliveryURL:    deliveryURL,
		logService:     NewLogService(db),
	}
}

// formatFor maps a declared content type to the stored file format.
func formatFor(contentType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case mimePDF:
		return "pdf", nil
	case mimeDOCX:
		return "docx", nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// Upload validates and stores a resume, replacing any previous reference.
func (s *ResumeService) Upload(ctx context.Context, accountID uint, filename, contentType string, data []byte) (*ResumeInfo, error) {
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if len(data) > MaxResumeSize {
		return nil, ErrFileTooLarge
	}

	format, err := formatFor(contentType)
	if err != nil {
		return nil, err
	}

	if _, err := s.accountService.GetAccountByID(accountID); err != nil {
		return nil, err
	}

	publicID := fmt.Sprintf("%d_%d", accountID, time.Now().UnixMilli())
	ref, err := s.store.Upload(ctx, publicID, format, data)
	if err != nil {
		return nil, err
	}

	if err := s.accountService.SaveResume(accountID, ref.URL, ref.PublicID, filename); err != nil {
		return nil, err
	}

	s.logService.LogResumeUploaded(accountID, filename, ref.PublicID)

	return &ResumeInfo{
		URL:        ref.URL,
		PublicID:   ref.PublicID,
		Filename:   filename,
		UploadedAt: time.Now(),
	}, nil
}

// Get returns the account's resume reference, or ErrNoResume.
func (s *ResumeService) Get(accountID uint) (*ResumeInfo, error) {
	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if !account.HasResume() {
		return nil, ErrNoResume
	}
	return resumeInfo(account), nil
}

// Link returns the raw-delivery URL for the stored resume.
func (s *ResumeService) Link(accountID uint) (string, error) {
	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return "", err
	}
	if !account.HasResume() || account.ResumePublicID == "" {
		return "", ErrNoResume
	}
	return s.deliveryURL(account.ResumePublicID), nil
}

// Delete destroys the remote file and clears the reference.
func (s *ResumeService) Delete(ctx context.Context, accountID uint) error {
	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return err
	}
	if !account.HasResume() {
		return ErrNoResume
	}

	if err := s.store.Delete(ctx, account.ResumePublicID); err != nil {
		return err
	}
	if err := s.accountService.ClearResume(accountID); err != nil {
		return err
	}

	s.logService.LogResumeDeleted(accountID, account.ResumePublicID)
	return nil
}

func resumeInfo(account *models.Account) *ResumeInfo {
	return &ResumeInfo{
		URL:        account.ResumeURL,
		PublicID:   account.ResumePublicID,
		Filename:   account.ResumeFilename,
		UploadedAt: account.ResumeUploadedAt,
	}
}
