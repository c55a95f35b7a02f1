package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"time"

	"github.com/jobreach/core/internal/database/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound indicates the account was not found
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidProfile indicates the identity provider returned an unusable profile
	ErrInvalidProfile = errors.New("invalid google profile")
	// ErrEncryptionFailed indicates token encryption failed
	ErrEncryptionFailed = errors.New("token encryption failed")
	// ErrDecryptionFailed indicates token decryption failed
	ErrDecryptionFailed = errors.New("token decryption failed")
)

// AccountService handles account-related business logic
type AccountService struct {
	db            *gorm.DB
	encryptionKey []byte // 32 bytes for AES-256
	logService    *LogService
}

// NewAccountService creates a new AccountService instance
func NewAccountService(db *gorm.DB, encryptionKey []byte) *AccountService {
	// Ensure key is 32 bytes for AES-256
	key := make([]byte, 32)
	copy(key, encryptionKey)
	return &AccountService{
		db:            db,
		encryptionKey: key,
		logService:    NewLogService(db),
	}
}

// encryptToken encrypts a token string using AES-256-GCM
func (s *AccountService) encryptToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", ErrEncryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", ErrEncryptionFailed
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", ErrEncryptionFailed
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decryptToken decrypts a token string using AES-256-GCM
func (s *AccountService) decryptToken(encryptedToken string) (string, error) {
	if encryptedToken == "" {
		return "", nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedToken)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", ErrDecryptionFailed
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// GoogleProfile is the verified identity returned by the identity provider.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Avatar  string
}

// FindOrCreateByGoogle returns the account for a verified Google identity,
// creating it on first sign-in.
func (s *AccountService) FindOrCreateByGoogle(profile GoogleProfile) (*models.Account, error) {
	if profile.Subject == "" || profile.Email == "" {
		return nil, ErrInvalidProfile
	}

	var account models.Account
	err := s.db.Where("google_id = ?", profile.Subject).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = models.Account{
		GoogleID: profile.Subject,
		Email:    profile.Email,
		Name:     profile.Name,
		Avatar:   profile.Avatar,
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByID retrieves an account by ID
func (s *AccountService) GetAccountByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// SaveGmailGrant stores an OAuth grant on the account with tokens
// encrypted at rest. The grant is treated as opaque.
func (s *AccountService) SaveGmailGrant(accountID uint, token *oauth2.Token) error {
	accessEnc, err := s.encryptToken(token.AccessToken)
	if err != nil {
		return err
	}
	refreshEnc, err := s.encryptToken(token.RefreshToken)
	if err != nil {
		return err
	}

	scope := ""
	if v, ok := token.Extra("scope").(string); ok {
		scope = v
	}
	updates := map[string]interface{}{
		"gmail_access_token":  accessEnc,
		"gmail_refresh_token": refreshEnc,
		"gmail_token_type":    token.TokenType,
		"gmail_scope":         scope,
		"gmail_token_expiry":  token.Expiry,
	}

	result := s.db.Model(&models.Account{}).Where("id = ?", accountID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// GmailGrant reconstructs the account's OAuth grant. Returns nil when the
// account has no grant.
func (s *AccountService) GmailGrant(account *models.Account) (*oauth2.Token, error) {
	if !account.GmailConnected() {
		return nil, nil
	}

	access, err := s.decryptToken(account.GmailAccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.decryptToken(account.GmailRefreshToken)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    account.GmailTokenType,
		Expiry:       account.GmailTokenExpiry,
	}, nil
}

// DisconnectGmail discards the account's Gmail grant. Other account data
// is untouched.
func (s *AccountService) DisconnectGmail(accountID uint) error {
	result := s.db.Model(&models.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"gmail_access_token":  "",
		"gmail_refresh_token": "",
		"gmail_token_type":    "",
		"gmail_scope":         "",
		"gmail_token_expiry":  time.Time{},
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	s.logService.LogGmailDisconnected(accountID)
	return nil
}

// DeleteAccount removes the account and everything it owns: contacts,
// send log, and system logs.
func (s *AccountService) DeleteAccount(accountID uint) error {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&models.SendLogEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Log{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, accountID).Error
	})
	if err != nil {
		return err
	}

	s.logService.LogAccountDeleted(accountID, account.Email)
	return nil
}

// SaveResume stores a file-store reference on the account.
func (s *AccountService) SaveResume(accountID uint, url, publicID, filename string) error {
	result := s.db.Model(&models.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"resume_url":         url,
		"resume_public_id":   publicID,
		"resume_filename":    filename,
		"resume_uploaded_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ClearResume removes the resume reference from the account.
func (s *AccountService) ClearResume(accountID uint) error {
	result := s.db.Model(&models.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"resume_url":         "",
		"resume_public_id":   "",
		"resume_filename":    "",
		"resume_uploaded_at": time.Time{},
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
