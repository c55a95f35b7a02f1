package services

import (
	"encoding/json"
	"strings"

	"github.com/jobreach/core/internal/database/models"
	"gorm.io/gorm"
)

// LogService handles logging operations
type LogService struct {
	db       *gorm.DB
	logLevel models.LogLevel
}

// NewLogService creates a new LogService instance
func NewLogService(db *gorm.DB) *LogService {
	return &LogService{
		db:       db,
		logLevel: models.LogLevelInfo, // Default log level
	}
}

// NewLogServiceWithLevel creates a new LogService instance with specified log level
func NewLogServiceWithLevel(db *gorm.DB, level string) *LogService {
	return &LogService{
		db:       db,
		logLevel: parseLogLevel(level),
	}
}

// parseLogLevel converts a string to LogLevel
func parseLogLevel(level string) models.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return models.LogLevelDebug
	case "INFO":
		return models.LogLevelInfo
	case "WARN", "WARNING":
		return models.LogLevelWarn
	case "ERROR":
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}

// shouldLog checks if a log entry should be recorded based on log level
func (s *LogService) shouldLog(level models.LogLevel) bool {
	levelPriority := map[models.LogLevel]int{
		models.LogLevelDebug: 0,
		models.LogLevelInfo:  1,
		models.LogLevelWarn:  2,
		models.LogLevelError: 3,
	}

	return levelPriority[level] >= levelPriority[s.logLevel]
}

// LogEntry represents a log entry to be created
type LogEntry struct {
	AccountID uint
	Level     models.LogLevel
	Module    models.LogModule
	Action    string
	Message   string
	Details   interface{} // Will be serialized to JSON
}

// Log creates a new log entry
func (s *LogService) Log(entry LogEntry) error {
	// Check if this log level should be recorded
	if !s.shouldLog(entry.Level) {
		return nil
	}

	var detailsJSON string
	if entry.Details != nil {
		bytes, err := json.Marshal(entry.Details)
		if err != nil {
			detailsJSON = "{}"
		} else {
			detailsJSON = string(bytes)
		}
	}

	log := &models.Log{
		AccountID: entry.AccountID,
		Level:     string(entry.Level),
		Module:    string(entry.Module),
		Action:    entry.Action,
		Message:   entry.Message,
		Details:   detailsJSON,
	}

	return s.db.Create(log).Error
}

// LogInfo creates an INFO level log entry
func (s *LogService) LogInfo(accountID uint, module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{
		AccountID: accountID,
		Level:     models.LogLevelInfo,
		Module:    module,
		Action:    action,
		Message:   message,
		Details:   details,
	})
}

// LogWarn creates a WARN level log entry
func (s *LogService) LogWarn(accountID uint, module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{
		AccountID: accountID,
		Level:     models.LogLevelWarn,
		Module:    module,
		Action:    action,
		Message:   message,
		Details:   details,
	})
}

// LogError creates an ERROR level log entry
func (s *LogService) LogError(accountID uint, module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{
		AccountID: accountID,
		Level:     models.LogLevelError,
		Module:    module,
		Action:    action,
		Message:   message,
		Details:   details,
	})
}

// LogDebug creates a DEBUG level log entry
func (s *LogService) LogDebug(accountID uint, module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{
		AccountID: accountID,
		Level:     models.LogLevelDebug,
		Module:    module,
		Action:    action,
		Message:   message,
		Details:   details,
	})
}

// SignInDetails represents details for sign-in events
type SignInDetails struct {
	Email    string `json:"email"`
	ClientIP string `json:"client_ip,omitempty"`
	Error    string `json:"error,omitempty"`
}

// LogSignIn logs a Google sign-in attempt
func (s *LogService) LogSignIn(accountID uint, email, clientIP string, success bool, err error) error {
	details := SignInDetails{Email: email, ClientIP: clientIP}
	if err != nil {
		details.Error = err.Error()
	}
	if success {
		return s.LogInfo(accountID, models.LogModuleAuth, "sign_in", "Google sign-in succeeded", details)
	}
	return s.LogWarn(accountID, models.LogModuleAuth, "sign_in", "Google sign-in failed", details)
}

// LogGmailConnected logs a successful Gmail grant exchange
func (s *LogService) LogGmailConnected(accountID uint, email string) error {
	return s.LogInfo(accountID, models.LogModuleAuth, "gmail_connect", "Gmail grant stored", SignInDetails{Email: email})
}

// LogGmailDisconnected logs a Gmail grant being discarded
func (s *LogService) LogGmailDisconnected(accountID uint) error {
	return s.LogInfo(accountID, models.LogModuleAuth, "gmail_disconnect", "Gmail grant discarded", nil)
}

// LogAccountDeleted logs an account deletion with all owned data
func (s *LogService) LogAccountDeleted(accountID uint, email string) error {
	return s.LogInfo(accountID, models.LogModuleAccount, "delete", "Account deleted", SignInDetails{Email: email})
}

// ContactsDetails represents details for contact list changes
type ContactsDetails struct {
	Count int `json:"count"`
}

// LogContactsReplaced logs a wholesale contact list replacement
func (s *LogService) LogContactsReplaced(accountID uint, count int) error {
	return s.LogInfo(accountID, models.LogModuleContact, "replace", "Contact list replaced", ContactsDetails{Count: count})
}

// LogTemplateSaved logs a template save
func (s *LogService) LogTemplateSaved(accountID uint) error {
	return s.LogInfo(accountID, models.LogModuleTemplate, "save", "Email template saved", nil)
}

// ResumeDetails represents details for resume changes
type ResumeDetails struct {
	Filename string `json:"filename,omitempty"`
	PublicID string `json:"public_id,omitempty"`
}

// LogResumeUploaded logs a resume upload
func (s *LogService) LogResumeUploaded(accountID uint, filename, publicID string) error {
	return s.LogInfo(accountID, models.LogModuleResume, "upload", "Resume uploaded", ResumeDetails{Filename: filename, PublicID: publicID})
}

// LogResumeDeleted logs a resume deletion
func (s *LogService) LogResumeDeleted(accountID uint, publicID string) error {
	return s.LogInfo(accountID, models.LogModuleResume, "delete", "Resume deleted", ResumeDetails{PublicID: publicID})
}

// BulkSendDetails represents details for a bulk send run
type BulkSendDetails struct {
	Start     int `json:"start"`
	End       int `json:"end"`
	Sent      int `json:"sent"`
	Errors    int `json:"errors"`
	QuotaLeft int `json:"quota_left"`
}

// LogBulkSend logs the aggregate outcome of a bulk send run
func (s *LogService) LogBulkSend(accountID uint, details BulkSendDetails) error {
	return s.LogInfo(accountID, models.LogModuleOutreach, "bulk_send", "Bulk send completed", details)
}

// ResendDetails represents details for a resend attempt
type ResendDetails struct {
	To         string `json:"to"`
	OriginalID uint   `json:"original_id,omitempty"`
	Status     string `json:"status"`
}

// LogResend logs a user-initiated resend
func (s *LogService) LogResend(accountID uint, to string, originalID uint, status string) error {
	return s.LogInfo(accountID, models.LogModuleOutreach, "resend", "Resend attempted", ResendDetails{
		To:         to,
		OriginalID: originalID,
		Status:     status,
	})
}

// APIRequestDetails represents details for API request logs
type APIRequestDetails struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	ClientIP   string `json:"client_ip,omitempty"`
}

// LogAPIRequest logs an API request
func (s *LogService) LogAPIRequest(accountID uint, method, path string, statusCode int, clientIP string) error {
	return s.LogDebug(accountID, models.LogModuleAPI, "request", method+" "+path, APIRequestDetails{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		ClientIP:   clientIP,
	})
}
