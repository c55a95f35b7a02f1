package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jobreach/core/internal/database/models"
	"github.com/jobreach/core/internal/mailer"
	"github.com/jobreach/core/internal/render"
	"gorm.io/gorm"
)

var (
	// ErrGmailNotConnected indicates the account holds no Gmail grant
	ErrGmailNotConnected = errors.New("gmail not connected")
	// ErrNoContacts indicates the account has no contacts to send to
	ErrNoContacts = errors.New("no contacts to send to")
	// ErrQuotaExhausted indicates the daily send quota is already used up
	ErrQuotaExhausted = errors.New("daily send quota exhausted")
	// ErrRecipientRequired indicates a send without a recipient address
	ErrRecipientRequired = errors.New("recipient email required")
	// ErrResendIncomplete indicates a resend without to, subject, or body
	ErrResendIncomplete = errors.New("resend requires to, subject and body")
)

// OutreachService is the bulk-send orchestrator: it clamps the requested
// contact range against list bounds and remaining quota, renders and
// dispatches one email per recipient in list order, and records every
// outcome in the send log.
type OutreachService struct {
	db             *gorm.DB
	accountService *AccountService
	contactService *ContactService
	sendLogService *SendLogService
	logService     *LogService
	transport      mailer.Transport
	dailyQuota     int
	sendDelay      time.Duration

	// Per-account serialization of "check quota, send, append log".
	// Without this, two overlapping bulk sends can both read the same
	// quota snapshot and overshoot the daily cap.
	mu           sync.Mutex
	accountLocks map[uint]*sync.Mutex
}

// NewOutreachService creates a new OutreachService instance
func NewOutreachService(db *gorm.DB, accountService *AccountService, transport mailer.Transport, dailyQuota int, sendDelay time.Duration) *OutreachService {
	return &OutreachService{
		db:             db,
		accountService: accountService,
		contactService: NewContactService(db),
		sendLogService: NewSendLogService(db),
		logService:     NewLogService(db),
		transport:      transport,
		dailyQuota:     dailyQuota,
		sendDelay:      sendDelay,
		accountLocks:   make(map[uint]*sync.Mutex),
	}
}

// lockAccount returns the mutex serializing sends for one account.
func (s *OutreachService) lockAccount(accountID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.accountLocks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.accountLocks[accountID] = lock
	}
	return lock
}

// SendResult is the outcome of one dispatch within a run.
type SendResult struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// BulkSendResult aggregates one bulk send run.
type BulkSendResult struct {
	Sent         int          `json:"sent"`
	Results      []SendResult `json:"results"`
	RangeSent    [2]int       `json:"range_sent"`
	Remaining    int          `json:"remaining"`
	QuotaLeft    int          `json:"quota_left"`
	NextSendTime *time.Time   `json:"next_send_time"`
}

// ClampRange normalizes a 1-based inclusive range against a list of n
// contacts: an inverted range is swapped, then both ends are clamped
// into [1, n]. n must be positive.
func ClampRange(start, end, n int) (int, int) {
	if start > end {
		start, end = end, start
	}
	if start < 1 {
		start = 1
	}
	if start > n {
		start = n
	}
	if end < 1 {
		end = 1
	}
	if end > n {
		end = n
	}
	return start, end
}

// BulkSend dispatches one email per contact in the clamped [start, end]
// range, truncated to the remaining daily quota. Per-recipient transport
// failures are absorbed into error log entries; the loop never aborts.
// Preconditions (no grant, no contacts, exhausted quota) fail the whole
// call before any send attempt, with no log entries written.
func (s *OutreachService) BulkSend(ctx context.Context, accountID uint, start, end int) (*BulkSendResult, error) {
	lock := s.lockAccount(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	grant, err := s.accountService.GmailGrant(account)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, ErrGmailNotConnected
	}

	contacts, err := s.contactService.List(accountID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	quotaLeft, err := s.sendLogService.QuotaLeft(accountID, s.dailyQuota)
	if err != nil {
		return nil, err
	}
	if quotaLeft == 0 {
		return nil, ErrQuotaExhausted
	}

	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = len(contacts)
	}
	start, end = ClampRange(start, end, len(contacts))

	toSend := contacts[start-1 : end]
	if len(toSend) > quotaLeft {
		toSend = toSend[:quotaLeft]
	}

	tmpl := TemplateFor(account)
	results := make([]SendResult, 0, len(toSend))
	errCount := 0

	for i := range toSend {
		contact := &toSend[i]
		fields := contact.Fields()
		subject := render.Render(tmpl.Subject, fields)
		body := render.Render(tmpl.Body, fields)
		if account.HasResume() {
			body += "\n\nResume: " + account.ResumeURL
		}

		status := models.SendStatusSuccess
		sendErr := ""
		err := s.transport.Send(ctx, grant, mailer.Message{
			From:    account.Email,
			To:      contact.Email,
			Subject: subject,
			Body:    body,
		})
		if err != nil {
			status = models.SendStatusError
			sendErr = err.Error()
			errCount++
		}

		if err := s.sendLogService.Append(&models.SendLogEntry{
			AccountID: accountID,
			To:        contact.Email,
			Subject:   subject,
			Status:    status,
			Error:     sendErr,
		}); err != nil {
			return nil, err
		}

		results = append(results, SendResult{
			To:      contact.Email,
			Subject: subject,
			Status:  status,
			Error:   sendErr,
		})

		if i < len(toSend)-1 && s.sendDelay > 0 {
			time.Sleep(s.sendDelay)
		}
	}

	sent := len(toSend)
	remaining := len(contacts) - (start - 1) - sent
	result := &BulkSendResult{
		Sent:      sent,
		Results:   results,
		RangeSent: [2]int{start, start + sent - 1},
		Remaining: remaining,
		QuotaLeft: quotaLeft - sent,
	}
	if remaining > 0 {
		next := NextReset(time.Now())
		result.NextSendTime = &next
	}

	s.logService.LogBulkSend(accountID, BulkSendDetails{
		Start:     start,
		End:       end,
		Sent:      sent,
		Errors:    errCount,
		QuotaLeft: result.QuotaLeft,
	})

	return result, nil
}

// QuotaInfo is the read-only quota probe result.
type QuotaInfo struct {
	QuotaLeft    int        `json:"quota_left"`
	Remaining    int        `json:"remaining"`
	NextSendTime *time.Time `json:"next_send_time"`
}

// Quota reports remaining daily quota and how many contacts exceed it,
// without sending anything.
func (s *OutreachService) Quota(accountID uint) (*QuotaInfo, error) {
	quotaLeft, err := s.sendLogService.QuotaLeft(accountID, s.dailyQuota)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contactService.List(accountID)
	if err != nil {
		return nil, err
	}

	remaining := len(contacts) - quotaLeft
	if remaining < 0 {
		remaining = 0
	}

	info := &QuotaInfo{QuotaLeft: quotaLeft, Remaining: remaining}
	if remaining > 0 {
		next := NextReset(time.Now())
		info.NextSendTime = &next
	}
	return info, nil
}

// TestSend renders the account's template with the account's own profile
// as sample fields and dispatches a single email. Failures surface
// immediately and nothing is logged to the send log.
func (s *OutreachService) TestSend(ctx context.Context, accountID uint, to string) error {
	if to == "" {
		return ErrRecipientRequired
	}

	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return err
	}

	grant, err := s.accountService.GmailGrant(account)
	if err != nil {
		return err
	}
	if grant == nil {
		return ErrGmailNotConnected
	}

	name := account.Name
	if name == "" {
		name = "Test User"
	}
	fields := map[string]string{
		"name":    name,
		"email":   account.Email,
		"company": "Test Company",
		"notes":   "Test email preview",
	}

	tmpl := TemplateFor(account)
	return s.transport.Send(ctx, grant, mailer.Message{
		From:    account.Email,
		To:      to,
		Subject: render.Render(tmpl.Subject, fields),
		Body:    render.Render(tmpl.Body, fields),
	})
}

// Resend dispatches one already-rendered email and appends a new log
// entry flagged as a resend referencing the original attempt. The
// original entry is never touched. The new entry counts toward quota on
// recomputation like any other send.
func (s *OutreachService) Resend(ctx context.Context, accountID uint, to, subject, body string, originalID *uint) (*models.SendLogEntry, error) {
	if to == "" || subject == "" || body == "" {
		return nil, ErrResendIncomplete
	}

	lock := s.lockAccount(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	grant, err := s.accountService.GmailGrant(account)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, ErrGmailNotConnected
	}

	status := models.SendStatusSuccess
	sendErr := ""
	if err := s.transport.Send(ctx, grant, mailer.Message{
		From:    account.Email,
		To:      to,
		Subject: subject,
		Body:    body,
	}); err != nil {
		status = models.SendStatusError
		sendErr = err.Error()
	}

	entry := &models.SendLogEntry{
		AccountID:  accountID,
		To:         to,
		Subject:    subject,
		Status:     status,
		Error:      sendErr,
		Resent:     true,
		OriginalID: originalID,
	}
	if err := s.sendLogService.Append(entry); err != nil {
		return nil, err
	}

	var origID uint
	if originalID != nil {
		origID = *originalID
	}
	s.logService.LogResend(accountID, to, origID, status)

	return entry, nil
}

// SendLog returns the account's send log, newest first.
func (s *OutreachService) SendLog(accountID uint) ([]models.SendLogEntry, error) {
	return s.sendLogService.List(accountID)
}
