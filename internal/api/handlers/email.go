package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobreach/core/internal/api/middleware"
	"github.com/jobreach/core/internal/services"
)

// EmailHandler handles test sends, bulk sends, quota probes, resends and
// send log retrieval
type EmailHandler struct {
	outreachService *services.OutreachService
	logService      *services.LogService
}

// NewEmailHandler creates a new EmailHandler instance
func NewEmailHandler(outreachService *services.OutreachService, logService *services.LogService) *EmailHandler {
	return &EmailHandler{
		outreachService: outreachService,
		logService:      logService,
	}
}

// TestSendRequest represents a test send request
type TestSendRequest struct {
	To string `json:"to" binding:"required"`
}

// TestSend sends one sample-rendered email to the given address
// POST /api/email/test
func (h *EmailHandler) TestSend(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req TestSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Recipient email is required",
			},
		})
		return
	}

	if err := h.outreachService.TestSend(c.Request.Context(), accountID, req.To); err != nil {
		h.respondSendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Test email sent to " + req.To},
	})
}

// BulkSendRequest represents a bulk send request. Start and End are
// 1-based inclusive; zero means "from the beginning" / "to the end".
type BulkSendRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// BulkSend dispatches the templated email to a range of contacts
// POST /api/email/bulk
func (h *EmailHandler) BulkSend(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req BulkSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request body",
			},
		})
		return
	}

	result, err := h.outreachService.BulkSend(c.Request.Context(), accountID, req.Start, req.End)
	if err != nil {
		h.respondSendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// Quota reports the remaining daily quota without sending anything
// GET /api/email/quota
func (h *EmailHandler) Quota(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	info, err := h.outreachService.Quota(accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to compute quota",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    info,
	})
}

// ResendRequest represents a resend of one already-rendered email
type ResendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	LogID   *uint  `json:"log_id"`
}

// Resend dispatches one email again and appends a flagged log entry
// POST /api/email/resend
func (h *EmailHandler) Resend(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request body",
			},
		})
		return
	}

	entry, err := h.outreachService.Resend(c.Request.Context(), accountID, req.To, req.Subject, req.Body, req.LogID)
	if err != nil {
		h.respondSendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"entry": entry},
	})
}

// SendLog returns the account's send log, newest first
// GET /api/email/log
func (h *EmailHandler) SendLog(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	entries, err := h.outreachService.SendLog(accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to fetch send log",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"entries": entries,
			"count":   len(entries),
		},
	})
}

// respondSendError maps orchestrator errors onto HTTP responses.
func (h *EmailHandler) respondSendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGmailNotConnected):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GMAIL_NOT_CONNECTED",
				"message": "Connect your Gmail account before sending",
			},
		})
	case errors.Is(err, services.ErrNoContacts):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_CONTACTS",
				"message": "Import contacts before sending",
			},
		})
	case errors.Is(err, services.ErrQuotaExhausted):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUOTA_EXCEEDED",
				"message": "Daily send quota exhausted",
			},
		})
	case errors.Is(err, services.ErrRecipientRequired),
		errors.Is(err, services.ErrResendIncomplete):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Account not found",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SEND_ERROR",
				"message": err.Error(),
			},
		})
	}
}
