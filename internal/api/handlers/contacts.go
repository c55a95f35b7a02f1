package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobreach/core/internal/api/middleware"
	"github.com/jobreach/core/internal/importer"
	"github.com/jobreach/core/internal/services"
)

// ContactsHandler handles contact list and import requests
type ContactsHandler struct {
	contactService *services.ContactService
	logService     *services.LogService
}

// NewContactsHandler creates a new ContactsHandler instance
func NewContactsHandler(contactService *services.ContactService, logService *services.LogService) *ContactsHandler {
	return &ContactsHandler{
		contactService: contactService,
		logService:     logService,
	}
}

// ListContacts returns the account's contacts in list order
// GET /api/contacts
func (h *ContactsHandler) ListContacts(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	contacts, err := h.contactService.List(accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to fetch contacts",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"contacts": contacts},
	})
}

// ReplaceContactsRequest represents the replace-all request body
type ReplaceContactsRequest struct {
	Contacts *[]services.ContactInput `json:"contacts"`
}

// ReplaceContacts replaces the account's entire contact list
// POST /api/contacts
func (h *ContactsHandler) ReplaceContacts(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req ReplaceContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Contacts == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Contacts must be an array",
			},
		})
		return
	}

	contacts, err := h.contactService.ReplaceAll(accountID, *req.Contacts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to save contacts",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"contacts": contacts},
	})
}

// ImportPreviewRequest represents the import wizard request body: raw
// delimited text plus the field-to-header mapping.
type ImportPreviewRequest struct {
	CSV     string            `json:"csv" binding:"required"`
	Mapping map[string]string `json:"mapping" binding:"required"`
}

// ImportPreview parses uploaded delimited text, applies the mapping, and
// returns the candidate contact list without persisting anything. The
// caller saves via the replace-all endpoint.
// POST /api/contacts/import
func (h *ContactsHandler) ImportPreview(c *gin.Context) {
	_, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req ImportPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "CSV text and mapping are required",
			},
		})
		return
	}

	wizard, err := importer.NewWizard().Upload(strings.NewReader(req.CSV))
	if err != nil {
		message := "Failed to parse CSV"
		if errors.Is(err, importer.ErrNoHeaders) {
			message = "No headers found in file"
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": message,
			},
		})
		return
	}

	for field, header := range req.Mapping {
		wizard, err = wizard.Assign(importer.Field(field), header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
	}

	wizard, err = wizard.ToPreview()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "All required fields (name, email, company) must be mapped",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"headers":  wizard.File.Headers,
			"contacts": wizard.Contacts(),
		},
	})
}

// respondUnauthenticated writes the standard missing-credential response.
func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "AUTH_FAILED",
			"message": "Not authenticated",
		},
	})
}
