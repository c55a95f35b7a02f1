package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobreach/core/internal/api/middleware"
	"github.com/jobreach/core/internal/services"
)

// TemplateHandler handles email template requests
type TemplateHandler struct {
	templateService *services.TemplateService
	logService      *services.LogService
}

// NewTemplateHandler creates a new TemplateHandler instance
func NewTemplateHandler(templateService *services.TemplateService, logService *services.LogService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logService:      logService,
	}
}

// GetTemplate returns the stored-or-default template
// GET /api/template
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	tmpl, err := h.templateService.Get(accountID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrAccountNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to fetch template",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"template": tmpl},
	})
}

// SaveTemplate stores a new subject and body
// POST /api/template
func (h *TemplateHandler) SaveTemplate(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	var req services.Template
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

	tmpl, err := h.templateService.Save(accountID, req)
	if err != nil {
		if errors.Is(err, services.ErrTemplateIncomplete) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Subject and body are required",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to save template",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"template": tmpl},
	})
}
