package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobreach/core/internal/api/middleware"
	"github.com/jobreach/core/internal/services"
)

// ResumeHandler handles resume upload and lifecycle requests
type ResumeHandler struct {
	resumeService *services.ResumeService
	logService    *services.LogService
}

// NewResumeHandler creates a new ResumeHandler instance
func NewResumeHandler(resumeService *services.ResumeService, logService *services.LogService) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
		logService:    logService,
	}
}

// UploadResume accepts a multipart "resume" file (PDF or DOCX, max 5MB)
// POST /api/resume
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "No file uploaded",
			},
		})
		return
	}

	if fileHeader.Size > services.MaxResumeSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "File exceeds the 5MB limit",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxResumeSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}

	info, err := h.resumeService.Upload(c.Request.Context(), accountID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFileType),
			errors.Is(err, services.ErrFileTooLarge),
			errors.Is(err, services.ErrNoFile):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTEGRATION_ERROR",
					"message": "Upload failed",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"resume": info},
	})
}

// GetResume returns the stored resume reference or null
// GET /api/resume
func (h *ResumeHandler) GetResume(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	info, err := h.resumeService.Get(accountID)
	if err != nil {
		if errors.Is(err, services.ErrNoResume) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    gin.H{"resume": nil},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to fetch resume",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"resume": info},
	})
}

// GetResumeLink returns the raw-delivery URL for the stored resume
// GET /api/resume/link
func (h *ResumeHandler) GetResumeLink(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	url, err := h.resumeService.Link(accountID)
	if err != nil {
		if errors.Is(err, services.ErrNoResume) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "No resume found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to generate link",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"url": url},
	})
}

// DeleteResume destroys the remote file and clears the reference
// DELETE /api/resume
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		respondUnauthenticated(c)
		return
	}

	if err := h.resumeService.Delete(c.Request.Context(), accountID); err != nil {
		if errors.Is(err, services.ErrNoResume) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "No resume to delete",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTEGRATION_ERROR",
				"message": "Delete failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
