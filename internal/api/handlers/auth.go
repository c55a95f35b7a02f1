package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobreach/core/internal/api/middleware"
	"github.com/jobreach/core/internal/database/models"
	"github.com/jobreach/core/internal/services"
	"golang.org/x/oauth2"
)

// SignInRequest represents the Google sign-in request body
type SignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// AccountResponse is the public view of an account
type AccountResponse struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	GmailConnected bool   `json:"gmail_connected"`
}

// ToAccountResponse converts an Account model to its public view
func ToAccountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		Email:          account.Email,
		Name:           account.Name,
		Avatar:         account.Avatar,
		GmailConnected: account.GmailConnected(),
	}
}

// AuthHandler handles sign-in and the Gmail grant lifecycle
type AuthHandler struct {
	accountService *services.AccountService
	identity       services.IdentityVerifier
	jwtManager     *middleware.JWTManager
	logService     *services.LogService
	oauthConfig    *oauth2.Config
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(accountService *services.AccountService, identity services.IdentityVerifier, jwtManager *middleware.JWTManager, logService *services.LogService, oauthConfig *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		identity:       identity,
		jwtManager:     jwtManager,
		logService:     logService,
		oauthConfig:    oauthConfig,
	}
}

// GoogleSignIn exchanges a Google ID token for a session token
// POST /api/auth/google
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "ID token required",
			},
		})
		return
	}

	profile, err := h.identity.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		h.logService.LogSignIn(0, "", c.ClientIP(), false, err)
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_FAILED",
				"message": "Invalid Google ID token",
			},
		})
		return
	}

	account, err := h.accountService.FindOrCreateByGoogle(*profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to load account",
			},
		})
		return
	}

	token, expiresAt, err := h.jwtManager.GenerateToken(account.ID, account.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to generate token",
			},
		})
		return
	}

	h.logService.LogSignIn(account.ID, account.Email, c.ClientIP(), true, nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
			"account":    ToAccountResponse(account),
		},
	})
}

// GetCurrentAccount returns the authenticated account's profile
// GET /api/auth/me
func (h *AuthHandler) GetCurrentAccount(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_FAILED",
				"message": "Not authenticated",
			},
		})
		return
	}

	account, err := h.accountService.GetAccountByID(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Account not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ToAccountResponse(account),
	})
}

// GmailInitiate returns the Google consent URL for the send grant
// GET /api/auth/gmail/initiate
func (h *AuthHandler) GmailInitiate(c *gin.Context) {
	if h.oauthConfig.ClientID == "" || h.oauthConfig.ClientSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OAUTH_NOT_CONFIGURED",
				"message": "Google OAuth client is not configured",
			},
		})
		return
	}

	url := h.oauthConfig.AuthCodeURL("gmail-connect", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"url": url},
	})
}

// GmailCallback exchanges the authorization code and stores the grant
// GET /api/auth/gmail/callback?code=...
func (h *AuthHandler) GmailCallback(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_FAILED",
				"message": "Not authenticated",
			},
		})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Missing authorization code",
			},
		})
		return
	}

	token, err := h.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTEGRATION_ERROR",
				"message": "Failed to connect Gmail",
			},
		})
		return
	}

	if err := h.accountService.SaveGmailGrant(accountID, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to store Gmail grant",
			},
		})
		return
	}

	account, err := h.accountService.GetAccountByID(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Account not found",
			},
		})
		return
	}

	h.logService.LogGmailConnected(accountID, account.Email)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ToAccountResponse(account),
	})
}

// GmailDisconnect discards the stored grant
// POST /api/auth/gmail/disconnect
func (h *AuthHandler) GmailDisconnect(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_FAILED",
				"message": "Not authenticated",
			},
		})
		return
	}

	if err := h.accountService.DisconnectGmail(accountID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrAccountNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to disconnect Gmail",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteAccount removes the account and everything it owns
// DELETE /api/auth/account
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	accountID, exists := middleware.GetAccountIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_FAILED",
				"message": "Not authenticated",
			},
		})
		return
	}

	if err := h.accountService.DeleteAccount(accountID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrAccountNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to delete account",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
