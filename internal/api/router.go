package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jobreach/core/internal/api/handlers"
	"github.com/jobreach/core/internal/api/middleware"
	"github.com/jobreach/core/internal/config"
	"github.com/jobreach/core/internal/filestore"
	"github.com/jobreach/core/internal/mailer"
	"github.com/jobreach/core/internal/services"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *middleware.AuthManager, error) {
	router := gin.Default()

	allowOrigins := strings.Split(cfg.CORSOrigins, ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.CORSOrigins != "*",
		MaxAge:           12 * time.Hour,
	}))

	// Initialize auth manager
	authManager, err := middleware.NewAuthManager(cfg.DataDir, cfg.JWTSecret, middleware.DefaultTokenExpiry)
	if err != nil {
		return nil, nil, err
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.send"},
		Endpoint:     google.Endpoint,
	}

	// Initialize services
	logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
	accountService := services.NewAccountService(db, cfg.GetEncryptionKey())
	contactService := services.NewContactService(db)
	templateService := services.NewTemplateService(db)

	transport := mailer.NewGmailTransport(oauthConfig)
	outreachService := services.NewOutreachService(db, accountService, transport, cfg.DailyQuota, cfg.SendDelay())

	store := filestore.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	resumeService := services.NewResumeService(db, accountService, store, store.DeliveryURL)

	identity := services.NewGoogleVerifier(cfg.GoogleClientID)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService, identity, authManager.JWTManager, logService, oauthConfig)
	contactsHandler := handlers.NewContactsHandler(contactService, logService)
	templateHandler := handlers.NewTemplateHandler(templateService, logService)
	resumeHandler := handlers.NewResumeHandler(resumeService, logService)
	emailHandler := handlers.NewEmailHandler(outreachService, logService)

	// Health check endpoint (no auth required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Apply API key middleware to all API routes
		api.Use(middleware.APIKeyMiddleware(authManager.APIKeyManager))

		// Sign-in (API key required, but no JWT yet)
		auth := api.Group("/auth")
		{
			auth.POST("/google", authHandler.GoogleSignIn)
		}

		// Protected routes (API key + JWT required)
		protected := api.Group("")
		protected.Use(middleware.JWTMiddleware(authManager.JWTManager))
		{
			protected.GET("/auth/me", authHandler.GetCurrentAccount)
			protected.GET("/auth/gmail/initiate", authHandler.GmailInitiate)
			protected.GET("/auth/gmail/callback", authHandler.GmailCallback)
			protected.POST("/auth/gmail/disconnect", authHandler.GmailDisconnect)
			protected.DELETE("/auth/account", authHandler.DeleteAccount)

			contacts := protected.Group("/contacts")
			{
				contacts.GET("", contactsHandler.ListContacts)
				contacts.POST("", contactsHandler.ReplaceContacts)
				contacts.POST("/import", contactsHandler.ImportPreview)
			}

			template := protected.Group("/template")
			{
				template.GET("", templateHandler.GetTemplate)
				template.POST("", templateHandler.SaveTemplate)
			}

			resume := protected.Group("/resume")
			{
				resume.GET("", resumeHandler.GetResume)
				resume.POST("", resumeHandler.UploadResume)
				resume.GET("/link", resumeHandler.GetResumeLink)
				resume.DELETE("", resumeHandler.DeleteResume)
			}

			email := protected.Group("/email")
			{
				email.POST("/test", emailHandler.TestSend)
				email.POST("/bulk", emailHandler.BulkSend)
				email.GET("/quota", emailHandler.Quota)
				email.POST("/resend", emailHandler.Resend)
				email.GET("/log", emailHandler.SendLog)
			}
		}
	}

	return router, authManager, nil
}
