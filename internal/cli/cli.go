package cli

import (
	"fmt"
	"os"

	"github.com/jobreach/core/internal/api/middleware"
	"github.com/jobreach/core/internal/config"
	"github.com/jobreach/core/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	db             *gorm.DB
	cfg            *config.Config
	apiKeyManager  *middleware.APIKeyManager
	accountService *services.AccountService
	sendLogService *services.SendLogService
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jobreach",
	Short: "JobReach cold-outreach backend service",
	Long: `JobReach is the backend service for a job-application outreach tool:
Google sign-in, contact import, templated email and bulk personalized
sends through the signed-in user's Gmail.

This command line tool provides:
  - key management: show and reset the API key
  - account inspection: list accounts and their daily quota

Examples:
  jobreach key show          # show the current API key
  jobreach key reset         # reset the API key
  jobreach account list      # list all accounts
  jobreach account quota 3   # show remaining quota for account 3`,
}

// Execute runs the CLI with the provided database and config
func Execute(database *gorm.DB, config *config.Config) {
	db = database
	cfg = config

	var err error
	apiKeyManager, err = middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize API key manager: %v\n", err)
		os.Exit(1)
	}

	accountService = services.NewAccountService(db, cfg.GetEncryptionKey())
	sendLogService = services.NewSendLogService(db)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(accountCmd)
}
