package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jobreach/core/internal/database/models"
	"github.com/jobreach/core/internal/services"
	"github.com/spf13/cobra"
)

// accountCmd represents the account command group
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account inspection",
	Long:  `Inspect signed-in accounts: list them or show remaining daily send quota.`,
}

// accountListCmd lists all accounts
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Run: func(cmd *cobra.Command, args []string) {
		if db == nil {
			fmt.Fprintln(os.Stderr, "Error: database not initialized")
			os.Exit(1)
		}

		var accounts []models.Account
		if err := db.Order("id asc").Find(&accounts).Error; err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list accounts: %v\n", err)
			os.Exit(1)
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts.")
			return
		}

		fmt.Printf("%-5s %-30s %-25s %-6s %-6s\n", "ID", "EMAIL", "NAME", "GMAIL", "RESUME")
		for _, a := range accounts {
			gmail := "no"
			if a.GmailConnected() {
				gmail = "yes"
			}
			resume := "no"
			if a.HasResume() {
				resume = "yes"
			}
			fmt.Printf("%-5d %-30s %-25s %-6s %-6s\n", a.ID, a.Email, a.Name, gmail, resume)
		}
	},
}

// accountQuotaCmd shows the remaining daily quota for one account
var accountQuotaCmd = &cobra.Command{
	Use:   "quota <account-id>",
	Short: "Show remaining daily send quota for an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if sendLogService == nil {
			fmt.Fprintln(os.Stderr, "Error: send log service not initialized")
			os.Exit(1)
		}

		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid account id: %s\n", args[0])
			os.Exit(1)
		}

		accountID := uint(id)
		if _, err := accountService.GetAccountByID(accountID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: account %d not found\n", accountID)
			os.Exit(1)
		}

		quotaLeft, err := sendLogService.QuotaLeft(accountID, cfg.DailyQuota)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to compute quota: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Account %d\n", accountID)
		fmt.Printf("Daily cap:  %d\n", cfg.DailyQuota)
		fmt.Printf("Sent today: %d\n", cfg.DailyQuota-quotaLeft)
		fmt.Printf("Remaining:  %d\n", quotaLeft)
		if quotaLeft == 0 {
			fmt.Printf("Resets at:  %s\n", services.NextReset(time.Now()).Format(time.RFC3339))
		}
	},
}

func init() {
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountQuotaCmd)
}
