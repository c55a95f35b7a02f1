package services

import (
	"errors"
	"testing"
	"time"

	"github.com/jobreach/core/internal/database/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/oauth2"
)

func TestFindOrCreateByGoogleIsStable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewAccountService(db, []byte("test-encryption-key-32-bytes!!"))
	profile := GoogleProfile{
		Subject: "google-subject-1",
		Email:   "person@example.com",
		Name:    "Person",
	}

	first, err := service.FindOrCreateByGoogle(profile)
	if err != nil {
		t.Fatalf("FindOrCreateByGoogle failed: %v", err)
	}
	second, err := service.FindOrCreateByGoogle(profile)
	if err != nil {
		t.Fatalf("FindOrCreateByGoogle failed on repeat: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected same account on repeat sign-in, got %d and %d", first.ID, second.ID)
	}
}

func TestFindOrCreateRejectsEmptyProfile(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewAccountService(db, []byte("test-encryption-key-32-bytes!!"))
	if _, err := service.FindOrCreateByGoogle(GoogleProfile{Email: "x@example.com"}); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile without subject, got %v", err)
	}
	if _, err := service.FindOrCreateByGoogle(GoogleProfile{Subject: "sub"}); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile without email, got %v", err)
	}
}

func TestDisconnectGmailClearsGrant(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewAccountService(db, []byte("test-encryption-key-32-bytes!!"))
	account := createTestAccount(t, db)

	err := service.SaveGmailGrant(account.ID, &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("SaveGmailGrant failed: %v", err)
	}

	if err := service.DisconnectGmail(account.ID); err != nil {
		t.Fatalf("DisconnectGmail failed: %v", err)
	}

	reloaded, err := service.GetAccountByID(account.ID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if reloaded.GmailConnected() {
		t.Error("Expected grant cleared after disconnect")
	}
	grant, err := service.GmailGrant(reloaded)
	if err != nil {
		t.Fatalf("GmailGrant failed: %v", err)
	}
	if grant != nil {
		t.Errorf("Expected nil grant after disconnect, got %+v", grant)
	}
}

func TestDeleteAccountRemovesOwnedData(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewAccountService(db, []byte("test-encryption-key-32-bytes!!"))
	account := createTestAccount(t, db)

	if err := db.Create(&models.Contact{AccountID: account.ID, Position: 1, Name: "C", Email: "c@example.com"}).Error; err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	if err := db.Create(&models.SendLogEntry{AccountID: account.ID, To: "c@example.com", Subject: "s", Status: models.SendStatusSuccess}).Error; err != nil {
		t.Fatalf("Failed to create send log entry: %v", err)
	}

	if err := service.DeleteAccount(account.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if _, err := service.GetAccountByID(account.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected account gone, got %v", err)
	}
	var contacts int64
	db.Model(&models.Contact{}).Where("account_id = ?", account.ID).Count(&contacts)
	if contacts != 0 {
		t.Errorf("Expected contacts deleted, got %d", contacts)
	}
	var entries int64
	db.Model(&models.SendLogEntry{}).Where("account_id = ?", account.ID).Count(&entries)
	if entries != 0 {
		t.Errorf("Expected send log deleted, got %d", entries)
	}
}

// Tokens survive the encrypt-store-decrypt cycle and the stored column
// never holds the plaintext.
func TestProperty_GmailGrantRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	tokenGen := gen.RegexMatch(`[A-Za-z0-9._-]{8,40}`)

	properties.Property("grant_round_trip_encrypted_at_rest", prop.ForAll(
		func(access, refresh string) bool {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			service := NewAccountService(db, []byte("test-encryption-key-32-bytes!!"))
			account := createTestAccount(t, db)

			err := service.SaveGmailGrant(account.ID, &oauth2.Token{
				AccessToken:  access,
				RefreshToken: refresh,
				TokenType:    "Bearer",
				Expiry:       time.Now().Add(time.Hour),
			})
			if err != nil {
				return false
			}

			reloaded, err := service.GetAccountByID(account.ID)
			if err != nil {
				return false
			}
			// Stored values are ciphertext, not the raw tokens
			if reloaded.GmailAccessToken == access || reloaded.GmailRefreshToken == refresh {
				return false
			}

			grant, err := service.GmailGrant(reloaded)
			if err != nil || grant == nil {
				return false
			}
			return grant.AccessToken == access && grant.RefreshToken == refresh
		},
		tokenGen,
		tokenGen,
	))

	properties.TestingRun(t)
}
