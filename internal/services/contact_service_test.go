package services

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestReplaceAllPreservesOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewContactService(db)

	inputs := []ContactInput{
		{Name: "Zoe", Email: "zoe@example.com", Company: "Acme"},
		{Name: "Ada", Email: "ada@example.com", Company: "Globex"},
		{Name: "Mia", Email: "mia@example.com", Company: "Initech"},
	}
	if _, err := service.ReplaceAll(account.ID, inputs); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	contacts, err := service.List(account.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(contacts) != 3 {
		t.Fatalf("Expected 3 contacts, got %d", len(contacts))
	}
	for i, contact := range contacts {
		if contact.Position != i+1 {
			t.Errorf("Expected position %d, got %d", i+1, contact.Position)
		}
		if contact.Name != inputs[i].Name {
			t.Errorf("Expected %s at position %d, got %s", inputs[i].Name, i+1, contact.Name)
		}
	}
}

func TestReplaceAllDiscardsPreviousList(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewContactService(db)

	first := []ContactInput{
		{Name: "Old One", Email: "old1@example.com"},
		{Name: "Old Two", Email: "old2@example.com"},
	}
	if _, err := service.ReplaceAll(account.ID, first); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	second := []ContactInput{
		{Name: "New One", Email: "new1@example.com"},
	}
	if _, err := service.ReplaceAll(account.ID, second); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	contacts, err := service.List(account.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("Expected old list discarded, got %d contacts", len(contacts))
	}
	if contacts[0].Email != "new1@example.com" {
		t.Errorf("Expected new contact, got %s", contacts[0].Email)
	}
}

func TestReplaceAllWithEmptyListClears(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewContactService(db)

	if _, err := service.ReplaceAll(account.ID, []ContactInput{{Name: "X", Email: "x@example.com"}}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if _, err := service.ReplaceAll(account.ID, nil); err != nil {
		t.Fatalf("ReplaceAll with empty list failed: %v", err)
	}

	contacts, err := service.List(account.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("Expected empty list, got %d contacts", len(contacts))
	}
}

// Replacing with the same list twice yields the same stored contacts.
func TestProperty_ReplaceAllIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("replace_all_idempotent", prop.ForAll(
		func(n int) bool {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			account := createTestAccount(t, db)
			service := NewContactService(db)

			inputs := make([]ContactInput, 0, n)
			for i := 0; i < n; i++ {
				inputs = append(inputs, ContactInput{
					Name:  fmt.Sprintf("Contact %d", i),
					Email: fmt.Sprintf("c%d@example.com", i),
				})
			}

			for round := 0; round < 2; round++ {
				if _, err := service.ReplaceAll(account.ID, inputs); err != nil {
					return false
				}
			}

			contacts, err := service.List(account.ID)
			if err != nil {
				return false
			}
			if len(contacts) != n {
				return false
			}
			for i, contact := range contacts {
				if contact.Position != i+1 || contact.Email != inputs[i].Email {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 15),
	))

	properties.TestingRun(t)
}
