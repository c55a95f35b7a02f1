package services

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewTemplateService(db)

	tmpl, err := service.Get(account.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tmpl.Subject != DefaultTemplateSubject {
		t.Errorf("Expected default subject, got %q", tmpl.Subject)
	}
	if tmpl.Body != DefaultTemplateBody {
		t.Errorf("Expected default body, got %q", tmpl.Body)
	}
}

func TestSaveRequiresBothParts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	account := createTestAccount(t, db)
	service := NewTemplateService(db)

	if _, err := service.Save(account.ID, Template{Subject: "only subject"}); !errors.Is(err, ErrTemplateIncomplete) {
		t.Errorf("Expected ErrTemplateIncomplete for missing body, got %v", err)
	}
	if _, err := service.Save(account.ID, Template{Body: "only body"}); !errors.Is(err, ErrTemplateIncomplete) {
		t.Errorf("Expected ErrTemplateIncomplete for missing subject, got %v", err)
	}
}

func TestSaveForUnknownAccount(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewTemplateService(db)
	_, err := service.Save(9999, Template{Subject: "s", Body: "b"})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

// Saved templates come back byte-identical, whitespace and unknown
// placeholders included.
func TestProperty_TemplateRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	part := gen.RegexMatch(`[ -~]{1,60}`)

	properties.Property("template_round_trip", prop.ForAll(
		func(subject, body string) bool {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			account := createTestAccount(t, db)
			service := NewTemplateService(db)

			if _, err := service.Save(account.ID, Template{Subject: subject, Body: body}); err != nil {
				return false
			}

			tmpl, err := service.Get(account.ID)
			if err != nil {
				return false
			}
			return tmpl.Subject == subject && tmpl.Body == body
		},
		part,
		part,
	))

	properties.TestingRun(t)
}
