package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ErrInvalidIDToken indicates the Google ID token failed verification
var ErrInvalidIDToken = errors.New("invalid google id token")

// IdentityVerifier exchanges a client-presented identity assertion for a
// verified Google profile. Core trusts its output as account identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*GoogleProfile, error)
}

// GoogleVerifier validates Google ID tokens against the configured OAuth
// client ID.
type GoogleVerifier struct {
	audience string
}

// NewGoogleVerifier creates a GoogleVerifier for the given client ID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID}
}

// Verify checks the token signature, audience, and expiry, and extracts
// the profile claims.
func (v *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	profile := &GoogleProfile{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		profile.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		profile.Avatar = picture
	}

	if profile.Email == "" {
		return nil, ErrInvalidIDToken
	}
	return profile, nil
}
