// Package mailer dispatches plain-text email through the Gmail API on
// behalf of an account's OAuth grant.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	gomail "gopkg.in/gomail.v2"
)

// Message is one outbound plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Transport dispatches a single message using the given grant. Errors are
// returned to the caller; the transport never retries.
type Transport interface {
	Send(ctx context.Context, token *oauth2.Token, msg Message) error
}

// GmailTransport sends messages through the Gmail API. The oauth2 client
// refreshes expired access tokens transparently using the refresh token
// carried in the grant.
type GmailTransport struct {
	oauthConfig *oauth2.Config
}

// NewGmailTransport creates a GmailTransport bound to the OAuth client
// that issued the account grants.
func NewGmailTransport(oauthConfig *oauth2.Config) *GmailTransport {
	return &GmailTransport{oauthConfig: oauthConfig}
}

// Send builds an RFC 822 plain-text message and hands it to the Gmail
// users.messages.send API as base64url raw content.
func (t *GmailTransport) Send(ctx context.Context, token *oauth2.Token, msg Message) error {
	client := t.oauthConfig.Client(ctx, token)
	svc, err := gmailv1.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("create gmail service: %w", err)
	}

	raw, err := encodeMessage(msg)
	if err != nil {
		return err
	}

	_, err = svc.Users.Messages.Send("me", &gmailv1.Message{Raw: raw}).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// encodeMessage renders the message to the unpadded base64url form the
// Gmail API expects in Message.Raw.
func encodeMessage(msg Message) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}
