package mailer

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMessage_Base64URLRoundTrip(t *testing.T) {
	raw, err := encodeMessage(Message{
		From:    "sender@example.com",
		To:      "recipient@example.com",
		Subject: "Application for Initech - Ada",
		Body:    "Hi,\n\nplain text body.\n",
	})
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	require.NoError(t, err, "raw must be unpadded base64url")

	text := string(decoded)
	assert.Contains(t, text, "From: sender@example.com")
	assert.Contains(t, text, "To: recipient@example.com")
	assert.Contains(t, text, "Subject: Application for Initech - Ada")
	assert.Contains(t, text, "plain text body.")
	assert.Contains(t, text, "text/plain", "message must be sent as plain text")
}

func TestEncodeMessage_UnicodeSubject(t *testing.T) {
	raw, err := encodeMessage(Message{
		From:    "sender@example.com",
		To:      "recipient@example.com",
		Subject: "Bewerbung für Müller GmbH",
		Body:    "body",
	})
	require.NoError(t, err)

	_, err = base64.RawURLEncoding.DecodeString(raw)
	assert.NoError(t, err, "non-ASCII subjects must still encode cleanly")
}
