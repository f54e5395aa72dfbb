package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWebhook(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		token    string
		expected string
		want     bool
	}{
		{"valid handshake", "subscribe", "secret-token", "secret-token", true},
		{"wrong token", "subscribe", "guess", "secret-token", false},
		{"wrong mode", "unsubscribe", "secret-token", "secret-token", false},
		{"unconfigured expected token", "subscribe", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyWebhook(tt.mode, tt.token, tt.expected))
		})
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "app-secret"
	body := []byte(`{"object":"whatsapp_business_account"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	valid := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifySignature(secret, body, valid))
	assert.False(t, VerifySignature(secret, body, "sha256=deadbeef"))
	assert.False(t, VerifySignature(secret, body, "no-prefix"))
	assert.False(t, VerifySignature(secret, []byte("tampered"), valid))
}

func TestWebhookPayloadDecodesTextMessage(t *testing.T) {
	raw := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "1234567890",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550001111", "phone_number_id": "111222333"},
					"contacts": [{"wa_id": "628111222333", "profile": {"name": "Ari"}}],
					"messages": [{
						"id": "wamid.abc",
						"from": "628111222333",
						"timestamp": "1726000000",
						"type": "text",
						"text": {"body": "halo, aku butuh teman bicara"}
					}]
				}
			}]
		}]
	}`

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	require.Len(t, payload.Entry, 1)
	require.Len(t, payload.Entry[0].Changes, 1)
	value := payload.Entry[0].Changes[0].Value
	assert.Equal(t, "111222333", value.Metadata.PhoneNumberID)
	require.Len(t, value.Messages, 1)
	msg := value.Messages[0]
	assert.Equal(t, "text", msg.Type)
	require.NotNil(t, msg.Text)
	assert.Equal(t, "halo, aku butuh teman bicara", msg.Text.Body)
}
