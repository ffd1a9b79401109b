package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesPNG(t *testing.T) {
	gen := NewGenerator("test-secret")

	png, err := gen.Generate("ticket-1", "order-1", "event-1", NewToken())
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	gen := NewGenerator("test-secret")
	token := NewToken()

	encoded, err := encryptAES([]byte(`{"ticket_id":"t1","order_id":"o1","event_id":"e1","token":"`+token+`"}`), gen.secret)
	require.NoError(t, err)

	ticketID, gotToken, err := gen.Decrypt(encoded)
	require.NoError(t, err)
	assert.Equal(t, "t1", ticketID)
	assert.Equal(t, token, gotToken)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	gen := NewGenerator("test-secret")
	token := NewToken()

	payload, err := gen.EncryptEnvelope("ticket-1", "order-1", "event-1", token)
	require.NoError(t, err)

	ticketID, gotToken, err := gen.Decrypt(payload)
	require.NoError(t, err)
	assert.Equal(t, "ticket-1", ticketID)
	assert.Equal(t, token, gotToken)
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	gen := NewGenerator("test-secret")
	other := NewGenerator("other-secret")

	encoded, err := encryptAES([]byte(`{"ticket_id":"t1"}`), gen.secret)
	require.NoError(t, err)

	_, _, err = other.Decrypt(encoded)
	assert.Error(t, err, "garbled plaintext should not parse as JSON")
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := NewToken()
		assert.False(t, seen[token])
		seen[token] = true
	}
}
