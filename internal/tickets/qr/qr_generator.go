package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// Generator produces the per-ticket QR payload: a fresh unique token plus a
// PNG encoding an AES-encrypted envelope the door scanner decrypts.
type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

type envelope struct {
	TicketID string `json:"ticket_id"`
	OrderID  string `json:"order_id"`
	EventID  string `json:"event_id"`
	Token    string `json:"token"`
}

// NewToken returns a fresh unique check-in token.
func NewToken() string {
	return uuid.NewString()
}

// EncryptEnvelope produces the encrypted string a scanned QR image decodes
// to. Exposed separately from Generate so the check-in path can be exercised
// without rendering and re-reading a PNG.
func (g *Generator) EncryptEnvelope(ticketID, orderID, eventID, token string) (string, error) {
	data, err := json.Marshal(envelope{
		TicketID: ticketID,
		OrderID:  orderID,
		EventID:  eventID,
		Token:    token,
	})
	if err != nil {
		return "", err
	}
	return encryptAES(data, g.secret)
}

// Generate encrypts the ticket envelope and renders it as a QR PNG.
func (g *Generator) Generate(ticketID, orderID, eventID, token string) ([]byte, error) {
	encrypted, err := g.EncryptEnvelope(ticketID, orderID, eventID, token)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

// Decrypt reverses Generate's encryption for the check-in path.
func (g *Generator) Decrypt(encoded string) (ticketID, token string, err error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", err
	}
	if len(raw) < aes.BlockSize {
		return "", "", io.ErrUnexpectedEOF
	}

	block, err := aes.NewCipher(g.secret)
	if err != nil {
		return "", "", err
	}

	iv := raw[:aes.BlockSize]
	data := make([]byte, len(raw)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, raw[aes.BlockSize:])

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", "", err
	}
	return env.TicketID, env.Token, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}
