package pagbank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"
)

// ChargeStatus is the gateway's own vocabulary. PIX charges are always
// created WAITING; card charges settle synchronously.
type ChargeStatus string

const (
	StatusPaid       ChargeStatus = "PAID"
	StatusDeclined   ChargeStatus = "DECLINED"
	StatusCanceled   ChargeStatus = "CANCELED"
	StatusInAnalysis ChargeStatus = "IN_ANALYSIS"
	StatusWaiting    ChargeStatus = "WAITING"
)

// MapStatus translates a gateway charge status into the order payment status.
func MapStatus(s ChargeStatus) models.PaymentStatus {
	switch s {
	case StatusPaid:
		return models.PaymentPaid
	case StatusDeclined, StatusCanceled:
		return models.PaymentFailed
	default:
		return models.PaymentPending
	}
}

type Phone struct {
	Country string `json:"country"`
	Area    string `json:"area"`
	Number  string `json:"number"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	TaxID string `json:"tax_id"`
	Phone Phone  `json:"phone"`
}

// ChargeRequest carries everything the gateway needs to create a charge.
// The amount is the server-derived order total in cents; client-submitted
// totals never reach this struct.
type ChargeRequest struct {
	ReferenceID string   `json:"reference_id"`
	Description string   `json:"description"`
	AmountCents int64    `json:"amount_cents"`
	Customer    Customer `json:"customer"`
}

type PixCharge struct {
	ID         string       `json:"id"`
	Status     ChargeStatus `json:"status"`
	QRText     string       `json:"qr_text"`
	QRImageURL string       `json:"qr_image_url"`
	ExpiresAt  time.Time    `json:"expires_at"`
}

type CardCharge struct {
	ID            string       `json:"id"`
	Status        ChargeStatus `json:"status"`
	DeclineReason string       `json:"decline_reason,omitempty"`
}

// Client talks to the PagBank charges API over HTTP. The http.Client carries
// an explicit timeout; a timed-out charge creation surfaces as a transport
// error and the caller must leave the order pending.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *logger.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

type pixChargePayload struct {
	ChargeRequest
	PaymentMethod    string `json:"payment_method"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

type cardChargePayload struct {
	ChargeRequest
	PaymentMethod string `json:"payment_method"`
	// EncryptedCard is the token produced by the client-side SDK. Raw card
	// data never reaches this service.
	EncryptedCard string `json:"encrypted_card"`
}

// CreatePixCharge creates an asynchronous PIX charge and returns the QR
// payload the buyer scans. The charge always comes back WAITING; finality
// arrives later via webhook.
func (c *Client) CreatePixCharge(ctx context.Context, req ChargeRequest) (*PixCharge, error) {
	payload := pixChargePayload{
		ChargeRequest:    req,
		PaymentMethod:    "pix",
		ExpiresInSeconds: 1800,
	}

	var charge PixCharge
	if err := c.post(ctx, "/charges", payload, &charge); err != nil {
		return nil, err
	}

	c.logger.LogGateway("PIX_CREATED", charge.ID, fmt.Sprintf("order %s: %d cents, status %s", req.ReferenceID, req.AmountCents, charge.Status))
	return &charge, nil
}

// CreateCardCharge creates a synchronous card charge from an encrypted card
// token and returns the settled status. A DECLINED result is a valid
// response, not an error.
func (c *Client) CreateCardCharge(ctx context.Context, req ChargeRequest, encryptedCard string) (*CardCharge, error) {
	payload := cardChargePayload{
		ChargeRequest: req,
		PaymentMethod: "credit_card",
		EncryptedCard: encryptedCard,
	}

	var charge CardCharge
	if err := c.post(ctx, "/charges", payload, &charge); err != nil {
		return nil, err
	}

	c.logger.LogGateway("CARD_CHARGED", charge.ID, fmt.Sprintf("order %s: %d cents, status %s", req.ReferenceID, req.AmountCents, charge.Status))
	return &charge, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode charge payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		gerr := transportError(err)
		c.logger.Error("GATEWAY", gerr.Error())
		return gerr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		gerr := statusError(resp.StatusCode, string(snippet))
		c.logger.Error("GATEWAY", gerr.Error())
		return gerr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
