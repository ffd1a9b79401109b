package pagbank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChargeRequest() ChargeRequest {
	return ChargeRequest{
		ReferenceID: "ORD-123",
		Description: "Festival de Verão - Pista",
		AmountCents: 10250,
		Customer: Customer{
			Name:  "Maria Silva",
			Email: "maria@example.com",
			TaxID: "52998224725",
			Phone: Phone{Country: "55", Area: "11", Number: "999998888"},
		},
	}
}

func TestCreatePixCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/charges", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var payload pixChargePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "pix", payload.PaymentMethod)
		assert.Equal(t, int64(10250), payload.AmountCents)

		json.NewEncoder(w).Encode(PixCharge{
			ID:         "CHG-PIX-1",
			Status:     StatusWaiting,
			QRText:     "00020126580014br.gov.bcb.pix",
			QRImageURL: "https://gateway/qr/CHG-PIX-1.png",
			ExpiresAt:  time.Now().Add(30 * time.Minute),
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", 5*time.Second, logger.NewLogger())
	charge, err := client.CreatePixCharge(context.Background(), testChargeRequest())
	require.NoError(t, err)
	assert.Equal(t, "CHG-PIX-1", charge.ID)
	assert.Equal(t, StatusWaiting, charge.Status)
	assert.NotEmpty(t, charge.QRText)
}

func TestCreateCardChargeDeclinedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload cardChargePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "credit_card", payload.PaymentMethod)
		assert.Equal(t, "tok_encrypted", payload.EncryptedCard)

		json.NewEncoder(w).Encode(CardCharge{
			ID:            "CHG-CARD-1",
			Status:        StatusDeclined,
			DeclineReason: "insufficient_funds",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", 5*time.Second, logger.NewLogger())
	charge, err := client.CreateCardCharge(context.Background(), testChargeRequest(), "tok_encrypted")
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, charge.Status)
	assert.Equal(t, "insufficient_funds", charge.DeclineReason)
}

func TestGatewayErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-token", 5*time.Second, logger.NewLogger())
	_, err := client.CreatePixCharge(context.Background(), testChargeRequest())
	require.Error(t, err)

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CategoryAuthentication, gerr.Category)
	assert.Equal(t, http.StatusUnauthorized, gerr.StatusCode)
}

func TestGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", 50*time.Millisecond, logger.NewLogger())
	_, err := client.CreateCardCharge(context.Background(), testChargeRequest(), "tok_encrypted")
	require.Error(t, err)

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CategoryTransport, gerr.Category)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, models.PaymentPaid, MapStatus(StatusPaid))
	assert.Equal(t, models.PaymentFailed, MapStatus(StatusDeclined))
	assert.Equal(t, models.PaymentFailed, MapStatus(StatusCanceled))
	assert.Equal(t, models.PaymentPending, MapStatus(StatusInAnalysis))
	assert.Equal(t, models.PaymentPending, MapStatus(StatusWaiting))
}
