package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-checkout/internal/auth"
	"ms-checkout/internal/checkout"
	"ms-checkout/internal/checkout/fees"
	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"
	"ms-checkout/internal/tickets"

	"github.com/go-chi/chi/v5"
)

// CheckoutService is the orchestrator surface the HTTP layer needs.
type CheckoutService interface {
	CreateOrder(ctx context.Context, req checkout.CheckoutRequest) (*checkout.CheckoutResult, error)
	Quote(ctx context.Context, eventID, userID string, lines []models.CartLine, method models.PaymentMethod, couponCode string) (*fees.Breakdown, *models.CouponValidationResult, error)
	ValidateCoupon(ctx context.Context, code, eventID, userID string, subtotalCents int64) (*models.CouponValidationResult, error)
	GetOrderByCode(ctx context.Context, code string) (*models.Order, error)
	GetOrderTickets(ctx context.Context, orderID string) ([]models.Ticket, error)
	HandleGatewayWebhook(ctx context.Context, n checkout.WebhookNotification) error
}

// TicketService is the ticket surface the HTTP layer needs.
type TicketService interface {
	CheckIn(ctx context.Context, eventID, qrPayload string) (*models.Ticket, error)
	TicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error)
}

type Handler struct {
	Checkout     CheckoutService
	Tickets      TicketService
	Logger       *logger.Logger
	WebhookToken string
}

func NewHandler(checkoutService CheckoutService, ticketService TicketService, webhookToken string) *Handler {
	return &Handler{
		Checkout:     checkoutService,
		Tickets:      ticketService,
		Logger:       logger.NewLogger(),
		WebhookToken: webhookToken,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to encode response: %v", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// CreateOrder handles POST /api/v1/checkout.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreateOrder: received request")

	var req checkout.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateOrder: failed to decode request body: %v", err))
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.UserID = auth.UserID(r.Context())
	if req.UserID == "" {
		h.writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	result, err := h.Checkout.CreateOrder(r.Context(), req)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr):
			h.Logger.Warn("API", fmt.Sprintf("CreateOrder: validation failed: %v", verr))
			h.writeError(w, http.StatusUnprocessableEntity, verr.Message)
		case errors.Is(err, checkout.ErrGatewayTransient):
			h.Logger.Error("API", fmt.Sprintf("CreateOrder: gateway unavailable: %v", err))
			h.writeError(w, http.StatusBadGateway, "Pagamento em processamento, verifique seus pedidos antes de tentar novamente")
		default:
			h.Logger.Error("API", fmt.Sprintf("CreateOrder: %v", err))
			h.writeError(w, http.StatusInternalServerError, "Could not create order")
		}
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateOrder: order %s created (state=%s)", result.Order.OrderCode, result.State))
	h.writeJSON(w, http.StatusCreated, result)
}

// Quote handles POST /api/v1/checkout/quote: live totals for the cart UI.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID       string               `json:"event_id"`
		Lines         []models.CartLine    `json:"lines"`
		PaymentMethod models.PaymentMethod `json:"payment_method"`
		CouponCode    string               `json:"coupon_code,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	breakdown, couponResult, err := h.Checkout.Quote(r.Context(), req.EventID, auth.UserID(r.Context()), req.Lines, req.PaymentMethod, req.CouponCode)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Quote: %v", err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"breakdown": breakdown,
		"coupon":    couponResult,
	})
}

// ValidateCoupon handles POST /api/v1/coupons/validate. Invalid coupons are
// a 200 with the rejection reason; the UI renders it inline.
func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID       string `json:"event_id"`
		CouponCode    string `json:"coupon_code"`
		SubtotalCents int64  `json:"subtotal_cents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.CouponCode == "" {
		h.writeError(w, http.StatusBadRequest, "coupon_code is required")
		return
	}

	result, err := h.Checkout.ValidateCoupon(r.Context(), req.CouponCode, req.EventID, auth.UserID(r.Context()), req.SubtotalCents)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ValidateCoupon: %v", err))
		h.writeError(w, http.StatusInternalServerError, "Could not validate coupon")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// GetOrder handles GET /api/v1/orders/{orderCode}. Buyers can only read
// their own orders.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderCode := chi.URLParam(r, "orderCode")
	h.Logger.Info("API", fmt.Sprintf("GetOrder: orderCode=%s", orderCode))

	order, err := h.Checkout.GetOrderByCode(r.Context(), orderCode)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: order not found: %v", err))
		h.writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != auth.UserID(r.Context()) {
		h.writeError(w, http.StatusForbidden, "Order belongs to another user")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// GetOrderTickets handles GET /api/v1/orders/{orderCode}/tickets.
func (h *Handler) GetOrderTickets(w http.ResponseWriter, r *http.Request) {
	orderCode := chi.URLParam(r, "orderCode")

	order, err := h.Checkout.GetOrderByCode(r.Context(), orderCode)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != auth.UserID(r.Context()) {
		h.writeError(w, http.StatusForbidden, "Order belongs to another user")
		return
	}

	orderTickets, err := h.Checkout.GetOrderTickets(r.Context(), order.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrderTickets: %v", err))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve tickets")
		return
	}

	h.writeJSON(w, http.StatusOK, orderTickets)
}

// GetMyTickets handles GET /api/v1/me/tickets.
func (h *Handler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		h.writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	userTickets, err := h.Tickets.TicketsByUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetMyTickets: %v", err))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve tickets")
		return
	}

	h.writeJSON(w, http.StatusOK, userTickets)
}

// CheckIn handles POST /api/v1/events/{eventId}/checkin for the door scanner.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req struct {
		QRPayload string `json:"qr_payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ticket, err := h.Tickets.CheckIn(r.Context(), eventID, req.QRPayload)
	if err != nil {
		switch {
		case errors.Is(err, tickets.ErrAlreadyCheckedIn):
			h.writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, tickets.ErrInvalidQRPayload),
			errors.Is(err, tickets.ErrTokenMismatch),
			errors.Is(err, tickets.ErrWrongEvent),
			errors.Is(err, tickets.ErrOrderNotPaid):
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, tickets.ErrTicketNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.Logger.Error("API", fmt.Sprintf("CheckIn: %v", err))
			h.writeError(w, http.StatusInternalServerError, "Check-in failed")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, ticket)
}

// pagbankNotification is the wire shape of the gateway's webhook delivery.
type pagbankNotification struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

// GatewayWebhook handles POST /webhooks/pagbank. It is authenticated by a
// shared token instead of the user JWT.
func (h *Handler) GatewayWebhook(w http.ResponseWriter, r *http.Request) {
	if h.WebhookToken != "" && r.Header.Get("X-Webhook-Token") != h.WebhookToken {
		h.Logger.Warn("WEBHOOK", "Rejected delivery with bad webhook token")
		h.writeError(w, http.StatusUnauthorized, "invalid webhook token")
		return
	}

	var n pagbankNotification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid webhook payload: "+err.Error())
		return
	}
	if n.Data.ID == "" {
		h.writeError(w, http.StatusBadRequest, "Webhook payload missing charge id")
		return
	}

	err := h.Checkout.HandleGatewayWebhook(r.Context(), checkout.WebhookNotification{
		EventID:  n.ID,
		Type:     n.Type,
		ChargeID: n.Data.ID,
		Status:   pagbankStatus(n.Data.Status),
	})
	if err != nil {
		// Non-2xx makes the gateway redeliver; the dedupe table absorbs it.
		h.Logger.Error("WEBHOOK", fmt.Sprintf("Failed to process delivery %s: %v", n.ID, err))
		h.writeError(w, http.StatusInternalServerError, "Failed to process webhook")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
