package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-checkout/internal/checkout/affiliate"
	"ms-checkout/internal/checkout/fees"
	"ms-checkout/internal/gateway/pagbank"
	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"
	"ms-checkout/internal/tickets/qr"

	"github.com/google/uuid"
)

type DBLayer interface {
	CreateOrder(ctx context.Context, order models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetOrderByCode(ctx context.Context, code string) (*models.Order, error)
	GetOrderByGatewayChargeID(ctx context.Context, chargeID string) (*models.Order, error)
	UpdateOrderPayment(ctx context.Context, orderID string, status models.PaymentStatus, gatewayChargeID string) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateTransactions(ctx context.Context, transactions []models.Transaction) error
	SetTransactionsStatus(ctx context.Context, orderID string, status models.TransactionStatus) error
	GetTransactionsByOrder(ctx context.Context, orderID string) ([]models.Transaction, error)
	CreateTickets(ctx context.Context, tickets []models.Ticket) error
	GetTicketsByOrder(ctx context.Context, orderID string) ([]models.Ticket, error)
	CountTicketsByOrder(ctx context.Context, orderID string) (int, error)
	CreateCouponUsage(ctx context.Context, usage models.CouponUsage) error
	IncrementCouponUses(ctx context.Context, couponID string) error
	WebhookEventSeen(ctx context.Context, gatewayEventID string) (bool, error)
	RecordWebhookEvent(ctx context.Context, gatewayEventID, eventType string) error
	MarkWebhookEventProcessed(ctx context.Context, gatewayEventID string) error
}

type Gateway interface {
	CreatePixCharge(ctx context.Context, req pagbank.ChargeRequest) (*pagbank.PixCharge, error)
	CreateCardCharge(ctx context.Context, req pagbank.ChargeRequest, encryptedCard string) (*pagbank.CardCharge, error)
}

type CouponValidator interface {
	Validate(ctx context.Context, code, eventID, userID string, subtotalCents int64) (*models.CouponValidationResult, error)
}

type AffiliateAttributor interface {
	Resolve(ctx context.Context, code string) (*models.Affiliate, error)
	RecordSale(ctx context.Context, aff *models.Affiliate, eventID string, saleAmountCents int64, refs affiliate.SaleRefs) bool
}

type Publisher interface {
	PublishPaymentConfirmed(order models.Order) error
	PublishPaymentFailed(order models.Order) error
}

type IdempotencyGuard interface {
	Acquire(ctx context.Context, token, orderID string) (bool, error)
	ExistingOrder(ctx context.Context, token string) (string, error)
	Release(ctx context.Context, token, orderID string) error
}

type QRGenerator interface {
	Generate(ticketID, orderID, eventID, token string) ([]byte, error)
}

// Service is the order orchestrator: it derives totals server-side, creates
// the order with its fee snapshot, drives the gateway call and records the
// outcome. Ticket issuance is gated strictly behind confirmed-paid status
// and is callable from both the synchronous card path and the asynchronous
// PIX webhook path.
type Service struct {
	DB         DBLayer
	Gateway    Gateway
	Coupons    CouponValidator
	Affiliates AffiliateAttributor
	Kafka      Publisher
	Idem       IdempotencyGuard
	QR         QRGenerator
	Fees       *fees.Calculator
	logger     *logger.Logger
}

func NewService(db DBLayer, gw Gateway, coupons CouponValidator, affiliates AffiliateAttributor, kafka Publisher, idem IdempotencyGuard, qrGen QRGenerator, calc *fees.Calculator, log *logger.Logger) *Service {
	return &Service{
		DB:         db,
		Gateway:    gw,
		Coupons:    coupons,
		Affiliates: affiliates,
		Kafka:      kafka,
		Idem:       idem,
		QR:         qrGen,
		Fees:       calc,
		logger:     log,
	}
}

type CheckoutRequest struct {
	IdempotencyToken string               `json:"idempotency_token"`
	EventID          string               `json:"event_id"`
	UserID           string               `json:"-"`
	Buyer            models.Buyer         `json:"buyer"`
	PaymentMethod    models.PaymentMethod `json:"payment_method"`
	Lines            []models.CartLine    `json:"lines"`
	CouponCode       string               `json:"coupon_code,omitempty"`
	ReferralCode     string               `json:"referral_code,omitempty"`
	EncryptedCard    string               `json:"encrypted_card,omitempty"`
}

type CheckoutResult struct {
	State         State              `json:"state"`
	Order         *models.Order      `json:"order"`
	Pix           *pagbank.PixCharge `json:"pix,omitempty"`
	DeclineReason string             `json:"decline_reason,omitempty"`
	Tickets       []models.Ticket    `json:"tickets,omitempty"`
}

// Quote computes live totals for the cart UI without creating anything.
func (s *Service) Quote(ctx context.Context, eventID, userID string, lines []models.CartLine, method models.PaymentMethod, couponCode string) (*fees.Breakdown, *models.CouponValidationResult, error) {
	event, err := s.DB.GetEvent(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("event %s not found: %w", eventID, err)
	}

	subtotal := fees.Subtotal(lines)

	var couponResult *models.CouponValidationResult
	var discount int64
	if couponCode != "" {
		couponResult, err = s.Coupons.Validate(ctx, couponCode, eventID, userID, subtotal)
		if err != nil {
			return nil, nil, err
		}
		if couponResult.IsValid {
			discount = couponResult.DiscountCents
		}
	}

	breakdown := s.Fees.Calculate(subtotal, discount, method, event.FeePolicy())
	return &breakdown, couponResult, nil
}

// CreateOrder runs one checkout attempt end to end. Declared amounts are
// always derived here from the cart snapshot; client-submitted totals are
// never trusted.
func (s *Service) CreateOrder(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Double-submitted token short-circuits to the order it already created.
	if req.IdempotencyToken != "" {
		if existing, err := s.Idem.ExistingOrder(ctx, req.IdempotencyToken); err == nil && existing != "" {
			return s.resultForExistingOrder(ctx, existing)
		}
	}

	event, err := s.DB.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("event %s not found: %w", req.EventID, err)
	}

	subtotal := fees.Subtotal(req.Lines)

	// A dead referral code is silently ignored, never a checkout failure.
	var aff *models.Affiliate
	if req.ReferralCode != "" {
		aff, err = s.Affiliates.Resolve(ctx, req.ReferralCode)
		if err != nil {
			s.logger.Warn("CHECKOUT", fmt.Sprintf("Referral lookup failed for %q, ignoring: %v", req.ReferralCode, err))
			aff = nil
		}
	}

	var couponID string
	var discount int64
	if req.CouponCode != "" {
		result, err := s.Coupons.Validate(ctx, req.CouponCode, req.EventID, req.UserID, subtotal)
		if err != nil {
			return nil, err
		}
		if !result.IsValid {
			return nil, &ValidationError{Field: "coupon_code", Message: result.Reason}
		}
		couponID = result.Coupon.ID
		discount = result.DiscountCents
	}

	breakdown := s.Fees.Calculate(subtotal, discount, req.PaymentMethod, event.FeePolicy())

	now := time.Now()
	order := models.Order{
		ID:               uuid.NewString(),
		OrderCode:        newOrderCode(),
		EventID:          req.EventID,
		UserID:           req.UserID,
		TotalAmountCents: breakdown.TotalCents,
		PaymentStatus:    models.PaymentPending,
		PaymentMethod:    req.PaymentMethod,
		Metadata: models.OrderMetadata{
			Fees:         breakdown.Snapshot(req.PaymentMethod),
			CouponID:     couponID,
			CouponCode:   req.CouponCode,
			ReferralCode: req.ReferralCode,
			Items:        req.Lines,
		},
		CreatedAt: now,
	}

	if req.IdempotencyToken != "" {
		won, err := s.Idem.Acquire(ctx, req.IdempotencyToken, order.ID)
		if err != nil {
			s.logger.Warn("CHECKOUT", fmt.Sprintf("Idempotency guard unavailable, proceeding without it: %v", err))
		} else if !won {
			existing, err := s.Idem.ExistingOrder(ctx, req.IdempotencyToken)
			if err == nil && existing != "" {
				return s.resultForExistingOrder(ctx, existing)
			}
			return nil, &ValidationError{Message: "pedido já está sendo processado"}
		}
	}

	if err := s.DB.CreateOrder(ctx, order); err != nil {
		if req.IdempotencyToken != "" {
			_ = s.Idem.Release(ctx, req.IdempotencyToken, order.ID)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.LogCheckout("CREATED", order.OrderCode, fmt.Sprintf("total %d cents via %s", order.TotalAmountCents, order.PaymentMethod))

	chargeReq := pagbank.ChargeRequest{
		ReferenceID: order.OrderCode,
		Description: event.Title,
		AmountCents: order.TotalAmountCents,
		Customer: pagbank.Customer{
			Name:  req.Buyer.Name,
			Email: req.Buyer.Email,
			TaxID: pagbank.SanitizeDocument(req.Buyer.TaxID),
			Phone: pagbank.ParsePhone(req.Buyer.Phone),
		},
	}

	if req.PaymentMethod == models.MethodPix {
		return s.chargePix(ctx, &order, chargeReq)
	}
	return s.chargeCard(ctx, &order, aff, chargeReq, req.EncryptedCard)
}

// chargePix creates the asynchronous PIX charge. Success here means "QR
// issued", not "money received": the order stays pending and no tickets
// exist until the webhook confirms payment.
func (s *Service) chargePix(ctx context.Context, order *models.Order, chargeReq pagbank.ChargeRequest) (*CheckoutResult, error) {
	charge, err := s.Gateway.CreatePixCharge(ctx, chargeReq)
	if err != nil {
		s.logger.Error("CHECKOUT", fmt.Sprintf("PIX charge creation failed for order %s: %v", order.OrderCode, err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayTransient, err)
	}

	order.GatewayChargeID = charge.ID
	if err := s.DB.UpdateOrderPayment(ctx, order.ID, models.PaymentPending, charge.ID); err != nil {
		return nil, fmt.Errorf("failed to record gateway charge id: %w", err)
	}

	s.registerCouponUsage(ctx, order)
	s.recordTransactions(ctx, order, charge.ID, models.TransactionPending)

	return &CheckoutResult{State: StateSuccess, Order: order, Pix: charge}, nil
}

// chargeCard settles synchronously. Only a PAID result issues tickets and
// triggers affiliate attribution.
func (s *Service) chargeCard(ctx context.Context, order *models.Order, aff *models.Affiliate, chargeReq pagbank.ChargeRequest, encryptedCard string) (*CheckoutResult, error) {
	charge, err := s.Gateway.CreateCardCharge(ctx, chargeReq, encryptedCard)
	if err != nil {
		s.logger.Error("CHECKOUT", fmt.Sprintf("Card charge creation failed for order %s: %v", order.OrderCode, err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayTransient, err)
	}

	status := pagbank.MapStatus(charge.Status)
	order.GatewayChargeID = charge.ID
	order.PaymentStatus = status
	if err := s.DB.UpdateOrderPayment(ctx, order.ID, status, charge.ID); err != nil {
		return nil, fmt.Errorf("failed to record charge outcome: %w", err)
	}

	switch status {
	case models.PaymentPaid:
		s.registerCouponUsage(ctx, order)
		s.recordTransactions(ctx, order, charge.ID, models.TransactionCompleted)
		tickets, err := s.IssueTickets(ctx, order)
		if err != nil {
			// Money captured, goods not issued: reconciled out-of-band by
			// querying paid orders with zero tickets.
			s.logger.Error("CHECKOUT", fmt.Sprintf("CRITICAL: order %s paid but ticket issuance failed: %v", order.OrderCode, err))
			return nil, fmt.Errorf("payment captured but ticket issuance failed: %w", err)
		}
		s.attributeSale(ctx, order, aff, tickets)
		s.publishConfirmed(order)
		return &CheckoutResult{State: StateSuccess, Order: order, Tickets: tickets}, nil

	case models.PaymentFailed:
		s.recordTransactions(ctx, order, charge.ID, models.TransactionFailed)
		s.publishFailed(order)
		s.logger.LogCheckout("DECLINED", order.OrderCode, charge.DeclineReason)
		return &CheckoutResult{State: StateFailed, Order: order, DeclineReason: charge.DeclineReason}, nil

	default:
		// In fraud review: charge exists but issuance waits for the webhook.
		s.registerCouponUsage(ctx, order)
		s.recordTransactions(ctx, order, charge.ID, models.TransactionPending)
		return &CheckoutResult{State: stateForCard(status), Order: order}, nil
	}
}

// IssueTickets creates one ticket per unit with a fresh QR token. It is
// idempotent: when tickets already exist for the order it returns them
// unchanged, so the card path and the webhook path can both call it.
func (s *Service) IssueTickets(ctx context.Context, order *models.Order) ([]models.Ticket, error) {
	count, err := s.DB.CountTicketsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing tickets: %w", err)
	}
	if count > 0 {
		s.logger.LogCheckout("ISSUE_SKIPPED", order.OrderCode, fmt.Sprintf("%d tickets already issued", count))
		return s.DB.GetTicketsByOrder(ctx, order.ID)
	}

	var tickets []models.Ticket
	now := time.Now()
	for _, line := range order.Metadata.Items {
		for i := 0; i < line.Quantity; i++ {
			ticketID := uuid.NewString()
			token := qr.NewToken()
			png, err := s.QR.Generate(ticketID, order.ID, order.EventID, token)
			if err != nil {
				return nil, fmt.Errorf("failed to generate QR for ticket: %w", err)
			}
			tickets = append(tickets, models.Ticket{
				TicketID:             ticketID,
				OrderID:              order.ID,
				EventID:              order.EventID,
				UserID:               order.UserID,
				TicketTypeID:         line.TicketTypeID,
				TicketName:           line.TicketName,
				Gender:               line.Gender,
				QRToken:              token,
				QRCode:               png,
				PriceAtPurchaseCents: line.UnitPriceCents,
				IssuedAt:             now,
			})
		}
	}

	if err := s.DB.CreateTickets(ctx, tickets); err != nil {
		return nil, fmt.Errorf("failed to insert tickets: %w", err)
	}

	s.logger.LogCheckout("ISSUED", order.OrderCode, fmt.Sprintf("%d tickets", len(tickets)))
	return tickets, nil
}

// WebhookNotification is the asynchronous status change delivered by the
// gateway, keyed by its external charge id.
type WebhookNotification struct {
	EventID  string               `json:"event_id"`
	Type     string               `json:"type"`
	ChargeID string               `json:"charge_id"`
	Status   pagbank.ChargeStatus `json:"status"`
}

// HandleGatewayWebhook maps the notification back to exactly one order and
// applies the status change. Duplicate deliveries and already-paid orders
// are no-ops.
func (s *Service) HandleGatewayWebhook(ctx context.Context, n WebhookNotification) error {
	if n.EventID != "" {
		seen, err := s.DB.WebhookEventSeen(ctx, n.EventID)
		if err != nil {
			return fmt.Errorf("failed to check webhook event %s: %w", n.EventID, err)
		}
		if seen {
			s.logger.Info("WEBHOOK", fmt.Sprintf("Duplicate delivery of event %s, ignoring", n.EventID))
			return nil
		}
		if err := s.DB.RecordWebhookEvent(ctx, n.EventID, n.Type); err != nil {
			s.logger.Warn("WEBHOOK", fmt.Sprintf("Failed to record webhook event %s: %v", n.EventID, err))
		}
	}

	order, err := s.DB.GetOrderByGatewayChargeID(ctx, n.ChargeID)
	if err != nil {
		return fmt.Errorf("no order for gateway charge %s: %w", n.ChargeID, err)
	}

	switch pagbank.MapStatus(n.Status) {
	case models.PaymentPaid:
		// Redundant PAID notifications for an already-paid order (a card
		// charge settled synchronously, or a PIX redelivery with a fresh
		// event id) must not fire the side channels a second time. Issuance
		// still runs as a backstop; it is idempotent.
		alreadyPaid := order.PaymentStatus == models.PaymentPaid
		if !alreadyPaid {
			if err := s.DB.UpdateOrderPayment(ctx, order.ID, models.PaymentPaid, ""); err != nil {
				return fmt.Errorf("failed to mark order %s paid: %w", order.OrderCode, err)
			}
			order.PaymentStatus = models.PaymentPaid
			if err := s.DB.SetTransactionsStatus(ctx, order.ID, models.TransactionCompleted); err != nil {
				s.logger.Error("WEBHOOK", fmt.Sprintf("Failed to complete transactions for order %s: %v", order.OrderCode, err))
			}
		}
		tickets, err := s.IssueTickets(ctx, order)
		if err != nil {
			s.logger.Error("WEBHOOK", fmt.Sprintf("CRITICAL: order %s paid but ticket issuance failed: %v", order.OrderCode, err))
			return err
		}
		if alreadyPaid {
			s.logger.Info("WEBHOOK", fmt.Sprintf("Order %s already paid, skipping side channels", order.OrderCode))
			break
		}
		var aff *models.Affiliate
		if order.Metadata.ReferralCode != "" {
			aff, err = s.Affiliates.Resolve(ctx, order.Metadata.ReferralCode)
			if err != nil {
				s.logger.Warn("WEBHOOK", fmt.Sprintf("Referral lookup failed for %q, ignoring: %v", order.Metadata.ReferralCode, err))
				aff = nil
			}
		}
		s.attributeSale(ctx, order, aff, tickets)
		s.publishConfirmed(order)

	case models.PaymentFailed:
		if err := s.DB.UpdateOrderPayment(ctx, order.ID, models.PaymentFailed, ""); err != nil {
			return fmt.Errorf("failed to mark order %s failed: %w", order.OrderCode, err)
		}
		if err := s.DB.SetTransactionsStatus(ctx, order.ID, models.TransactionFailed); err != nil {
			s.logger.Error("WEBHOOK", fmt.Sprintf("Failed to fail transactions for order %s: %v", order.OrderCode, err))
		}
		order.PaymentStatus = models.PaymentFailed
		s.publishFailed(order)

	default:
		s.logger.Info("WEBHOOK", fmt.Sprintf("Order %s still pending (%s)", order.OrderCode, n.Status))
	}

	if n.EventID != "" {
		if err := s.DB.MarkWebhookEventProcessed(ctx, n.EventID); err != nil {
			s.logger.Warn("WEBHOOK", fmt.Sprintf("Failed to mark webhook event %s processed: %v", n.EventID, err))
		}
	}
	return nil
}

// ValidateCoupon backs the live coupon check in the cart UI. It never
// mutates anything; usage is only registered when a charge exists.
func (s *Service) ValidateCoupon(ctx context.Context, code, eventID, userID string, subtotalCents int64) (*models.CouponValidationResult, error) {
	return s.Coupons.Validate(ctx, code, eventID, userID, subtotalCents)
}

func (s *Service) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	return s.DB.GetOrderByCode(ctx, code)
}

func (s *Service) GetOrderTickets(ctx context.Context, orderID string) ([]models.Ticket, error) {
	return s.DB.GetTicketsByOrder(ctx, orderID)
}

// ---------------- internals ----------------

// recordTransactions fans each cart line out into one row per unit. Only
// the first unit across all lines carries the gateway's external id, so the
// external-id mapping stays 1:1 per order.
func (s *Service) recordTransactions(ctx context.Context, order *models.Order, chargeID string, status models.TransactionStatus) {
	var transactions []models.Transaction
	now := time.Now()
	first := true
	for _, line := range order.Metadata.Items {
		for i := 0; i < line.Quantity; i++ {
			tx := models.Transaction{
				ID:            uuid.NewString(),
				OrderID:       order.ID,
				TicketTypeID:  line.TicketTypeID,
				Description:   fmt.Sprintf("%s x1", line.TicketName),
				AmountCents:   line.UnitPriceCents,
				Status:        status,
				PaymentMethod: order.PaymentMethod,
				CreatedAt:     now,
			}
			if first {
				tx.PagbankTransactionID = chargeID
				first = false
			}
			transactions = append(transactions, tx)
		}
	}

	if err := s.DB.CreateTransactions(ctx, transactions); err != nil {
		s.logger.Error("CHECKOUT", fmt.Sprintf("Failed to record transactions for order %s: %v", order.OrderCode, err))
	}
}

// registerCouponUsage is fire-and-forget relative to the charge: a failure
// here is logged and never undoes the payment.
func (s *Service) registerCouponUsage(ctx context.Context, order *models.Order) {
	if order.Metadata.CouponID == "" {
		return
	}
	usage := models.CouponUsage{
		ID:       uuid.NewString(),
		CouponID: order.Metadata.CouponID,
		UserID:   order.UserID,
		OrderID:  order.ID,
		UsedAt:   time.Now(),
	}
	if err := s.DB.CreateCouponUsage(ctx, usage); err != nil {
		s.logger.Error("CHECKOUT", fmt.Sprintf("Failed to register coupon usage for order %s: %v", order.OrderCode, err))
		return
	}
	if err := s.DB.IncrementCouponUses(ctx, order.Metadata.CouponID); err != nil {
		s.logger.Error("CHECKOUT", fmt.Sprintf("Failed to increment coupon uses for order %s: %v", order.OrderCode, err))
	}
}

// attributeSale records the affiliate commission once for the whole order.
// The first ticket and transaction ids are attached for traceability only.
func (s *Service) attributeSale(ctx context.Context, order *models.Order, aff *models.Affiliate, tickets []models.Ticket) {
	if aff == nil {
		return
	}
	refs := affiliate.SaleRefs{OrderID: order.ID}
	if len(tickets) > 0 {
		refs.TicketID = tickets[0].TicketID
	}
	if transactions, err := s.DB.GetTransactionsByOrder(ctx, order.ID); err == nil && len(transactions) > 0 {
		refs.TransactionID = transactions[0].ID
	}
	s.Affiliates.RecordSale(ctx, aff, order.EventID, order.TotalAmountCents, refs)
}

func (s *Service) publishConfirmed(order *models.Order) {
	if s.Kafka == nil {
		return
	}
	if err := s.Kafka.PublishPaymentConfirmed(*order); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Failed to publish payment confirmed for order %s: %v", order.OrderCode, err))
	}
}

func (s *Service) publishFailed(order *models.Order) {
	if s.Kafka == nil {
		return
	}
	if err := s.Kafka.PublishPaymentFailed(*order); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Failed to publish payment failed for order %s: %v", order.OrderCode, err))
	}
}

func (s *Service) resultForExistingOrder(ctx context.Context, orderID string) (*CheckoutResult, error) {
	order, err := s.DB.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("duplicate submission but order %s not found: %w", orderID, err)
	}
	result := &CheckoutResult{Order: order}
	switch order.PaymentStatus {
	case models.PaymentPaid:
		result.State = StateSuccess
		result.Tickets, _ = s.DB.GetTicketsByOrder(ctx, order.ID)
	case models.PaymentFailed:
		result.State = StateFailed
	default:
		result.State = StatePending
	}
	s.logger.LogCheckout("DUPLICATE", order.OrderCode, "idempotency token already bound, returning existing order")
	return result, nil
}

func validateRequest(req CheckoutRequest) error {
	if len(req.Lines) == 0 {
		return &ValidationError{Field: "lines", Message: "carrinho vazio"}
	}
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return &ValidationError{Field: "lines", Message: "quantidade deve ser maior que zero"}
		}
		if line.UnitPriceCents < 0 {
			return &ValidationError{Field: "lines", Message: "preço unitário inválido"}
		}
	}
	if req.PaymentMethod != models.MethodPix && req.PaymentMethod != models.MethodCreditCard {
		return &ValidationError{Field: "payment_method", Message: "método de pagamento inválido"}
	}
	if req.PaymentMethod == models.MethodCreditCard && req.EncryptedCard == "" {
		return &ValidationError{Field: "encrypted_card", Message: "cartão é obrigatório"}
	}
	if req.CouponCode != "" && req.ReferralCode != "" {
		return &ValidationError{Field: "coupon_code", Message: "cupom não pode ser combinado com código de indicação"}
	}
	if strings.TrimSpace(req.Buyer.Name) == "" || strings.TrimSpace(req.Buyer.Email) == "" {
		return &ValidationError{Field: "buyer", Message: "nome e e-mail são obrigatórios"}
	}
	if err := pagbank.ValidateCPF(req.Buyer.TaxID); err != nil {
		return &ValidationError{Field: "tax_id", Message: err.Error()}
	}
	if err := pagbank.ValidatePhone(req.Buyer.Phone); err != nil {
		return &ValidationError{Field: "phone", Message: err.Error()}
	}
	return nil
}

func newOrderCode() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
