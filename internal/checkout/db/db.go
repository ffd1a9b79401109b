package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ms-checkout/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

func (d *DB) CreateOrder(ctx context.Context, order models.Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(ctx)
	return err
}

func (d *DB) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DB) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("order_code = ?", code).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByGatewayChargeID maps a webhook's external charge id back to
// exactly one order.
func (d *DB) GetOrderByGatewayChargeID(ctx context.Context, chargeID string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("gateway_charge_id = ?", chargeID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderPayment moves the order's payment status and, when non-empty,
// stamps the gateway's external charge id. The metadata snapshot is never
// touched after creation.
func (d *DB) UpdateOrderPayment(ctx context.Context, orderID string, status models.PaymentStatus, gatewayChargeID string) error {
	q := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("payment_status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", orderID)
	if gatewayChargeID != "" {
		q = q.Set("gateway_charge_id = ?", gatewayChargeID)
	}
	_, err := q.Exec(ctx)
	return err
}

// ---------------- EVENTS ----------------

func (d *DB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ---------------- TRANSACTIONS ----------------

func (d *DB) CreateTransactions(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	_, err := d.Bun.NewInsert().Model(&transactions).Exec(ctx)
	return err
}

func (d *DB) SetTransactionsStatus(ctx context.Context, orderID string, status models.TransactionStatus) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Transaction)(nil)).
		Set("status = ?", status).
		Where("order_id = ?", orderID).
		Exec(ctx)
	return err
}

func (d *DB) GetTransactionsByOrder(ctx context.Context, orderID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := d.Bun.NewSelect().
		Model(&transactions).
		Where("order_id = ?", orderID).
		Order("created_at").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// ---------------- TICKETS ----------------

func (d *DB) CreateTickets(ctx context.Context, tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	_, err := d.Bun.NewInsert().Model(&tickets).Exec(ctx)
	return err
}

func (d *DB) GetTicketsByOrder(ctx context.Context, orderID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("order_id = ?", orderID).
		Order("issued_at").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (d *DB) GetTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// CountTicketsByOrder backs the issuance idempotency guard: tickets are only
// created when this returns zero.
func (d *DB) CountTicketsByOrder(ctx context.Context, orderID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("order_id = ?", orderID).
		Count(ctx)
}

func (d *DB) GetTicketByID(ctx context.Context, ticketID string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("ticket_id = ?", ticketID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (d *DB) MarkTicketCheckedIn(ctx context.Context, ticketID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("checked_in = ?", true).
		Set("checked_in_time = ?", time.Now()).
		Where("ticket_id = ?", ticketID).
		Exec(ctx)
	return err
}

// ---------------- COUPONS ----------------

// GetActiveCoupon returns (nil, nil) when no active coupon matches.
func (d *DB) GetActiveCoupon(ctx context.Context, code, eventID string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := d.Bun.NewSelect().
		Model(&coupon).
		Where("code = ?", code).
		Where("event_id = ?", eventID).
		Where("is_active = ?", true).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (d *DB) CountUsagesByUser(ctx context.Context, couponID, userID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.CouponUsage)(nil)).
		Where("coupon_id = ?", couponID).
		Where("user_id = ?", userID).
		Count(ctx)
}

func (d *DB) CreateCouponUsage(ctx context.Context, usage models.CouponUsage) error {
	if usage.ID == "" {
		usage.ID = uuid.NewString()
	}
	if usage.UsedAt.IsZero() {
		usage.UsedAt = time.Now()
	}
	_, err := d.Bun.NewInsert().Model(&usage).Exec(ctx)
	return err
}

// IncrementCouponUses bumps current_uses in SQL so concurrent buyers never
// lose an update to a read-modify-write race.
func (d *DB) IncrementCouponUses(ctx context.Context, couponID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Coupon)(nil)).
		Set("current_uses = current_uses + 1").
		Where("id = ?", couponID).
		Exec(ctx)
	return err
}

// ---------------- AFFILIATES ----------------

func (d *DB) GetAffiliateByCode(ctx context.Context, code string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := d.Bun.NewSelect().
		Model(&affiliate).
		Where("affiliate_code = ?", code).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

func (d *DB) GetCommissionSettings(ctx context.Context, eventID string) (*models.CommissionSettings, error) {
	var settings models.CommissionSettings
	err := d.Bun.NewSelect().
		Model(&settings).
		Where("event_id = ?", eventID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (d *DB) CreateAffiliateSale(ctx context.Context, sale models.AffiliateSale) error {
	_, err := d.Bun.NewInsert().Model(&sale).Exec(ctx)
	return err
}

// IncrementTotals bumps the affiliate running totals atomically in SQL.
func (d *DB) IncrementTotals(ctx context.Context, affiliateID string, saleCents, commissionCents int64) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Affiliate)(nil)).
		Set("total_sales_cents = total_sales_cents + ?", saleCents).
		Set("total_commission_cents = total_commission_cents + ?", commissionCents).
		Set("pending_commission_cents = pending_commission_cents + ?", commissionCents).
		Where("id = ?", affiliateID).
		Exec(ctx)
	return err
}

// ---------------- WEBHOOK EVENTS ----------------

// WebhookEventSeen reports whether a gateway event id was already processed.
func (d *DB) WebhookEventSeen(ctx context.Context, gatewayEventID string) (bool, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.WebhookEvent)(nil)).
		Where("gateway_event_id = ?", gatewayEventID).
		Where("processed = ?", true).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *DB) RecordWebhookEvent(ctx context.Context, gatewayEventID, eventType string) error {
	event := models.WebhookEvent{
		ID:             uuid.NewString(),
		GatewayEventID: gatewayEventID,
		EventType:      eventType,
		ReceivedAt:     time.Now(),
	}
	_, err := d.Bun.NewInsert().
		Model(&event).
		On("CONFLICT (gateway_event_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (d *DB) MarkWebhookEventProcessed(ctx context.Context, gatewayEventID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.WebhookEvent)(nil)).
		Set("processed = ?", true).
		Where("gateway_event_id = ?", gatewayEventID).
		Exec(ctx)
	return err
}
