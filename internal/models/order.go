package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	MethodPix        PaymentMethod = "pix"
	MethodCreditCard PaymentMethod = "credit_card"
)

// CartLine is an immutable snapshot of one ticket selection taken at checkout
// entry. UnitPriceCents * Quantity is the line subtotal.
type CartLine struct {
	TicketTypeID   string `json:"ticket_type_id"`
	TicketName     string `json:"ticket_name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	Gender         string `json:"gender,omitempty"`
}

// FeeSnapshot is the authoritative audit trail of how an order total was
// derived. It is written once at order creation and never recomputed from
// live fee rules afterwards.
type FeeSnapshot struct {
	SubtotalCents          int64         `json:"subtotal_cents"`
	DiscountCents          int64         `json:"discount_cents"`
	EffectiveSubtotalCents int64         `json:"effective_subtotal_cents"`
	ConvenienceFeeCents    int64         `json:"convenience_fee_cents"`
	ProcessorFeeCents      int64         `json:"processor_fee_cents"`
	TotalCents             int64         `json:"total_cents"`
	BuyerPaysConvenience   bool          `json:"buyer_pays_convenience"`
	PaymentMethod          PaymentMethod `json:"payment_method"`
}

// OrderMetadata is stored as a JSON column on the order row.
type OrderMetadata struct {
	Fees         FeeSnapshot `json:"fees"`
	CouponID     string      `json:"coupon_id,omitempty"`
	CouponCode   string      `json:"coupon_code,omitempty"`
	ReferralCode string      `json:"referral_code,omitempty"`
	Items        []CartLine  `json:"items"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID               string        `bun:"id,pk" json:"id"`
	OrderCode        string        `bun:"order_code,unique,notnull" json:"order_code"`
	EventID          string        `bun:"event_id,notnull" json:"event_id"`
	UserID           string        `bun:"user_id,notnull" json:"user_id"`
	TotalAmountCents int64         `bun:"total_amount_cents,notnull" json:"total_amount_cents"`
	PaymentStatus    PaymentStatus `bun:"payment_status,notnull" json:"payment_status"`
	PaymentMethod    PaymentMethod `bun:"payment_method,notnull" json:"payment_method"`
	GatewayChargeID  string        `bun:"gateway_charge_id,nullzero" json:"gateway_charge_id,omitempty"`
	Metadata         OrderMetadata `bun:"metadata,type:jsonb" json:"metadata"`
	CreatedAt        time.Time     `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time     `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is one row per unit ticket, not per cart line. AmountCents is
// the per-unit item price before fees; the fee delta lives only in the
// order's FeeSnapshot. Exactly one transaction per order carries the
// gateway's external charge id.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions"`

	ID                   string            `bun:"id,pk" json:"id"`
	OrderID              string            `bun:"order_id,notnull" json:"order_id"`
	TicketTypeID         string            `bun:"ticket_type_id,notnull" json:"ticket_type_id"`
	Description          string            `bun:"description,nullzero" json:"description,omitempty"`
	AmountCents          int64             `bun:"amount_cents,notnull" json:"amount_cents"`
	Status               TransactionStatus `bun:"status,notnull" json:"status"`
	PaymentMethod        PaymentMethod     `bun:"payment_method,notnull" json:"payment_method"`
	PagbankTransactionID string            `bun:"pagbank_transaction_id,nullzero" json:"pagbank_transaction_id,omitempty"`
	CreatedAt            time.Time         `bun:"created_at,notnull" json:"created_at"`
}

// Buyer is the identity the payment gateway requires. All fields are
// mandatory; TaxID and Phone are format-validated before any charge attempt.
type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone"`
}

type PaymentEvent struct {
	Type        string        `json:"type"`
	OrderID     string        `json:"order_id"`
	OrderCode   string        `json:"order_code"`
	EventID     string        `json:"event_id"`
	UserID      string        `json:"user_id"`
	AmountCents int64         `json:"amount_cents"`
	Method      PaymentMethod `json:"method"`
	Timestamp   time.Time     `json:"timestamp"`
}

// WebhookEvent records every gateway notification we have seen, keyed by the
// gateway's event id, so duplicate deliveries become no-ops.
type WebhookEvent struct {
	bun.BaseModel `bun:"table:webhook_events"`

	ID             string    `bun:"id,pk" json:"id"`
	GatewayEventID string    `bun:"gateway_event_id,unique,notnull" json:"gateway_event_id"`
	EventType      string    `bun:"event_type,notnull" json:"event_type"`
	Processed      bool      `bun:"processed,notnull" json:"processed"`
	ReceivedAt     time.Time `bun:"received_at,notnull" json:"received_at"`
}
