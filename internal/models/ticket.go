package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Ticket is one row per unit, created only once the charge is confirmed paid.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	TicketID             string    `bun:"ticket_id,pk" json:"ticket_id"`
	OrderID              string    `bun:"order_id,notnull" json:"order_id"`
	EventID              string    `bun:"event_id,notnull" json:"event_id"`
	UserID               string    `bun:"user_id,notnull" json:"user_id"`
	TicketTypeID         string    `bun:"ticket_type_id,notnull" json:"ticket_type_id"`
	TicketName           string    `bun:"ticket_name" json:"ticket_name"`
	Gender               string    `bun:"gender,nullzero" json:"gender,omitempty"`
	QRToken              string    `bun:"qr_token,unique,notnull" json:"qr_token"`
	QRCode               []byte    `bun:"qr_code" json:"qr_code,omitempty"`
	PriceAtPurchaseCents int64     `bun:"price_at_purchase_cents,notnull" json:"price_at_purchase_cents"`
	IssuedAt             time.Time `bun:"issued_at,notnull" json:"issued_at"`
	CheckedIn            bool      `bun:"checked_in" json:"checked_in"`
	CheckedInTime        time.Time `bun:"checked_in_time,nullzero" json:"checked_in_time,omitempty"`
}
