package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AffiliateStatus string

const (
	AffiliatePending   AffiliateStatus = "pending"
	AffiliateActive    AffiliateStatus = "active"
	AffiliateSuspended AffiliateStatus = "suspended"
	AffiliateRejected  AffiliateStatus = "rejected"
)

// Affiliate running totals are monotonically non-decreasing except for
// admin-driven payout transitions, which happen outside this service.
type Affiliate struct {
	bun.BaseModel `bun:"table:affiliates"`

	ID                     string          `bun:"id,pk" json:"id"`
	AffiliateCode          string          `bun:"affiliate_code,unique,notnull" json:"affiliate_code"`
	Status                 AffiliateStatus `bun:"status,notnull" json:"status"`
	TotalSalesCents        int64           `bun:"total_sales_cents" json:"total_sales_cents"`
	TotalCommissionCents   int64           `bun:"total_commission_cents" json:"total_commission_cents"`
	PendingCommissionCents int64           `bun:"pending_commission_cents" json:"pending_commission_cents"`
	PaidCommissionCents    int64           `bun:"paid_commission_cents" json:"paid_commission_cents"`
	CreatedAt              time.Time       `bun:"created_at,notnull" json:"created_at"`
}

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
)

// CommissionSettings is the per-event commission policy. Value is percent
// points for percentage commissions and cents for fixed ones. Zero
// MaxCommissionCents means uncapped.
type CommissionSettings struct {
	bun.BaseModel `bun:"table:commission_settings"`

	EventID            string         `bun:"event_id,pk" json:"event_id"`
	Type               CommissionType `bun:"type,notnull" json:"type"`
	Value              int64          `bun:"value,notnull" json:"value"`
	MaxCommissionCents int64          `bun:"max_commission_cents,nullzero" json:"max_commission_cents,omitempty"`
	IsActive           bool           `bun:"is_active,notnull" json:"is_active"`
}

type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "pending"
	CommissionApproved CommissionStatus = "approved"
	CommissionRejected CommissionStatus = "rejected"
	CommissionPaid     CommissionStatus = "paid"
)

// AffiliateSale is created at most once per successful paid order carrying a
// referral code. The commission is computed at write time and never
// re-derived later.
type AffiliateSale struct {
	bun.BaseModel `bun:"table:affiliate_sales"`

	ID               string           `bun:"id,pk" json:"id"`
	AffiliateID      string           `bun:"affiliate_id,notnull" json:"affiliate_id"`
	EventID          string           `bun:"event_id,notnull" json:"event_id"`
	OrderID          string           `bun:"order_id,notnull" json:"order_id"`
	TransactionID    string           `bun:"transaction_id,nullzero" json:"transaction_id,omitempty"`
	TicketID         string           `bun:"ticket_id,nullzero" json:"ticket_id,omitempty"`
	SaleAmountCents  int64            `bun:"sale_amount_cents,notnull" json:"sale_amount_cents"`
	CommissionCents  int64            `bun:"commission_cents,notnull" json:"commission_cents"`
	CommissionStatus CommissionStatus `bun:"commission_status,notnull" json:"commission_status"`
	CreatedAt        time.Time        `bun:"created_at,notnull" json:"created_at"`
}
