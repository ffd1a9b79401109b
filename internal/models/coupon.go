package models

import (
	"time"

	"github.com/uptrace/bun"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is immutable once created except for CurrentUses, which is bumped
// with an atomic SQL increment on every successful order that applied it.
// DiscountValue is percent points for percentage coupons and cents for fixed
// ones. Zero MaxUses or MaxUsesPerUser means unlimited.
type Coupon struct {
	bun.BaseModel `bun:"table:coupons"`

	ID                   string       `bun:"id,pk" json:"id"`
	EventID              string       `bun:"event_id,notnull" json:"event_id"`
	Code                 string       `bun:"code,notnull" json:"code"`
	DiscountType         DiscountType `bun:"discount_type,notnull" json:"discount_type"`
	DiscountValue        int64        `bun:"discount_value,notnull" json:"discount_value"`
	MinimumPurchaseCents int64        `bun:"minimum_purchase_cents,nullzero" json:"minimum_purchase_cents,omitempty"`
	ValidFrom            time.Time    `bun:"valid_from,nullzero" json:"valid_from,omitempty"`
	ValidUntil           time.Time    `bun:"valid_until,nullzero" json:"valid_until,omitempty"`
	MaxUses              int          `bun:"max_uses,nullzero" json:"max_uses,omitempty"`
	CurrentUses          int          `bun:"current_uses" json:"current_uses"`
	MaxUsesPerUser       int          `bun:"max_uses_per_user,nullzero" json:"max_uses_per_user,omitempty"`
	IsActive             bool         `bun:"is_active,notnull" json:"is_active"`
	CreatedAt            time.Time    `bun:"created_at,notnull" json:"created_at"`
}

// CouponUsage is append-only, one row per (coupon, user, order).
type CouponUsage struct {
	bun.BaseModel `bun:"table:coupon_usages"`

	ID       string    `bun:"id,pk" json:"id"`
	CouponID string    `bun:"coupon_id,notnull" json:"coupon_id"`
	UserID   string    `bun:"user_id,notnull" json:"user_id"`
	OrderID  string    `bun:"order_id,notnull" json:"order_id"`
	UsedAt   time.Time `bun:"used_at,notnull" json:"used_at"`
}

// CouponValidationResult carries either the computed discount or the first
// failing check's user-facing reason.
type CouponValidationResult struct {
	IsValid       bool    `json:"is_valid"`
	Coupon        *Coupon `json:"coupon,omitempty"`
	DiscountCents int64   `json:"discount_cents"`
	Reason        string  `json:"reason,omitempty"`
}
