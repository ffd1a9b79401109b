package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ServiceFeePayer string

const (
	FeePayerBuyer     ServiceFeePayer = "buyer"
	FeePayerOrganizer ServiceFeePayer = "organizer"
)

// FeePolicy decides who absorbs the convenience fee. The processor fee is
// always charged to the buyer regardless of policy.
type FeePolicy struct {
	ServiceFeePayer ServiceFeePayer `json:"service_fee_payer"`
}

// BuyerPaysConvenience defaults to true when the payer field is unset.
func (p FeePolicy) BuyerPaysConvenience() bool {
	return p.ServiceFeePayer != FeePayerOrganizer
}

// Event is read-only to the checkout engine; the catalog service owns it.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID              string          `bun:"id,pk" json:"id"`
	Title           string          `bun:"title,notnull" json:"title"`
	ServiceFeePayer ServiceFeePayer `bun:"service_fee_payer,nullzero" json:"service_fee_payer,omitempty"`
	StartDate       time.Time       `bun:"start_date,nullzero" json:"start_date,omitempty"`
	CreatedAt       time.Time       `bun:"created_at,notnull" json:"created_at"`
}

func (e *Event) FeePolicy() FeePolicy {
	return FeePolicy{ServiceFeePayer: e.ServiceFeePayer}
}
