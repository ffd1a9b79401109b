package affiliate

import (
	"context"
	"fmt"
	"time"

	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"

	"github.com/google/uuid"
)

// Store is the persistence surface for affiliate attribution. Lookups return
// (nil, nil) when nothing matches. IncrementTotals must be an atomic SQL
// increment so concurrent sales never lose updates.
type Store interface {
	GetAffiliateByCode(ctx context.Context, code string) (*models.Affiliate, error)
	GetCommissionSettings(ctx context.Context, eventID string) (*models.CommissionSettings, error)
	CreateAffiliateSale(ctx context.Context, sale models.AffiliateSale) error
	IncrementTotals(ctx context.Context, affiliateID string, saleCents, commissionCents int64) error
}

// SaleRefs ties a recorded sale back to the order that produced it. The
// transaction and ticket ids are for traceability only.
type SaleRefs struct {
	OrderID       string
	TransactionID string
	TicketID      string
}

type Attributor struct {
	store  Store
	logger *logger.Logger
}

func NewAttributor(store Store, log *logger.Logger) *Attributor {
	return &Attributor{store: store, logger: log}
}

// Resolve maps a referral code to an active affiliate. Codes that are
// pending, suspended or rejected resolve to nil so the referral is silently
// ignored rather than failing checkout.
func (a *Attributor) Resolve(ctx context.Context, code string) (*models.Affiliate, error) {
	if code == "" {
		return nil, nil
	}
	aff, err := a.store.GetAffiliateByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up affiliate code %q: %w", code, err)
	}
	if aff == nil || aff.Status != models.AffiliateActive {
		return nil, nil
	}
	return aff, nil
}

// defaultSettings is the platform fallback: 10% percentage, uncapped.
func defaultSettings(eventID string) *models.CommissionSettings {
	return &models.CommissionSettings{
		EventID:  eventID,
		Type:     models.CommissionPercentage,
		Value:    10,
		IsActive: true,
	}
}

// Commission computes the capped commission in cents for a sale amount.
func Commission(settings *models.CommissionSettings, saleAmountCents int64) int64 {
	var commission int64
	switch settings.Type {
	case models.CommissionFixed:
		commission = settings.Value
	default:
		commission = saleAmountCents * settings.Value / 100
	}
	if settings.MaxCommissionCents > 0 && commission > settings.MaxCommissionCents {
		commission = settings.MaxCommissionCents
	}
	return commission
}

// RecordSale writes one pending AffiliateSale and bumps the affiliate's
// running totals. It is best-effort: every failure is logged and swallowed,
// because attribution must never roll back or block a completed ticket sale.
// Returns whether the sale was recorded.
func (a *Attributor) RecordSale(ctx context.Context, aff *models.Affiliate, eventID string, saleAmountCents int64, refs SaleRefs) bool {
	settings, err := a.store.GetCommissionSettings(ctx, eventID)
	if err != nil {
		a.logger.Warn("AFFILIATE", fmt.Sprintf("Failed to load commission settings for event %s, using platform default: %v", eventID, err))
		settings = nil
	}
	if settings == nil || !settings.IsActive {
		settings = defaultSettings(eventID)
	}

	commission := Commission(settings, saleAmountCents)

	sale := models.AffiliateSale{
		ID:               uuid.NewString(),
		AffiliateID:      aff.ID,
		EventID:          eventID,
		OrderID:          refs.OrderID,
		TransactionID:    refs.TransactionID,
		TicketID:         refs.TicketID,
		SaleAmountCents:  saleAmountCents,
		CommissionCents:  commission,
		CommissionStatus: models.CommissionPending,
		CreatedAt:        time.Now(),
	}

	if err := a.store.CreateAffiliateSale(ctx, sale); err != nil {
		a.logger.Error("AFFILIATE", fmt.Sprintf("Failed to record sale for affiliate %s on order %s: %v", aff.ID, refs.OrderID, err))
		return false
	}

	if err := a.store.IncrementTotals(ctx, aff.ID, saleAmountCents, commission); err != nil {
		// The sale row exists; totals can be reconciled from it out-of-band.
		a.logger.Error("AFFILIATE", fmt.Sprintf("Failed to increment totals for affiliate %s: %v", aff.ID, err))
		return false
	}

	a.logger.Info("AFFILIATE", fmt.Sprintf("Recorded sale of %d cents for affiliate %s (commission %d cents)", saleAmountCents, aff.AffiliateCode, commission))
	return true
}
