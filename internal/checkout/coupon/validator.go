package coupon

import (
	"context"
	"fmt"
	"time"

	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"
)

// Store is the persistence surface the validator needs. GetActiveCoupon
// returns (nil, nil) when no active coupon matches the code for the event.
type Store interface {
	GetActiveCoupon(ctx context.Context, code, eventID string) (*models.Coupon, error)
	CountUsagesByUser(ctx context.Context, couponID, userID string) (int, error)
}

// User-facing rejection reasons, surfaced verbatim by the checkout UI.
const (
	ReasonNotFound     = "Cupom inválido ou não encontrado"
	ReasonNotYetValid  = "Cupom ainda não está válido"
	ReasonExpired      = "Cupom expirado"
	ReasonExhausted    = "Cupom esgotado"
	ReasonPerUserCap   = "Você já atingiu o limite de uso deste cupom"
	ReasonBelowMinimum = "Valor mínimo de compra não atingido"
)

type Validator struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

func NewValidator(store Store, log *logger.Logger) *Validator {
	return &Validator{store: store, logger: log, now: time.Now}
}

// Validate runs the rejection checks in order, short-circuiting on the first
// failure, and computes the clamped discount on success. The checks are
// ordered so the most specific reason wins: existence, validity window,
// global cap, per-user cap, minimum purchase.
func (v *Validator) Validate(ctx context.Context, code, eventID, userID string, subtotalCents int64) (*models.CouponValidationResult, error) {
	c, err := v.store.GetActiveCoupon(ctx, code, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon %q: %w", code, err)
	}
	if c == nil {
		return rejected(ReasonNotFound), nil
	}

	now := v.now()
	if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
		return rejected(ReasonNotYetValid), nil
	}
	if !c.ValidUntil.IsZero() && now.After(c.ValidUntil) {
		return rejected(ReasonExpired), nil
	}
	if c.MaxUses > 0 && c.CurrentUses >= c.MaxUses {
		return rejected(ReasonExhausted), nil
	}

	// Zero means unlimited, same convention as MaxUses above.
	if c.MaxUsesPerUser > 0 {
		used, err := v.store.CountUsagesByUser(ctx, c.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count coupon usages for user %s: %w", userID, err)
		}
		if used >= c.MaxUsesPerUser {
			return rejected(ReasonPerUserCap), nil
		}
	}

	if c.MinimumPurchaseCents > 0 && subtotalCents < c.MinimumPurchaseCents {
		return rejected(ReasonBelowMinimum), nil
	}

	discount := Discount(c, subtotalCents)
	v.logger.Info("COUPON", fmt.Sprintf("Coupon %s valid: discount %d cents on subtotal %d", c.Code, discount, subtotalCents))

	return &models.CouponValidationResult{
		IsValid:       true,
		Coupon:        c,
		DiscountCents: discount,
	}, nil
}

// Discount computes the coupon's discount in cents, clamped to the subtotal
// so the effective total can never go negative.
func Discount(c *models.Coupon, subtotalCents int64) int64 {
	var discount int64
	switch c.DiscountType {
	case models.DiscountPercentage:
		discount = subtotalCents * c.DiscountValue / 100
	default:
		discount = c.DiscountValue
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	return discount
}

func rejected(reason string) *models.CouponValidationResult {
	return &models.CouponValidationResult{IsValid: false, Reason: reason}
}
