package db

import (
	"context"
	"fmt"

	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"

	"github.com/uptrace/bun"
)

// Migrate creates every table the checkout engine owns. Events are included
// for local development; in production the catalog service owns that table.
func Migrate(ctx context.Context, db *bun.DB, log *logger.Logger) error {
	tables := []interface{}{
		(*models.Event)(nil),
		(*models.Order)(nil),
		(*models.Transaction)(nil),
		(*models.Ticket)(nil),
		(*models.Coupon)(nil),
		(*models.CouponUsage)(nil),
		(*models.Affiliate)(nil),
		(*models.CommissionSettings)(nil),
		(*models.AffiliateSale)(nil),
		(*models.WebhookEvent)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table failed: %w", err)
		}
	}

	log.Info("DATABASE", "✅ checkout tables ready")
	return nil
}
