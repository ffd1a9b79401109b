package fees

import (
	"math"

	"ms-checkout/internal/config"
	"ms-checkout/internal/models"
)

// PolicyTable holds every tunable used by the fee derivation. Injecting it
// instead of reading package-level constants lets per-market overrides come
// from configuration.
type PolicyTable struct {
	ConvenienceRate           float64
	ConvenienceFlatCents      int64
	ConvenienceFlatBelowCents int64
	CardProcessorRate         float64
	PixProcessorRate          float64
}

// DefaultPolicyTable is the platform default: 10% convenience fee with a
// flat R$3.00 tier below R$30.00, 6% card processing, 2.5% PIX processing.
func DefaultPolicyTable() PolicyTable {
	return PolicyTable{
		ConvenienceRate:           0.10,
		ConvenienceFlatCents:      300,
		ConvenienceFlatBelowCents: 3000,
		CardProcessorRate:         0.06,
		PixProcessorRate:          0.025,
	}
}

// PolicyTableFromConfig builds the table from the fee section of the env
// config.
func PolicyTableFromConfig(c config.FeeConfig) PolicyTable {
	return PolicyTable{
		ConvenienceRate:           c.ConvenienceRate,
		ConvenienceFlatCents:      c.ConvenienceFlatCents,
		ConvenienceFlatBelowCents: c.ConvenienceFlatBelowCents,
		CardProcessorRate:         c.CardProcessorRate,
		PixProcessorRate:          c.PixProcessorRate,
	}
}

// Breakdown is the single authoritative fee derivation for a cart. It is
// snapshotted into the order metadata at creation time.
type Breakdown struct {
	SubtotalCents          int64
	DiscountCents          int64
	EffectiveSubtotalCents int64
	ConvenienceFeeCents    int64
	ProcessorFeeCents      int64
	TotalCents             int64
	BuyerPaysConvenience   bool
}

type Calculator struct {
	table PolicyTable
}

func NewCalculator(table PolicyTable) *Calculator {
	return &Calculator{table: table}
}

// Subtotal sums line unit price times quantity, all in integer cents.
func Subtotal(lines []models.CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}

// Calculate derives every fee from the discounted subtotal. The discount is
// clamped so the effective subtotal can never go negative; the processor fee
// is always charged to the buyer while the convenience fee follows the
// event's fee policy.
func (c *Calculator) Calculate(subtotalCents, couponDiscountCents int64, method models.PaymentMethod, policy models.FeePolicy) Breakdown {
	discount := couponDiscountCents
	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}
	effective := subtotalCents - discount

	var convenience int64
	if effective < c.table.ConvenienceFlatBelowCents {
		convenience = c.table.ConvenienceFlatCents
	} else {
		convenience = roundCents(float64(effective) * c.table.ConvenienceRate)
	}

	rate := c.table.PixProcessorRate
	if method == models.MethodCreditCard {
		rate = c.table.CardProcessorRate
	}
	processor := roundCents(float64(effective) * rate)

	buyerPays := policy.BuyerPaysConvenience()

	total := effective + processor
	if buyerPays {
		total += convenience
	}

	return Breakdown{
		SubtotalCents:          subtotalCents,
		DiscountCents:          discount,
		EffectiveSubtotalCents: effective,
		ConvenienceFeeCents:    convenience,
		ProcessorFeeCents:      processor,
		TotalCents:             total,
		BuyerPaysConvenience:   buyerPays,
	}
}

// Snapshot converts a breakdown into the order metadata form.
func (b Breakdown) Snapshot(method models.PaymentMethod) models.FeeSnapshot {
	return models.FeeSnapshot{
		SubtotalCents:          b.SubtotalCents,
		DiscountCents:          b.DiscountCents,
		EffectiveSubtotalCents: b.EffectiveSubtotalCents,
		ConvenienceFeeCents:    b.ConvenienceFeeCents,
		ProcessorFeeCents:      b.ProcessorFeeCents,
		TotalCents:             b.TotalCents,
		BuyerPaysConvenience:   b.BuyerPaysConvenience,
		PaymentMethod:          method,
	}
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
