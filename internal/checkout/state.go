package checkout

import "ms-checkout/internal/models"

// State is the checkout flow position surfaced to the UI. The select and
// form states are driven client-side; the orchestrator produces the
// processing outcome.
type State string

const (
	StateSelect     State = "select"
	StateForm       State = "form"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StatePending    State = "pending"
	StateFailed     State = "failed"
)

// stateForCard maps a settled card payment status to the terminal state.
func stateForCard(status models.PaymentStatus) State {
	switch status {
	case models.PaymentPaid:
		return StateSuccess
	case models.PaymentFailed:
		return StateFailed
	default:
		return StatePending
	}
}
