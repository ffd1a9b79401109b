package checkout

import (
	"errors"
	"fmt"
)

// ErrGatewayTransient marks a charge attempt whose outcome is unknown
// (timeout, network failure). The order stays pending and the buyer is told
// to check order history instead of resubmitting.
var ErrGatewayTransient = errors.New("gateway charge creation did not complete")

// ValidationError is surfaced before any order row or gateway call exists.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
