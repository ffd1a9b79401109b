package pagbank

import "fmt"

type ErrorCategory string

const (
	CategoryTransport      ErrorCategory = "transport"
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryGateway        ErrorCategory = "gateway"
)

// GatewayError separates what the buyer may see from what goes to the logs.
// PublicError is safe to surface; InternalError and OriginalErr are not.
type GatewayError struct {
	Category      ErrorCategory
	StatusCode    int
	PublicError   string
	InternalError string
	OriginalErr   error
}

func (e *GatewayError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.InternalError, e.OriginalErr)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.InternalError)
}

func (e *GatewayError) Unwrap() error {
	return e.OriginalErr
}

func transportError(err error) *GatewayError {
	return &GatewayError{
		Category:      CategoryTransport,
		PublicError:   "Não foi possível contatar o processador de pagamento",
		InternalError: "charge request failed",
		OriginalErr:   err,
	}
}

func statusError(statusCode int, body string) *GatewayError {
	category := CategoryGateway
	if statusCode == 401 || statusCode == 403 {
		category = CategoryAuthentication
	}
	return &GatewayError{
		Category:      category,
		StatusCode:    statusCode,
		PublicError:   "O processador de pagamento recusou a solicitação",
		InternalError: fmt.Sprintf("gateway returned status %d: %s", statusCode, body),
	}
}
