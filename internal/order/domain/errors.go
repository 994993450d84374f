package domain

// Two error kinds cross the service boundary: validation errors for malformed
// input (raised before any collaborator is consulted) and business-rule
// errors for consistency violations discovered while orchestrating
// collaborators. Expected negative outcomes (stale update, cancel on a
// terminal state) are booleans, not errors.

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// BusinessError reports a business-rule violation.
type BusinessError struct {
	Reason string
}

func NewBusinessError(reason string) *BusinessError {
	return &BusinessError{Reason: reason}
}

func (e *BusinessError) Error() string {
	return e.Reason
}

// Business-rule failures surfaced by order creation.
var (
	ErrDiscountTooLarge = NewBusinessError("Discount too large.")
	ErrOutOfStock       = NewBusinessError("Out of stock.")
	ErrPaymentFailed    = NewBusinessError("Payment failed.")
)
