package shared

// DomainError is an error with a stable machine-readable code. The
// HTTP layer maps codes to status codes; Message is safe to show to
// API clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a domain error with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across aggregates. Compare with errors.Is;
// wrapping with fmt.Errorf("...: %w", err) preserves the mapping.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Sentinel errors for order submission preconditions.
var (
	ErrDesignRequired    = NewDomainError("DESIGN_REQUIRED", "A design file is required")
	ErrPlacementRequired = NewDomainError("PLACEMENT_REQUIRED", "At least one design placement is required")
)
