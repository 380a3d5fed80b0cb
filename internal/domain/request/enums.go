package request

import "github.com/shopcraft/backend/internal/domain/shared"

// RequestType identifies the kind of custom design work being requested
type RequestType string

const (
	RequestTypeLogoDesign           RequestType = "logo-design"
	RequestTypeEmbroideryConversion RequestType = "embroidery-conversion"
)

// IsValid checks if the request type is valid
func (t RequestType) IsValid() bool {
	switch t {
	case RequestTypeLogoDesign, RequestTypeEmbroideryConversion:
		return true
	}
	return false
}

// String returns the string representation
func (t RequestType) String() string {
	return string(t)
}

// RequiresArtwork returns true if the request type needs an uploaded file.
// Embroidery conversion digitizes an existing design; logo design starts
// from a written brief and artwork is optional.
func (t RequestType) RequiresArtwork() bool {
	return t == RequestTypeEmbroideryConversion
}

// RequestStatus represents the workflow state of a custom request
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInProgress RequestStatus = "in-progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress,
		RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s RequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// CanTransitionTo checks if a transition to the target status is allowed.
// Work moves pending -> in-progress -> completed; cancellation is allowed
// from any non-terminal state. Terminal states allow nothing.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return target == RequestStatusInProgress || target == RequestStatusCancelled
	case RequestStatusInProgress:
		return target == RequestStatusCompleted || target == RequestStatusCancelled
	}
	return false
}

func validateRequestType(t RequestType) error {
	if !t.IsValid() {
		return shared.NewDomainError("INVALID_REQUEST_TYPE",
			"Invalid request type: "+t.String())
	}
	return nil
}
