package request

import (
	"strings"
	"time"

	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	MinDescriptionLength = 20
	MaxDescriptionLength = 2000

	// MaxArtworkFileSize is the upload cap for reference artwork (10MB)
	MaxArtworkFileSize = 10 * 1024 * 1024
)

// CustomRequest represents a customer request for bespoke design work:
// a logo designed from a brief, or an existing design digitized for
// embroidery. Requests are worked by staff through a small status
// workflow and deliver a result file when completed.
type CustomRequest struct {
	shared.OwnedAggregateRoot
	RequestNumber string      `gorm:"type:varchar(32);not null;uniqueIndex"`
	RequestType   RequestType `gorm:"type:varchar(30);not null;index"`
	Subject       string      `gorm:"type:varchar(200);not null"`
	Description   string      `gorm:"type:text;not null"`

	// Reference artwork uploaded by the customer (required for
	// embroidery conversion, optional for logo design)
	ArtworkFileName    string `gorm:"type:varchar(255)"`
	ArtworkContentType string `gorm:"type:varchar(100)"`
	ArtworkFileSize    int64  `gorm:"default:0"`
	ArtworkStorageKey  string `gorm:"type:varchar(500)"`

	Status       RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	AdminNotes   string        `gorm:"type:text"`
	ResultKey    string        `gorm:"type:varchar(500)"`
	CancelReason string        `gorm:"type:varchar(500)"`
	CompletedAt  *time.Time
}

// TableName returns the database table name
func (CustomRequest) TableName() string {
	return "custom_requests"
}

// NewCustomRequest creates a new custom design request
func NewCustomRequest(
	userID uuid.UUID,
	requestNumber string,
	requestType RequestType,
	subject, description string,
) (*CustomRequest, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if requestNumber == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if err := validateRequestType(requestType); err != nil {
		return nil, err
	}
	if err := validateSubject(subject); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	req := &CustomRequest{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		RequestNumber:      requestNumber,
		RequestType:        requestType,
		Subject:            strings.TrimSpace(subject),
		Description:        strings.TrimSpace(description),
		Status:             RequestStatusPending,
	}

	req.AddDomainEvent(NewCustomRequestCreatedEvent(req))

	return req, nil
}

// AttachArtwork records the customer's uploaded reference file
func (r *CustomRequest) AttachArtwork(fileName, contentType string, fileSize int64, storageKey string) error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			"Artwork can only be attached while the request is pending")
	}
	if fileName == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be positive")
	}
	if fileSize > MaxArtworkFileSize {
		return shared.NewDomainError("FILE_TOO_LARGE", "Artwork file cannot exceed 10MB")
	}
	if storageKey == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}

	r.ArtworkFileName = fileName
	r.ArtworkContentType = contentType
	r.ArtworkFileSize = fileSize
	r.ArtworkStorageKey = storageKey
	r.UpdatedAt = time.Now()

	return nil
}

// HasArtwork returns true if reference artwork is attached
func (r *CustomRequest) HasArtwork() bool {
	return r.ArtworkStorageKey != ""
}

// UpdateBrief updates the subject and description of a pending request
func (r *CustomRequest) UpdateBrief(subject, description string) error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			"Only pending requests can be edited")
	}
	if err := validateSubject(subject); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}

	r.Subject = strings.TrimSpace(subject)
	r.Description = strings.TrimSpace(description)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Start moves the request into in-progress
func (r *CustomRequest) Start() error {
	if !r.Status.CanTransitionTo(RequestStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot start work from status: "+r.Status.String())
	}
	if r.RequestType.RequiresArtwork() && !r.HasArtwork() {
		return shared.NewDomainError("ARTWORK_REQUIRED",
			"Embroidery conversion requires uploaded artwork")
	}

	r.changeStatus(RequestStatusInProgress)

	return nil
}

// Complete marks the request as done and records the delivered file
func (r *CustomRequest) Complete(resultKey string) error {
	if !r.Status.CanTransitionTo(RequestStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete from status: "+r.Status.String())
	}
	if resultKey == "" {
		return shared.NewDomainError("INVALID_RESULT", "Result file key cannot be empty")
	}

	r.ResultKey = resultKey
	now := time.Now()
	r.CompletedAt = &now
	r.changeStatus(RequestStatusCompleted)

	return nil
}

// Cancel cancels the request with a reason
func (r *CustomRequest) Cancel(reason string) error {
	if !r.Status.CanTransitionTo(RequestStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot cancel from status: "+r.Status.String())
	}

	r.CancelReason = reason
	r.changeStatus(RequestStatusCancelled)

	return nil
}

// SetAdminNotes records staff notes on the request
func (r *CustomRequest) SetAdminNotes(notes string) {
	r.AdminNotes = notes
	r.UpdatedAt = time.Now()
}

// IsTerminal returns true if no further transitions are allowed
func (r *CustomRequest) IsTerminal() bool {
	return r.Status.IsTerminal()
}

func (r *CustomRequest) changeStatus(target RequestStatus) {
	oldStatus := r.Status
	r.Status = target
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewCustomRequestStatusChangedEvent(r, oldStatus))
}

func validateSubject(subject string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return shared.NewDomainError("INVALID_SUBJECT", "Subject cannot be empty")
	}
	if len(subject) > 200 {
		return shared.NewDomainError("INVALID_SUBJECT", "Subject cannot exceed 200 characters")
	}
	return nil
}

func validateDescription(description string) error {
	description = strings.TrimSpace(description)
	if len(description) < MinDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION",
			"Description must be at least 20 characters")
	}
	if len(description) > MaxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION",
			"Description cannot exceed 2000 characters")
	}
	return nil
}
