package review

import (
	"strings"
	"time"

	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5

	MaxTitleLength   = 100
	MinCommentLength = 10
	MaxCommentLength = 1000

	MaxImages = 5

	// MaxImageFileSize is the upload cap per review image (5MB)
	MaxImageFileSize = 5 * 1024 * 1024
)

// ReviewStatus represents the moderation state of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// IsValid checks if the status is valid
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

// String returns the string representation
func (s ReviewStatus) String() string {
	return string(s)
}

// ReviewImage is a photo attached to a review, stored as JSON on the row
type ReviewImage struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
	StorageKey  string `json:"storage_key"`
}

// Review represents a customer's product review. One review per user per
// product; reviews await moderation before appearing in public listings.
type Review struct {
	shared.OwnedAggregateRoot
	ProductID    uuid.UUID     `gorm:"type:uuid;not null;index:idx_reviews_user_product,unique;index"`
	Rating       int           `gorm:"not null"`
	Title        string        `gorm:"type:varchar(100)"`
	Comment      string        `gorm:"type:text;not null"`
	Images       []ReviewImage `gorm:"type:jsonb;serializer:json"`
	HelpfulVotes int           `gorm:"not null;default:0"`
	Status       ReviewStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectReason string        `gorm:"type:varchar(500)"`
	ModeratedAt  *time.Time
}

// TableName returns the database table name
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new product review awaiting moderation.
// The composite unique index on (user_id, product_id) backs the
// one-review-per-user-per-product rule at the database level.
func NewReview(userID, productID uuid.UUID, rating int, title, comment string) (*Review, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	review := &Review{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		ProductID:          productID,
		Rating:             rating,
		Title:              strings.TrimSpace(title),
		Comment:            strings.TrimSpace(comment),
		Status:             ReviewStatusPending,
	}

	review.AddDomainEvent(NewReviewCreatedEvent(review))

	return review, nil
}

// AddImage attaches a photo to a pending review
func (r *Review) AddImage(image ReviewImage) error {
	if r.Status != ReviewStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			"Images can only be added while the review is pending")
	}
	if len(r.Images) >= MaxImages {
		return shared.NewDomainError("TOO_MANY_IMAGES",
			"A review cannot have more than 5 images")
	}
	if image.FileName == "" || image.StorageKey == "" {
		return shared.NewDomainError("INVALID_IMAGE", "Image file name and storage key are required")
	}
	if image.FileSize <= 0 || image.FileSize > MaxImageFileSize {
		return shared.NewDomainError("FILE_TOO_LARGE", "Review images cannot exceed 5MB")
	}

	r.Images = append(r.Images, image)
	r.UpdatedAt = time.Now()

	return nil
}

// Update edits a pending review's content. Edits reset moderation,
// so approved reviews cannot be changed in place.
func (r *Review) Update(rating int, title, comment string) error {
	if r.Status != ReviewStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			"Only pending reviews can be edited")
	}
	if err := validateRating(rating); err != nil {
		return err
	}
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateComment(comment); err != nil {
		return err
	}

	r.Rating = rating
	r.Title = strings.TrimSpace(title)
	r.Comment = strings.TrimSpace(comment)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Approve publishes the review
func (r *Review) Approve() error {
	if r.Status == ReviewStatusApproved {
		return nil
	}
	if r.Status == ReviewStatusRejected {
		return shared.NewDomainError("INVALID_STATE",
			"Rejected reviews cannot be approved; the customer must resubmit")
	}

	r.Status = ReviewStatusApproved
	now := time.Now()
	r.ModeratedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReviewModeratedEvent(r))

	return nil
}

// Reject declines the review with a reason
func (r *Review) Reject(reason string) error {
	if r.Status != ReviewStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			"Only pending reviews can be rejected")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason cannot be empty")
	}

	r.Status = ReviewStatusRejected
	r.RejectReason = reason
	now := time.Now()
	r.ModeratedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReviewModeratedEvent(r))

	return nil
}

// MarkHelpful increments the helpful-vote counter. The count is
// server-owned; clients never submit a value.
func (r *Review) MarkHelpful() error {
	if r.Status != ReviewStatusApproved {
		return shared.NewDomainError("INVALID_STATE",
			"Only approved reviews can receive helpful votes")
	}

	r.HelpfulVotes++
	r.UpdatedAt = time.Now()

	return nil
}

// IsApproved returns true if the review is publicly visible
func (r *Review) IsApproved() bool {
	return r.Status == ReviewStatusApproved
}

// IsPending returns true if the review awaits moderation
func (r *Review) IsPending() bool {
	return r.Status == ReviewStatusPending
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

func validateTitle(title string) error {
	if len(strings.TrimSpace(title)) > MaxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 100 characters")
	}
	return nil
}

func validateComment(comment string) error {
	comment = strings.TrimSpace(comment)
	if len(comment) < MinCommentLength {
		return shared.NewDomainError("INVALID_COMMENT", "Comment must be at least 10 characters")
	}
	if len(comment) > MaxCommentLength {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 1000 characters")
	}
	return nil
}
