package review

import (
	"io"
	"time"

	"github.com/shopcraft/backend/internal/domain/review"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReviewRequest submits a new product review
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Title     string    `json:"title" binding:"max=100"`
	Comment   string    `json:"comment" binding:"required,min=10,max=1000"`
}

// UpdateReviewRequest edits a pending review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=100"`
	Comment string `json:"comment" binding:"required,min=10,max=1000"`
}

// RejectReviewRequest declines a review with a reason
type RejectReviewRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ImageUpload carries a parsed multipart review photo
type ImageUpload struct {
	FileName    string
	ContentType string
	FileSize    int64
	File        io.Reader
}

// ReviewListFilter represents filter options for review listing
type ReviewListFilter struct {
	Status    string     `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Rating    *int       `form:"rating" binding:"omitempty,min=1,max=5"`
	ProductID *uuid.UUID `form:"product_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by" binding:"omitempty,oneof=created_at helpful_votes rating"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReviewImageResponse represents an attached photo in API responses
type ReviewImageResponse struct {
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID           uuid.UUID             `json:"id"`
	UserID       uuid.UUID             `json:"user_id"`
	ProductID    uuid.UUID             `json:"product_id"`
	Rating       int                   `json:"rating"`
	Title        string                `json:"title"`
	Comment      string                `json:"comment"`
	Images       []ReviewImageResponse `json:"images"`
	HelpfulVotes int                   `json:"helpful_votes"`
	Status       string                `json:"status"`
	RejectReason string                `json:"reject_reason,omitempty"`
	ModeratedAt  *time.Time            `json:"moderated_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// RatingSummaryResponse aggregates a product's approved reviews
type RatingSummaryResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ReviewCount   int64           `json:"review_count"`
	AverageRating decimal.Decimal `json:"average_rating"`
	Distribution  map[int]int64   `json:"distribution"`
}

// ToReviewResponse converts a domain Review to ReviewResponse
func ToReviewResponse(r *review.Review) ReviewResponse {
	images := make([]ReviewImageResponse, len(r.Images))
	for i, img := range r.Images {
		images[i] = ReviewImageResponse{FileName: img.FileName}
	}

	return ReviewResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		ProductID:    r.ProductID,
		Rating:       r.Rating,
		Title:        r.Title,
		Comment:      r.Comment,
		Images:       images,
		HelpfulVotes: r.HelpfulVotes,
		Status:       r.Status.String(),
		RejectReason: r.RejectReason,
		ModeratedAt:  r.ModeratedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// ToReviewResponses converts a slice of domain Reviews
func ToReviewResponses(reviews []*review.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		responses[i] = ToReviewResponse(r)
	}
	return responses
}

// ToRatingSummaryResponse converts a domain RatingSummary
func ToRatingSummaryResponse(s review.RatingSummary) RatingSummaryResponse {
	return RatingSummaryResponse{
		ProductID:     s.ProductID,
		ReviewCount:   s.ReviewCount,
		AverageRating: s.AverageRating,
		Distribution:  s.Distribution,
	}
}
