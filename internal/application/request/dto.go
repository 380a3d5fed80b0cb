package request

import (
	"io"
	"time"

	"github.com/shopcraft/backend/internal/domain/request"
	"github.com/google/uuid"
)

// CreateRequestRequest opens a new custom design request
type CreateRequestRequest struct {
	RequestType string `json:"request_type" binding:"required,oneof=logo-design embroidery-conversion"`
	Subject     string `json:"subject" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"required,min=20,max=2000"`
}

// UpdateBriefRequest edits the subject and description of a pending request
type UpdateBriefRequest struct {
	Subject     string `json:"subject" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"required,min=20,max=2000"`
}

// CancelRequestRequest cancels a request
type CancelRequestRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// AdminNotesRequest records staff notes on a request
type AdminNotesRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// FileUpload carries a parsed multipart file: reference artwork from the
// customer or the delivered result from staff
type FileUpload struct {
	FileName    string
	ContentType string
	FileSize    int64
	File        io.Reader
}

// RequestListFilter represents filter options for request listing
type RequestListFilter struct {
	Status      string `form:"status" binding:"omitempty,oneof=pending in-progress completed cancelled"`
	RequestType string `form:"request_type" binding:"omitempty,oneof=logo-design embroidery-conversion"`
	Search      string `form:"search"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by" binding:"omitempty,oneof=created_at status request_type"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RequestResponse represents a custom request in API responses
type RequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	RequestNumber   string     `json:"request_number"`
	UserID          uuid.UUID  `json:"user_id"`
	RequestType     string     `json:"request_type"`
	Subject         string     `json:"subject"`
	Description     string     `json:"description"`
	ArtworkFileName string     `json:"artwork_file_name,omitempty"`
	ArtworkURL      string     `json:"artwork_url,omitempty"`
	Status          string     `json:"status"`
	AdminNotes      string     `json:"admin_notes,omitempty"`
	ResultURL       string     `json:"result_url,omitempty"`
	CancelReason    string     `json:"cancel_reason,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// ToRequestResponse converts a domain CustomRequest to RequestResponse.
// Admin notes are included; handlers strip them for customer-facing routes.
func ToRequestResponse(r *request.CustomRequest) RequestResponse {
	return RequestResponse{
		ID:              r.ID,
		RequestNumber:   r.RequestNumber,
		UserID:          r.UserID,
		RequestType:     r.RequestType.String(),
		Subject:         r.Subject,
		Description:     r.Description,
		ArtworkFileName: r.ArtworkFileName,
		Status:          r.Status.String(),
		AdminNotes:      r.AdminNotes,
		CancelReason:    r.CancelReason,
		CompletedAt:     r.CompletedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}

// ToRequestResponses converts a slice of domain CustomRequests
func ToRequestResponses(requests []*request.CustomRequest) []RequestResponse {
	responses := make([]RequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = ToRequestResponse(r)
	}
	return responses
}
