package request

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopcraft/backend/internal/domain/request"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllowedArtworkContentTypes is the whitelist for reference artwork uploads.
// SVG is excluded: it can carry scripts and inline event handlers.
var AllowedArtworkContentTypes = map[string]bool{
	"image/jpeg":             true,
	"image/png":              true,
	"image/gif":              true,
	"image/webp":             true,
	"application/pdf":        true,
	"application/postscript": true,
}

// ObjectStorage defines the object storage operations the request flow needs
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// CustomRequestService handles the bespoke design request workflow: logo
// design briefs and embroidery conversion of existing artwork
type CustomRequestService struct {
	requestRepo       request.CustomRequestRepository
	storage           ObjectStorage
	downloadURLExpiry time.Duration
}

// NewCustomRequestService creates a new CustomRequestService
func NewCustomRequestService(requestRepo request.CustomRequestRepository, storage ObjectStorage) *CustomRequestService {
	return &CustomRequestService{
		requestRepo:       requestRepo,
		storage:           storage,
		downloadURLExpiry: 1 * time.Hour,
	}
}

// Create opens a new custom request in pending status
func (s *CustomRequestService) Create(ctx context.Context, userID uuid.UUID, req CreateRequestRequest) (*RequestResponse, error) {
	requestNumber, err := s.requestRepo.GenerateRequestNumber(ctx)
	if err != nil {
		return nil, err
	}

	customRequest, err := request.NewCustomRequest(
		userID,
		requestNumber,
		request.RequestType(req.RequestType),
		req.Subject,
		req.Description,
	)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, customRequest); err != nil {
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	return &response, nil
}

// AttachArtwork uploads reference artwork and attaches it to a pending
// request owned by the user
func (s *CustomRequestService) AttachArtwork(ctx context.Context, userID, requestID uuid.UUID, upload FileUpload) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByIDForUser(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if upload.File == nil || upload.FileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "Artwork file is required")
	}
	if !AllowedArtworkContentTypes[strings.ToLower(upload.ContentType)] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed for artwork uploads", upload.ContentType))
	}
	if upload.FileSize > request.MaxArtworkFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Artwork file cannot exceed 10MB")
	}

	data, err := readUpload(upload.File, upload.FileSize, request.MaxArtworkFileSize)
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("requests/%s/artwork/%s%s",
		userID.String(), uuid.New().String(), filepath.Ext(upload.FileName))

	if err := s.storage.Upload(ctx, storageKey, data, upload.ContentType); err != nil {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store artwork file")
	}

	if err := customRequest.AttachArtwork(upload.FileName, upload.ContentType, int64(len(data)), storageKey); err != nil {
		_ = s.storage.DeleteObject(ctx, storageKey)
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, customRequest); err != nil {
		_ = s.storage.DeleteObject(ctx, storageKey)
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	s.enrichWithURLs(ctx, &response, customRequest)
	return &response, nil
}

// Get retrieves a request owned by the given user
func (s *CustomRequestService) Get(ctx context.Context, userID, requestID uuid.UUID) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByIDForUser(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	s.enrichWithURLs(ctx, &response, customRequest)
	return &response, nil
}

// GetByID retrieves any request by ID (admin)
func (s *CustomRequestService) GetByID(ctx context.Context, requestID uuid.UUID) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	s.enrichWithURLs(ctx, &response, customRequest)
	return &response, nil
}

// ListForUser retrieves requests owned by the given user
func (s *CustomRequestService) ListForUser(ctx context.Context, userID uuid.UUID, filter RequestListFilter) ([]RequestResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)
	domainFilter.Filters["user_id"] = userID

	requests, err := s.requestRepo.FindAllForUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.requestRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRequestResponses(requests), total, nil
}

// List retrieves all requests matching the filter (admin)
func (s *CustomRequestService) List(ctx context.Context, filter RequestListFilter) ([]RequestResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	requests, err := s.requestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.requestRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRequestResponses(requests), total, nil
}

// UpdateBrief edits a pending request owned by the user
func (s *CustomRequestService) UpdateBrief(ctx context.Context, userID, requestID uuid.UUID, req UpdateBriefRequest) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByIDForUser(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if err := customRequest.UpdateBrief(req.Subject, req.Description); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, customRequest); err != nil {
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	s.enrichWithURLs(ctx, &response, customRequest)
	return &response, nil
}

// Cancel cancels a request on behalf of its owner
func (s *CustomRequestService) Cancel(ctx context.Context, userID, requestID uuid.UUID, req CancelRequestRequest) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByIDForUser(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if err := customRequest.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, customRequest); err != nil {
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	return &response, nil
}

// Start moves a request into in-progress (admin)
func (s *CustomRequestService) Start(ctx context.Context, requestID uuid.UUID) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := customRequest.Start(); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, customRequest); err != nil {
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	s.enrichWithURLs(ctx, &response, customRequest)
	return &response, nil
}

// Complete uploads the delivered result file and marks the request
// completed (admin)
func (s *CustomRequestService) Complete(ctx context.Context, requestID uuid.UUID, upload FileUpload) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if upload.File == nil || upload.FileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "Result file is required")
	}

	data, err := readUpload(upload.File, upload.FileSize, request.MaxArtworkFileSize)
	if err != nil {
		return nil, err
	}

	resultKey := fmt.Sprintf("requests/%s/result/%s%s",
		customRequest.UserID.String(), uuid.New().String(), filepath.Ext(upload.FileName))

	if err := s.storage.Upload(ctx, resultKey, data, upload.ContentType); err != nil {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store result file")
	}

	if err := customRequest.Complete(resultKey); err != nil {
		_ = s.storage.DeleteObject(ctx, resultKey)
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, customRequest); err != nil {
		_ = s.storage.DeleteObject(ctx, resultKey)
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	s.enrichWithURLs(ctx, &response, customRequest)
	return &response, nil
}

// CancelByAdmin cancels any non-terminal request (admin)
func (s *CustomRequestService) CancelByAdmin(ctx context.Context, requestID uuid.UUID, req CancelRequestRequest) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := customRequest.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, customRequest); err != nil {
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	return &response, nil
}

// SetAdminNotes records staff notes on a request (admin)
func (s *CustomRequestService) SetAdminNotes(ctx context.Context, requestID uuid.UUID, req AdminNotesRequest) (*RequestResponse, error) {
	customRequest, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	customRequest.SetAdminNotes(req.Notes)

	if err := s.requestRepo.Save(ctx, customRequest); err != nil {
		return nil, err
	}

	response := ToRequestResponse(customRequest)
	return &response, nil
}

// CountByStatus returns request counts grouped by status (admin dashboard)
func (s *CustomRequestService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	total := int64(0)

	for _, status := range []request.RequestStatus{
		request.RequestStatusPending,
		request.RequestStatusInProgress,
		request.RequestStatusCompleted,
		request.RequestStatusCancelled,
	} {
		count, err := s.requestRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts[status.String()] = count
		total += count
	}

	counts["total"] = total
	return counts, nil
}

func (s *CustomRequestService) enrichWithURLs(ctx context.Context, response *RequestResponse, customRequest *request.CustomRequest) {
	if customRequest.ArtworkStorageKey != "" {
		url, _, err := s.storage.GenerateDownloadURL(ctx, customRequest.ArtworkStorageKey, s.downloadURLExpiry)
		if err == nil {
			response.ArtworkURL = url
		}
	}
	if customRequest.ResultKey != "" {
		url, _, err := s.storage.GenerateDownloadURL(ctx, customRequest.ResultKey, s.downloadURLExpiry)
		if err == nil {
			response.ResultURL = url
		}
	}
}

func (s *CustomRequestService) toDomainFilter(filter RequestListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.RequestType != "" {
		domainFilter.Filters["request_type"] = filter.RequestType
	}

	return domainFilter
}

// readUpload reads an uploaded file, enforcing the size cap even when the
// declared size is wrong
func readUpload(r io.Reader, declaredSize, maxSize int64) ([]byte, error) {
	limit := maxSize
	if declaredSize > 0 && declaredSize < limit {
		limit = declaredSize
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_READ_FAILED", "Failed to read uploaded file")
	}
	if int64(len(data)) > limit {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the declared size")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "Uploaded file is empty")
	}

	return data, nil
}
