package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/review"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// AllowedImageContentTypes is the whitelist for review photo uploads
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStorage defines the object storage operations the review flow needs
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// ReviewService handles product reviews: submission, moderation, helpful
// votes, and the per-product rating aggregation
type ReviewService struct {
	reviewRepo        review.ReviewRepository
	productRepo       catalog.ProductRepository
	storage           ObjectStorage
	downloadURLExpiry time.Duration
	businessMetrics   *telemetry.BusinessMetrics
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo review.ReviewRepository,
	productRepo catalog.ProductRepository,
	storage ObjectStorage,
) *ReviewService {
	return &ReviewService{
		reviewRepo:        reviewRepo,
		productRepo:       productRepo,
		storage:           storage,
		downloadURLExpiry: 1 * time.Hour,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *ReviewService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create submits a review for moderation. One review per user per product;
// a second submission is rejected before it reaches the database.
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByUserAndProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this product")
	}

	newReview, err := review.NewReview(userID, req.ProductID, req.Rating, req.Title, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, newReview); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordReviewSubmitted(ctx, newReview.Rating)
	}

	response := ToReviewResponse(newReview)
	return &response, nil
}

// AddImage uploads a photo and attaches it to a pending review owned by
// the user
func (s *ReviewService) AddImage(ctx context.Context, userID, reviewID uuid.UUID, upload ImageUpload) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByIDForUser(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	if upload.File == nil || upload.FileName == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image file is required")
	}
	if !AllowedImageContentTypes[strings.ToLower(upload.ContentType)] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed for review images", upload.ContentType))
	}
	if upload.FileSize > review.MaxImageFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Review images cannot exceed 5MB")
	}

	data, err := readImage(upload.File, upload.FileSize)
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("reviews/%s/%s%s",
		userID.String(), uuid.New().String(), filepath.Ext(upload.FileName))

	if err := s.storage.Upload(ctx, storageKey, data, upload.ContentType); err != nil {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store review image")
	}

	image := review.ReviewImage{
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		FileSize:    int64(len(data)),
		StorageKey:  storageKey,
	}
	if err := r.AddImage(image); err != nil {
		_ = s.storage.DeleteObject(ctx, storageKey)
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		_ = s.storage.DeleteObject(ctx, storageKey)
		return nil, err
	}

	response := ToReviewResponse(r)
	s.enrichWithImageURLs(ctx, &response, r)
	return &response, nil
}

// Get retrieves a review owned by the given user
func (s *ReviewService) Get(ctx context.Context, userID, reviewID uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByIDForUser(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	s.enrichWithImageURLs(ctx, &response, r)
	return &response, nil
}

// GetByID retrieves any review by ID (admin)
func (s *ReviewService) GetByID(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	s.enrichWithImageURLs(ctx, &response, r)
	return &response, nil
}

// ListByProduct retrieves the approved reviews of a product, most helpful
// first by default
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, 0, err
	}

	domainFilter := s.toDomainFilter(filter)
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "helpful_votes"
		domainFilter.OrderDir = "desc"
	}

	reviews, err := s.reviewRepo.FindApprovedByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.reviewRepo.CountApprovedByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	responses := ToReviewResponses(reviews)
	for i, r := range reviews {
		s.enrichWithImageURLs(ctx, &responses[i], r)
	}
	return responses, total, nil
}

// ListForUser retrieves reviews written by the given user
func (s *ReviewService) ListForUser(ctx context.Context, userID uuid.UUID, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)
	domainFilter.Filters["user_id"] = userID

	reviews, err := s.reviewRepo.FindAllForUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.reviewRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToReviewResponses(reviews), total, nil
}

// List retrieves all reviews matching the filter (admin moderation queue)
func (s *ReviewService) List(ctx context.Context, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	reviews, err := s.reviewRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.reviewRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToReviewResponses(reviews), total, nil
}

// Update edits a pending review owned by the user
func (s *ReviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, req UpdateReviewRequest) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByIDForUser(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	if err := r.Update(req.Rating, req.Title, req.Comment); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	s.enrichWithImageURLs(ctx, &response, r)
	return &response, nil
}

// Delete removes a review owned by the user, along with its stored images
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	r, err := s.reviewRepo.FindByIDForUser(ctx, reviewID, userID)
	if err != nil {
		return err
	}

	for _, img := range r.Images {
		_ = s.storage.DeleteObject(ctx, img.StorageKey)
	}

	return s.reviewRepo.Delete(ctx, r.ID)
}

// Approve publishes a review (admin)
func (s *ReviewService) Approve(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, reviewID, func(r *review.Review) error {
		return r.Approve()
	})
}

// Reject declines a review with a reason (admin)
func (s *ReviewService) Reject(ctx context.Context, reviewID uuid.UUID, req RejectReviewRequest) (*ReviewResponse, error) {
	return s.moderate(ctx, reviewID, func(r *review.Review) error {
		return r.Reject(req.Reason)
	})
}

// MarkHelpful increments the helpful-vote counter of an approved review.
// The counter is server-owned; the endpoint takes no body.
func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := r.MarkHelpful(); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	return &response, nil
}

// RatingSummary returns the approved-review aggregation for a product:
// count, average, and per-star distribution. Products with no approved
// reviews get a zeroed summary with all five buckets present.
func (s *ReviewService) RatingSummary(ctx context.Context, productID uuid.UUID) (*RatingSummaryResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	summary, err := s.reviewRepo.RatingSummaryByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToRatingSummaryResponse(summary)
	return &response, nil
}

func (s *ReviewService) moderate(ctx context.Context, reviewID uuid.UUID, action func(*review.Review) error) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := action(r); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	s.enrichWithImageURLs(ctx, &response, r)
	return &response, nil
}

func (s *ReviewService) enrichWithImageURLs(ctx context.Context, response *ReviewResponse, r *review.Review) {
	for i, img := range r.Images {
		url, _, err := s.storage.GenerateDownloadURL(ctx, img.StorageKey, s.downloadURLExpiry)
		if err == nil {
			response.Images[i].URL = url
		}
	}
}

func (s *ReviewService) toDomainFilter(filter ReviewListFilter) shared.Filter {
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
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Rating != nil {
		domainFilter.Filters["rating"] = *filter.Rating
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}

	return domainFilter
}

// readImage reads an uploaded image, enforcing the size cap even when the
// declared size is wrong
func readImage(r io.Reader, declaredSize int64) ([]byte, error) {
	limit := int64(review.MaxImageFileSize)
	if declaredSize > 0 && declaredSize < limit {
		limit = declaredSize
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_READ_FAILED", "Failed to read image file")
	}
	if int64(len(data)) > limit {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Image exceeds the declared size")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Uploaded image is empty")
	}

	return data, nil
}
