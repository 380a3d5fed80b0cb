package handler

import (
	reviewapp "github.com/shopcraft/backend/internal/application/review"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewHandler handles product review API endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Create godoc
// @Summary      Submit a review
// @Description  Submit a review for a product the user has received
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body review.CreateReviewRequest true "Review submission"
// @Success      201 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req reviewapp.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, review)
}

// AddImage godoc
// @Summary      Attach a photo to a review
// @Description  Upload a photo for one of the user's reviews as multipart form data
// @Tags         reviews
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Param        image formData file true "Review photo"
// @Success      200 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id}/images [post]
func (h *ReviewHandler) AddImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "Image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read image file")
		return
	}
	defer file.Close()

	upload := reviewapp.ImageUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		FileSize:    fileHeader.Size,
		File:        file,
	}

	review, err := h.reviewService.AddImage(c.Request.Context(), userID, reviewID, upload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, review)
}

// ListByProduct godoc
// @Summary      List product reviews
// @Description  Retrieve approved reviews for a product
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        rating query int false "Filter by star rating" minimum(1) maximum(5)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" Enums(created_at, helpful_votes, rating)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]review.ReviewResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews [get]
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var filter reviewapp.ReviewListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	reviews, total, err := h.reviewService.ListByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, reviews, total, filter.Page, filter.PageSize)
}

// RatingSummary godoc
// @Summary      Get product rating summary
// @Description  Return the approved review count, average rating, and star distribution for a product
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=review.RatingSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews/summary [get]
func (h *ReviewHandler) RatingSummary(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	summary, err := h.reviewService.RatingSummary(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// ListMine godoc
// @Summary      List the user's reviews
// @Description  Retrieve a paginated list of the authenticated user's reviews in any status
// @Tags         reviews
// @Produce      json
// @Param        status query string false "Review status" Enums(pending, approved, rejected)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]review.ReviewResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/mine [get]
func (h *ReviewHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter reviewapp.ReviewListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	reviews, total, err := h.reviewService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, reviews, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get a review
// @Description  Retrieve one of the user's reviews by ID
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), userID, reviewID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, review)
}

// Update godoc
// @Summary      Update a review
// @Description  Edit one of the user's reviews while it is pending moderation
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Param        request body review.UpdateReviewRequest true "Review update"
// @Success      200 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	var req reviewapp.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, review)
}

// Delete godoc
// @Summary      Delete a review
// @Description  Delete one of the user's reviews
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, reviewID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkHelpful godoc
// @Summary      Mark a review helpful
// @Description  Increment the helpful vote counter of an approved review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reviews/{id}/helpful [post]
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	review, err := h.reviewService.MarkHelpful(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, review)
}

// AdminList godoc
// @Summary      List all reviews
// @Description  Retrieve a paginated list of reviews in any status (admin only)
// @Tags         reviews
// @Produce      json
// @Param        status query string false "Review status" Enums(pending, approved, rejected)
// @Param        rating query int false "Filter by star rating" minimum(1) maximum(5)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]review.ReviewResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reviews [get]
func (h *ReviewHandler) AdminList(c *gin.Context) {
	var filter reviewapp.ReviewListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	reviews, total, err := h.reviewService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, reviews, total, filter.Page, filter.PageSize)
}

// Approve godoc
// @Summary      Approve a review
// @Description  Approve a pending review so it appears on the product page (admin only)
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	review, err := h.reviewService.Approve(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, review)
}

// Reject godoc
// @Summary      Reject a review
// @Description  Reject a pending review with a reason (admin only)
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Param        request body review.RejectReviewRequest true "Rejection reason"
// @Success      200 {object} dto.Response{data=review.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reviews/{id}/reject [post]
func (h *ReviewHandler) Reject(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	var req reviewapp.RejectReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Reject(c.Request.Context(), reviewID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, review)
}
