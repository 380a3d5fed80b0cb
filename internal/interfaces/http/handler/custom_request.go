package handler

import (
	requestapp "github.com/shopcraft/backend/internal/application/request"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomRequestHandler handles custom design request API endpoints
type CustomRequestHandler struct {
	BaseHandler
	requestService *requestapp.CustomRequestService
}

// NewCustomRequestHandler creates a new CustomRequestHandler
func NewCustomRequestHandler(requestService *requestapp.CustomRequestService) *CustomRequestHandler {
	return &CustomRequestHandler{
		requestService: requestService,
	}
}

// parseUpload extracts a multipart file from the named form field
func (h *CustomRequestHandler) parseUpload(c *gin.Context, field string) (*requestapp.FileUpload, func(), bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		h.BadRequest(c, "File is required")
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return nil, nil, false
	}

	upload := &requestapp.FileUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		FileSize:    fileHeader.Size,
		File:        file,
	}
	return upload, func() { file.Close() }, true
}

// Create godoc
// @Summary      Open a custom request
// @Description  Open a new custom design request (logo design or embroidery conversion)
// @Tags         custom-requests
// @Accept       json
// @Produce      json
// @Param        request body request.CreateRequestRequest true "Request brief"
// @Success      201 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /custom-requests [post]
func (h *CustomRequestHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req requestapp.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// AttachArtwork godoc
// @Summary      Attach reference artwork
// @Description  Upload reference artwork for a pending request as multipart form data
// @Tags         custom-requests
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        artwork formData file true "Reference artwork file"
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /custom-requests/{id}/artwork [post]
func (h *CustomRequestHandler) AttachArtwork(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	upload, closeFile, ok := h.parseUpload(c, "artwork")
	if !ok {
		return
	}
	defer closeFile()

	result, err := h.requestService.AttachArtwork(c.Request.Context(), userID, requestID, *upload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Get godoc
// @Summary      Get a custom request
// @Description  Retrieve one of the user's custom requests by ID
// @Tags         custom-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /custom-requests/{id} [get]
func (h *CustomRequestHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	result, err := h.requestService.Get(c.Request.Context(), userID, requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	// Staff notes stay internal
	result.AdminNotes = ""
	h.Success(c, result)
}

// List godoc
// @Summary      List the user's custom requests
// @Description  Retrieve a paginated list of the authenticated user's custom requests
// @Tags         custom-requests
// @Produce      json
// @Param        status query string false "Request status" Enums(pending, in-progress, completed, cancelled)
// @Param        request_type query string false "Request type" Enums(logo-design, embroidery-conversion)
// @Param        search query string false "Search term (request number, subject)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]request.RequestResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /custom-requests [get]
func (h *CustomRequestHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter requestapp.RequestListFilter
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

	results, total, err := h.requestService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	for i := range results {
		results[i].AdminNotes = ""
	}
	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// UpdateBrief godoc
// @Summary      Update the request brief
// @Description  Edit the subject and description of a pending request
// @Tags         custom-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body request.UpdateBriefRequest true "Updated brief"
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /custom-requests/{id} [put]
func (h *CustomRequestHandler) UpdateBrief(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req requestapp.UpdateBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.UpdateBrief(c.Request.Context(), userID, requestID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	result.AdminNotes = ""
	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel a custom request
// @Description  Cancel one of the user's requests before it is completed
// @Tags         custom-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body request.CancelRequestRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /custom-requests/{id}/cancel [post]
func (h *CustomRequestHandler) Cancel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req requestapp.CancelRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.Cancel(c.Request.Context(), userID, requestID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	result.AdminNotes = ""
	h.Success(c, result)
}

// AdminList godoc
// @Summary      List all custom requests
// @Description  Retrieve a paginated list of custom requests across all users (admin only)
// @Tags         custom-requests
// @Produce      json
// @Param        status query string false "Request status" Enums(pending, in-progress, completed, cancelled)
// @Param        request_type query string false "Request type" Enums(logo-design, embroidery-conversion)
// @Param        search query string false "Search term (request number, subject)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]request.RequestResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/custom-requests [get]
func (h *CustomRequestHandler) AdminList(c *gin.Context) {
	var filter requestapp.RequestListFilter
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

	results, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// AdminGet godoc
// @Summary      Get any custom request
// @Description  Retrieve a custom request by ID regardless of owner (admin only)
// @Tags         custom-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/custom-requests/{id} [get]
func (h *CustomRequestHandler) AdminGet(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	result, err := h.requestService.GetByID(c.Request.Context(), requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Start godoc
// @Summary      Start work on a request
// @Description  Move a pending request to in-progress (admin only)
// @Tags         custom-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/custom-requests/{id}/start [post]
func (h *CustomRequestHandler) Start(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	result, err := h.requestService.Start(c.Request.Context(), requestID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Complete godoc
// @Summary      Complete a request
// @Description  Upload the delivered result and mark the request completed (admin only)
// @Tags         custom-requests
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        result formData file true "Delivered result file"
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/custom-requests/{id}/complete [post]
func (h *CustomRequestHandler) Complete(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	upload, closeFile, ok := h.parseUpload(c, "result")
	if !ok {
		return
	}
	defer closeFile()

	result, err := h.requestService.Complete(c.Request.Context(), requestID, *upload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AdminCancel godoc
// @Summary      Cancel any custom request
// @Description  Cancel a request on behalf of the shop (admin only)
// @Tags         custom-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body request.CancelRequestRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/custom-requests/{id}/cancel [post]
func (h *CustomRequestHandler) AdminCancel(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req requestapp.CancelRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.CancelByAdmin(c.Request.Context(), requestID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SetNotes godoc
// @Summary      Set staff notes
// @Description  Record internal staff notes on a request (admin only)
// @Tags         custom-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body request.AdminNotesRequest true "Staff notes"
// @Success      200 {object} dto.Response{data=request.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/custom-requests/{id}/notes [put]
func (h *CustomRequestHandler) SetNotes(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req requestapp.AdminNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.SetAdminNotes(c.Request.Context(), requestID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// CountByStatus godoc
// @Summary      Count custom requests by status
// @Description  Return request counts grouped by status (admin only)
// @Tags         custom-requests
// @Produce      json
// @Success      200 {object} dto.Response{data=map[string]int64}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/custom-requests/stats [get]
func (h *CustomRequestHandler) CountByStatus(c *gin.Context) {
	counts, err := h.requestService.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, counts)
}
