package handler

import (
	"encoding/json"
	"strconv"

	designapp "github.com/shopcraft/backend/internal/application/design"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DesignOrderHandler handles custom design order API endpoints
type DesignOrderHandler struct {
	BaseHandler
	designOrderService *designapp.DesignOrderService
	pricingService     *designapp.PricingService
}

// NewDesignOrderHandler creates a new DesignOrderHandler
func NewDesignOrderHandler(designOrderService *designapp.DesignOrderService, pricingService *designapp.PricingService) *DesignOrderHandler {
	return &DesignOrderHandler{
		designOrderService: designOrderService,
		pricingService:     pricingService,
	}
}

// Estimate godoc
// @Summary      Estimate design pricing
// @Description  Return a non-binding quote for a design configuration without persisting anything
// @Tags         design-orders
// @Accept       json
// @Produce      json
// @Param        request body design.PriceEstimateRequest true "Pricing request"
// @Success      200 {object} dto.Response{data=design.PriceEstimateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /design-orders/estimate [post]
func (h *DesignOrderHandler) Estimate(c *gin.Context) {
	var req designapp.PriceEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	estimate, err := h.pricingService.Estimate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, estimate)
}

// Positions godoc
// @Summary      List placement positions
// @Description  List the placement positions offered for a product type
// @Tags         design-orders
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]design.PositionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /design-orders/positions/{productId} [get]
func (h *DesignOrderHandler) Positions(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	positions, err := h.designOrderService.PositionsForProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, positions)
}

// Submit godoc
// @Summary      Submit a design order
// @Description  Submit a custom design order as a multipart form with the design file, placements JSON, and order fields
// @Tags         design-orders
// @Accept       multipart/form-data
// @Produce      json
// @Param        product_id formData string true "Product ID" format(uuid)
// @Param        design_type formData string true "Design type" Enums(printing, embroidery)
// @Param        quantity formData int true "Quantity"
// @Param        special_instructions formData string false "Special instructions"
// @Param        placements formData string true "Placements as a JSON array"
// @Param        design_file formData file true "Design artwork file"
// @Success      201 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /design-orders [post]
func (h *DesignOrderHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.PostForm("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil || quantity < 1 {
		h.BadRequest(c, "Quantity must be a positive integer")
		return
	}

	var placements []designapp.PlacementRequest
	if raw := c.PostForm("placements"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &placements); err != nil {
			h.BadRequest(c, "Invalid placements JSON")
			return
		}
	}

	fileHeader, err := c.FormFile("design_file")
	if err != nil {
		h.BadRequest(c, "Design file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read design file")
		return
	}
	defer file.Close()

	req := designapp.SubmitDesignOrderRequest{
		ProductID:           productID,
		DesignType:          c.PostForm("design_type"),
		Quantity:            quantity,
		SpecialInstructions: c.PostForm("special_instructions"),
		Placements:          placements,
		FileName:            fileHeader.Filename,
		ContentType:         fileHeader.Header.Get("Content-Type"),
		FileSize:            fileHeader.Size,
		File:                file,
	}

	order, err := h.designOrderService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// Get godoc
// @Summary      Get a design order
// @Description  Retrieve one of the user's design orders by ID
// @Tags         design-orders
// @Produce      json
// @Param        id path string true "Design Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /design-orders/{id} [get]
func (h *DesignOrderHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	order, err := h.designOrderService.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @Summary      List the user's design orders
// @Description  Retrieve a paginated list of the authenticated user's design orders
// @Tags         design-orders
// @Produce      json
// @Param        status query string false "Design order status" Enums(pending, confirmed, in-progress, completed, cancelled)
// @Param        design_type query string false "Design type" Enums(printing, embroidery)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        search query string false "Search term (order number, product, file name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" Enums(created_at, total_price, quantity, status)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]design.DesignOrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /design-orders [get]
func (h *DesignOrderHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter designapp.DesignOrderListFilter
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

	orders, total, err := h.designOrderService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// AddPlacement godoc
// @Summary      Add a placement
// @Description  Add a placement slot to a pending design order and reprice it
// @Tags         design-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Design Order ID" format(uuid)
// @Param        request body design.AddPlacementRequest true "Placement position"
// @Success      200 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /design-orders/{id}/placements [post]
func (h *DesignOrderHandler) AddPlacement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	var req designapp.AddPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.designOrderService.AddPlacement(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdatePlacement godoc
// @Summary      Update a placement
// @Description  Adjust the geometry of a placement on a pending design order
// @Tags         design-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Design Order ID" format(uuid)
// @Param        placementId path string true "Placement ID" format(uuid)
// @Param        request body design.UpdatePlacementRequest true "Placement geometry"
// @Success      200 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /design-orders/{id}/placements/{placementId} [put]
func (h *DesignOrderHandler) UpdatePlacement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	placementID, err := uuid.Parse(c.Param("placementId"))
	if err != nil {
		h.BadRequest(c, "Invalid placement ID format")
		return
	}

	var req designapp.UpdatePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.designOrderService.UpdatePlacement(c.Request.Context(), userID, orderID, placementID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemovePlacement godoc
// @Summary      Remove a placement
// @Description  Remove a placement from a pending design order and reprice it
// @Tags         design-orders
// @Produce      json
// @Param        id path string true "Design Order ID" format(uuid)
// @Param        placementId path string true "Placement ID" format(uuid)
// @Success      200 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /design-orders/{id}/placements/{placementId} [delete]
func (h *DesignOrderHandler) RemovePlacement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	placementID, err := uuid.Parse(c.Param("placementId"))
	if err != nil {
		h.BadRequest(c, "Invalid placement ID format")
		return
	}

	order, err := h.designOrderService.RemovePlacement(c.Request.Context(), userID, orderID, placementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateQuantity godoc
// @Summary      Update order quantity
// @Description  Change the quantity of a pending design order and reprice it
// @Tags         design-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Design Order ID" format(uuid)
// @Param        request body design.UpdateQuantityRequest true "New quantity"
// @Success      200 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /design-orders/{id}/quantity [put]
func (h *DesignOrderHandler) UpdateQuantity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	var req designapp.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.designOrderService.UpdateQuantity(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel a design order
// @Description  Cancel one of the user's design orders while it is still pending
// @Tags         design-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Design Order ID" format(uuid)
// @Param        request body design.CancelRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /design-orders/{id}/cancel [post]
func (h *DesignOrderHandler) Cancel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	var req designapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.designOrderService.Cancel(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// AdminList godoc
// @Summary      List all design orders
// @Description  Retrieve a paginated list of design orders across all users (admin only)
// @Tags         design-orders
// @Produce      json
// @Param        status query string false "Design order status" Enums(pending, confirmed, in-progress, completed, cancelled)
// @Param        design_type query string false "Design type" Enums(printing, embroidery)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]design.DesignOrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/design-orders [get]
func (h *DesignOrderHandler) AdminList(c *gin.Context) {
	var filter designapp.DesignOrderListFilter
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

	orders, total, err := h.designOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// AdminGet godoc
// @Summary      Get any design order
// @Description  Retrieve a design order by ID regardless of owner (admin only)
// @Tags         design-orders
// @Produce      json
// @Param        id path string true "Design Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/design-orders/{id} [get]
func (h *DesignOrderHandler) AdminGet(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	order, err := h.designOrderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus godoc
// @Summary      Update design order status
// @Description  Move a design order through its lifecycle (admin only)
// @Tags         design-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Design Order ID" format(uuid)
// @Param        request body design.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=design.DesignOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/design-orders/{id}/status [put]
func (h *DesignOrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	var req designapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.designOrderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// CountByStatus godoc
// @Summary      Count design orders by status
// @Description  Return design order counts grouped by status (admin only)
// @Tags         design-orders
// @Produce      json
// @Success      200 {object} dto.Response{data=map[string]int64}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/design-orders/stats [get]
func (h *DesignOrderHandler) CountByStatus(c *gin.Context) {
	counts, err := h.designOrderService.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, counts)
}
