package handler

import (
	orderapp "github.com/shopcraft/backend/internal/application/order"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles shopping cart API endpoints
type CartHandler struct {
	BaseHandler
	cartService *orderapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *orderapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// Get godoc
// @Summary      Get the current cart
// @Description  Retrieve the authenticated user's shopping cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=order.CartResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Add a catalog product line to the user's cart, merging quantities for duplicates
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body order.AddCartItemRequest true "Cart item"
// @Success      200 {object} dto.Response{data=order.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddDesignItem godoc
// @Summary      Add a design order to the cart
// @Description  Add a quoted custom design order as a cart line with its locked price
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body order.AddDesignToCartRequest true "Design order reference"
// @Success      200 {object} dto.Response{data=order.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/design-items [post]
func (h *CartHandler) AddDesignItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.AddDesignToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.AddDesignItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem godoc
// @Summary      Update a cart line
// @Description  Change the quantity of a catalog product line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request body order.UpdateCartItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=order.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req orderapp.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Description  Remove a catalog product line from the cart
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=order.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveDesignItem godoc
// @Summary      Remove a design line
// @Description  Remove a custom design line from the cart
// @Tags         cart
// @Produce      json
// @Param        designOrderId path string true "Design Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=order.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/design-items/{designOrderId} [delete]
func (h *CartHandler) RemoveDesignItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	designOrderID, err := uuid.Parse(c.Param("designOrderId"))
	if err != nil {
		h.BadRequest(c, "Invalid design order ID format")
		return
	}

	cart, err := h.cartService.RemoveDesignItem(c.Request.Context(), userID, designOrderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// Clear godoc
// @Summary      Clear the cart
// @Description  Remove all lines from the user's cart
// @Tags         cart
// @Produce      json
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
