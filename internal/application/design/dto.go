package design

import (
	"io"
	"time"

	"github.com/shopcraft/backend/internal/domain/design"
	"github.com/shopcraft/backend/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlacementRequest describes one requested design placement. Width, height,
// rotation, and offsets are optional; the domain fills in defaults and clamps
// out-of-range values.
type PlacementRequest struct {
	Position string           `json:"position" binding:"required"`
	WidthCM  *decimal.Decimal `json:"width_cm"`
	HeightCM *decimal.Decimal `json:"height_cm"`
	Rotation *int             `json:"rotation"`
	OffsetX  *decimal.Decimal `json:"offset_x"`
	OffsetY  *decimal.Decimal `json:"offset_y"`
}

// SubmitDesignOrderRequest carries the parsed multipart submission: form
// fields plus the uploaded design file. The handler is responsible for
// parsing the multipart form and the placements JSON field.
type SubmitDesignOrderRequest struct {
	ProductID           uuid.UUID
	DesignType          string
	Quantity            int
	SpecialInstructions string
	Placements          []PlacementRequest

	FileName    string
	ContentType string
	FileSize    int64
	File        io.Reader
}

// UpdatePlacementRequest adjusts the geometry of an existing placement
type UpdatePlacementRequest struct {
	WidthCM  *decimal.Decimal `json:"width_cm"`
	HeightCM *decimal.Decimal `json:"height_cm"`
	Rotation *int             `json:"rotation"`
	OffsetX  *decimal.Decimal `json:"offset_x"`
	OffsetY  *decimal.Decimal `json:"offset_y"`
}

// AddPlacementRequest adds a new placement slot to a pending order
type AddPlacementRequest struct {
	Position string `json:"position" binding:"required"`
}

// UpdateQuantityRequest changes the order quantity while pending
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateStatusRequest moves an order to a new status (admin only)
type UpdateStatusRequest struct {
	Status       string `json:"status" binding:"required,oneof=confirmed in-progress completed cancelled"`
	CancelReason string `json:"cancel_reason" binding:"max=500"`
}

// CancelRequest cancels a pending order
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// DesignOrderListFilter represents filter options for design order listing
type DesignOrderListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=pending confirmed in-progress completed cancelled"`
	DesignType string     `form:"design_type" binding:"omitempty,oneof=printing embroidery"`
	ProductID  *uuid.UUID `form:"product_id"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=created_at total_price quantity status"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PriceEstimateRequest asks for a non-binding quote before submission
type PriceEstimateRequest struct {
	ProductID  uuid.UUID          `json:"product_id" binding:"required"`
	DesignType string             `json:"design_type" binding:"required,oneof=printing embroidery"`
	Quantity   int                `json:"quantity" binding:"required,min=1"`
	Placements []PlacementRequest `json:"placements" binding:"required,min=1,dive"`
}

// PriceEstimateResponse is the quote returned by the pricing engine
type PriceEstimateResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	DesignType      string          `json:"design_type"`
	Quantity        int             `json:"quantity"`
	BasePrice       decimal.Decimal `json:"base_price"`
	PlacementCharge decimal.Decimal `json:"placement_charge"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Currency        string          `json:"currency"`
	AppliedRules    []string        `json:"applied_rules"`
}

// PlacementResponse represents a placement in API responses
type PlacementResponse struct {
	ID       uuid.UUID       `json:"id"`
	Position string          `json:"position"`
	WidthCM  decimal.Decimal `json:"width_cm"`
	HeightCM decimal.Decimal `json:"height_cm"`
	Rotation int             `json:"rotation"`
	OffsetX  decimal.Decimal `json:"offset_x"`
	OffsetY  decimal.Decimal `json:"offset_y"`
	AreaCM2  decimal.Decimal `json:"area_cm2"`
}

// DesignOrderResponse represents a design order in API responses
type DesignOrderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	OrderNumber         string              `json:"order_number"`
	UserID              uuid.UUID           `json:"user_id"`
	ProductID           uuid.UUID           `json:"product_id"`
	ProductName         string              `json:"product_name"`
	ProductType         string              `json:"product_type"`
	DesignType          string              `json:"design_type"`
	DesignFileName      string              `json:"design_file_name"`
	DesignFileURL       string              `json:"design_file_url,omitempty"`
	Placements          []PlacementResponse `json:"placements"`
	Quantity            int                 `json:"quantity"`
	SpecialInstructions string              `json:"special_instructions"`
	BasePrice           decimal.Decimal     `json:"base_price"`
	UnitPrice           decimal.Decimal     `json:"unit_price"`
	TotalPrice          decimal.Decimal     `json:"total_price"`
	Status              string              `json:"status"`
	CancelReason        string              `json:"cancel_reason,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	Version             int                 `json:"version"`
}

// PositionResponse lists a placement slot offered for a product
type PositionResponse struct {
	Position string `json:"position"`
	Premium  bool   `json:"premium"`
}

// ToPlacementResponse converts a domain Placement to PlacementResponse
func ToPlacementResponse(p *design.Placement) PlacementResponse {
	return PlacementResponse{
		ID:       p.ID,
		Position: p.Position.String(),
		WidthCM:  p.WidthCM,
		HeightCM: p.HeightCM,
		Rotation: p.Rotation,
		OffsetX:  p.OffsetX,
		OffsetY:  p.OffsetY,
		AreaCM2:  p.AreaCM2(),
	}
}

// ToDesignOrderResponse converts a domain DesignOrder to DesignOrderResponse
func ToDesignOrderResponse(o *design.DesignOrder) DesignOrderResponse {
	placements := make([]PlacementResponse, len(o.Placements))
	for i := range o.Placements {
		placements[i] = ToPlacementResponse(&o.Placements[i])
	}

	return DesignOrderResponse{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		UserID:              o.UserID,
		ProductID:           o.ProductID,
		ProductName:         o.ProductName,
		ProductType:         o.ProductType.String(),
		DesignType:          o.DesignType.String(),
		DesignFileName:      o.DesignFileName,
		Placements:          placements,
		Quantity:            o.Quantity,
		SpecialInstructions: o.SpecialInstructions,
		BasePrice:           o.BasePrice,
		UnitPrice:           o.UnitPrice,
		TotalPrice:          o.TotalPrice,
		Status:              o.Status.String(),
		CancelReason:        o.CancelReason,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		Version:             o.Version,
	}
}

// ToDesignOrderResponses converts a slice of domain DesignOrders
func ToDesignOrderResponses(orders []design.DesignOrder) []DesignOrderResponse {
	responses := make([]DesignOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToDesignOrderResponse(&orders[i])
	}
	return responses
}

// ToEstimateResponse converts a pricing result into an estimate response
func ToEstimateResponse(req PriceEstimateRequest, basePrice decimal.Decimal, result strategy.PricingResult) PriceEstimateResponse {
	return PriceEstimateResponse{
		ProductID:       req.ProductID,
		DesignType:      req.DesignType,
		Quantity:        req.Quantity,
		BasePrice:       basePrice,
		PlacementCharge: result.PlacementCharge,
		UnitPrice:       result.UnitPrice,
		TotalPrice:      result.TotalPrice,
		DiscountAmount:  result.DiscountAmount,
		DiscountPercent: result.DiscountPercent,
		Currency:        result.Currency,
		AppliedRules:    result.AppliedRules,
	}
}
