package design

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/design"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/domain/shared/strategy"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllowedDesignContentTypes is the whitelist of accepted design uploads.
// SVG is excluded: it can carry scripts and inline event handlers.
var AllowedDesignContentTypes = map[string]bool{
	"image/jpeg":             true,
	"image/png":              true,
	"image/gif":              true,
	"image/webp":             true,
	"application/pdf":        true,
	"application/postscript": true,
}

// ObjectStorage defines the object storage operations the design flow needs.
// Implemented by the S3-compatible storage in the infrastructure layer.
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// Quoter computes an authoritative price for a design order context
type Quoter interface {
	Quote(ctx context.Context, pricingCtx strategy.PricingContext) (strategy.PricingResult, error)
}

// DesignOrderServiceConfig holds configuration for the design order service
type DesignOrderServiceConfig struct {
	// DownloadURLExpiry is the duration for which design file URLs are valid
	DownloadURLExpiry time.Duration
}

// DefaultDesignOrderServiceConfig returns the default configuration
func DefaultDesignOrderServiceConfig() DesignOrderServiceConfig {
	return DesignOrderServiceConfig{
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// DesignOrderService handles the custom design order flow: submission with
// file upload, placement adjustments, and the status workflow. All prices on
// an order are computed server-side; client-supplied prices are never used.
type DesignOrderService struct {
	orderRepo   design.DesignOrderRepository
	assetRepo   design.AssetRepository
	productRepo catalog.ProductRepository
	storage     ObjectStorage
	quoter      Quoter
	config      DesignOrderServiceConfig
}

// NewDesignOrderService creates a new DesignOrderService
func NewDesignOrderService(
	orderRepo design.DesignOrderRepository,
	assetRepo design.AssetRepository,
	productRepo catalog.ProductRepository,
	storage ObjectStorage,
	quoter Quoter,
) *DesignOrderService {
	return &DesignOrderService{
		orderRepo:   orderRepo,
		assetRepo:   assetRepo,
		productRepo: productRepo,
		storage:     storage,
		quoter:      quoter,
		config:      DefaultDesignOrderServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *DesignOrderService) SetConfig(config DesignOrderServiceConfig) {
	s.config = config
}

// Submit creates a design order from a parsed multipart submission: uploads
// the design file, builds the placements, computes the authoritative price,
// and persists the order in pending status.
func (s *DesignOrderService) Submit(ctx context.Context, userID uuid.UUID, req SubmitDesignOrderRequest) (*DesignOrderResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for ordering")
	}
	if !product.Customizable {
		return nil, shared.NewDomainError("NOT_CUSTOMIZABLE", "Product does not support custom designs")
	}

	designType := design.DesignType(req.DesignType)
	if !designType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DESIGN_TYPE", "Design type must be printing or embroidery")
	}

	if req.File == nil || req.FileName == "" {
		return nil, shared.ErrDesignRequired
	}
	if !isAllowedDesignContentType(req.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed for design uploads", req.ContentType))
	}
	if req.FileSize > design.MaxDesignFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Design file cannot exceed 20MB")
	}

	placements, err := s.buildPlacements(req.Placements, product.ProductType)
	if err != nil {
		return nil, err
	}

	data, err := readDesignFile(req.File, req.FileSize)
	if err != nil {
		return nil, err
	}

	storageKey := s.generateStorageKey(userID, req.FileName)

	asset, err := design.NewAsset(userID, req.FileName, int64(len(data)), req.ContentType, storageKey)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Upload(ctx, storageKey, data, req.ContentType); err != nil {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store design file")
	}
	if err := asset.Confirm(); err != nil {
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, asset); err != nil {
		_ = s.storage.DeleteObject(ctx, storageKey)
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := design.NewDesignOrder(
		userID,
		orderNumber,
		product,
		designType,
		req.FileName,
		req.ContentType,
		int64(len(data)),
		storageKey,
		placements,
		req.Quantity,
		req.SpecialInstructions,
	)
	if err != nil {
		return nil, err
	}

	if err := s.reprice(ctx, order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		_ = s.storage.DeleteObject(ctx, storageKey)
		return nil, err
	}

	response := ToDesignOrderResponse(order)
	s.enrichWithDesignURL(ctx, &response, order)
	return &response, nil
}

// Get retrieves a design order owned by the given user
func (s *DesignOrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*DesignOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToDesignOrderResponse(order)
	s.enrichWithDesignURL(ctx, &response, order)
	return &response, nil
}

// GetByID retrieves any design order by ID (admin)
func (s *DesignOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*DesignOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToDesignOrderResponse(order)
	s.enrichWithDesignURL(ctx, &response, order)
	return &response, nil
}

// GetByOrderNumber retrieves a design order by its order number (admin)
func (s *DesignOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*DesignOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	response := ToDesignOrderResponse(order)
	s.enrichWithDesignURL(ctx, &response, order)
	return &response, nil
}

// ListForUser retrieves design orders owned by the given user
func (s *DesignOrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter DesignOrderListFilter) ([]DesignOrderResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	orders, err := s.orderRepo.FindAllForUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDesignOrderResponses(orders), total, nil
}

// List retrieves all design orders matching the filter (admin)
func (s *DesignOrderService) List(ctx context.Context, filter DesignOrderListFilter) ([]DesignOrderResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDesignOrderResponses(orders), total, nil
}

// AddPlacement adds a placement slot to a pending order and reprices it
func (s *DesignOrderService) AddPlacement(ctx context.Context, userID, orderID uuid.UUID, req AddPlacementRequest) (*DesignOrderResponse, error) {
	return s.mutatePending(ctx, userID, orderID, func(order *design.DesignOrder) error {
		_, err := order.AddPlacement(design.PlacementPosition(req.Position))
		return err
	})
}

// UpdatePlacement adjusts the geometry of a placement on a pending order
func (s *DesignOrderService) UpdatePlacement(ctx context.Context, userID, orderID, placementID uuid.UUID, req UpdatePlacementRequest) (*DesignOrderResponse, error) {
	return s.mutatePending(ctx, userID, orderID, func(order *design.DesignOrder) error {
		current := order.GetPlacement(placementID)
		if current == nil {
			return shared.NewDomainError("PLACEMENT_NOT_FOUND", "Placement not found on this order")
		}

		width := current.WidthCM
		height := current.HeightCM
		rotation := current.Rotation
		if req.WidthCM != nil {
			width = *req.WidthCM
		}
		if req.HeightCM != nil {
			height = *req.HeightCM
		}
		if req.Rotation != nil {
			rotation = *req.Rotation
		}

		if err := order.UpdatePlacement(placementID, width, height, rotation); err != nil {
			return err
		}

		if req.OffsetX != nil || req.OffsetY != nil {
			x := current.OffsetX
			y := current.OffsetY
			if req.OffsetX != nil {
				x = *req.OffsetX
			}
			if req.OffsetY != nil {
				y = *req.OffsetY
			}
			order.GetPlacement(placementID).SetOffset(x, y)
		}

		return nil
	})
}

// RemovePlacement removes a placement from a pending order and reprices it
func (s *DesignOrderService) RemovePlacement(ctx context.Context, userID, orderID, placementID uuid.UUID) (*DesignOrderResponse, error) {
	return s.mutatePending(ctx, userID, orderID, func(order *design.DesignOrder) error {
		return order.RemovePlacement(placementID)
	})
}

// UpdateQuantity changes the quantity of a pending order and reprices it
func (s *DesignOrderService) UpdateQuantity(ctx context.Context, userID, orderID uuid.UUID, req UpdateQuantityRequest) (*DesignOrderResponse, error) {
	return s.mutatePending(ctx, userID, orderID, func(order *design.DesignOrder) error {
		return order.SetQuantity(req.Quantity)
	})
}

// Cancel cancels a design order on behalf of its owner. Customers can only
// cancel while the order is still pending; later stages require an admin.
func (s *DesignOrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID, req CancelRequest) (*DesignOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != design.DesignOrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE",
			"Orders can only be cancelled by the customer while pending")
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToDesignOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves a design order to a new status (admin). Transitions are
// validated by the order itself; terminal orders reject every target.
func (s *DesignOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*DesignOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(design.DesignOrderStatus(req.Status), req.CancelReason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToDesignOrderResponse(order)
	return &response, nil
}

// PositionsForProduct returns the placement slots offered for a product,
// flagging the ones that carry a premium charge
func (s *DesignOrderService) PositionsForProduct(ctx context.Context, productID uuid.UUID) ([]PositionResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	positions := design.PositionsForProductType(product.ProductType)
	responses := make([]PositionResponse, len(positions))
	for i, p := range positions {
		responses[i] = PositionResponse{
			Position: p.String(),
			Premium:  isPremiumPosition(p),
		}
	}
	return responses, nil
}

// CountByStatus returns design order counts grouped by status (admin dashboard)
func (s *DesignOrderService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	total := int64(0)

	for _, status := range []design.DesignOrderStatus{
		design.DesignOrderStatusPending,
		design.DesignOrderStatusConfirmed,
		design.DesignOrderStatusInProgress,
		design.DesignOrderStatusCompleted,
		design.DesignOrderStatusCancelled,
	} {
		count, err := s.orderRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts[status.String()] = count
		total += count
	}

	counts["total"] = total
	return counts, nil
}

// mutatePending applies a mutation to a pending order owned by the user,
// reprices it, and saves
func (s *DesignOrderService) mutatePending(ctx context.Context, userID, orderID uuid.UUID, mutate func(*design.DesignOrder) error) (*DesignOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if err := mutate(order); err != nil {
		return nil, err
	}

	if err := s.reprice(ctx, order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToDesignOrderResponse(order)
	s.enrichWithDesignURL(ctx, &response, order)
	return &response, nil
}

// reprice recomputes the authoritative price from the order's current
// placements and quantity
func (s *DesignOrderService) reprice(ctx context.Context, order *design.DesignOrder) error {
	result, err := s.quoter.Quote(ctx, pricingContextFor(order))
	if err != nil {
		return err
	}

	return order.SetPricing(
		valueobject.NewMoneyUSD(result.UnitPrice),
		valueobject.NewMoneyUSD(result.TotalPrice),
	)
}

func (s *DesignOrderService) buildPlacements(requests []PlacementRequest, productType catalog.ProductType) ([]*design.Placement, error) {
	if len(requests) == 0 {
		return nil, shared.ErrPlacementRequired
	}

	placements := make([]*design.Placement, 0, len(requests))
	for _, req := range requests {
		placement, err := design.NewPlacement(design.PlacementPosition(req.Position), productType)
		if err != nil {
			return nil, err
		}

		if req.WidthCM != nil || req.HeightCM != nil {
			width := placement.WidthCM
			height := placement.HeightCM
			if req.WidthCM != nil {
				width = *req.WidthCM
			}
			if req.HeightCM != nil {
				height = *req.HeightCM
			}
			placement.SetDimensions(width, height)
		}
		if req.Rotation != nil {
			placement.SetRotation(*req.Rotation)
		}
		if req.OffsetX != nil || req.OffsetY != nil {
			x := placement.OffsetX
			y := placement.OffsetY
			if req.OffsetX != nil {
				x = *req.OffsetX
			}
			if req.OffsetY != nil {
				y = *req.OffsetY
			}
			placement.SetOffset(x, y)
		}

		placements = append(placements, placement)
	}

	return placements, nil
}

func (s *DesignOrderService) generateStorageKey(userID uuid.UUID, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("designs/%s/%s%s", userID.String(), uuid.New().String(), ext)
}

func (s *DesignOrderService) enrichWithDesignURL(ctx context.Context, response *DesignOrderResponse, order *design.DesignOrder) {
	url, _, err := s.storage.GenerateDownloadURL(ctx, order.DesignStorageKey, s.config.DownloadURLExpiry)
	if err == nil {
		response.DesignFileURL = url
	}
}

func (s *DesignOrderService) toDomainFilter(filter DesignOrderListFilter) shared.Filter {
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
	if filter.DesignType != "" {
		domainFilter.Filters["design_type"] = filter.DesignType
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}

	return domainFilter
}

// pricingContextFor builds the pricing context from an order's current state
func pricingContextFor(order *design.DesignOrder) strategy.PricingContext {
	specs := make([]strategy.PlacementSpec, len(order.Placements))
	for i := range order.Placements {
		specs[i] = strategy.PlacementSpec{
			Position: order.Placements[i].Position.String(),
			WidthCM:  order.Placements[i].WidthCM,
			HeightCM: order.Placements[i].HeightCM,
		}
	}

	return strategy.PricingContext{
		ProductID:  order.ProductID.String(),
		DesignType: order.DesignType.String(),
		BasePrice:  order.BasePrice,
		Placements: specs,
		Quantity:   decimal.NewFromInt(int64(order.Quantity)),
		Currency:   string(valueobject.USD),
	}
}

func isPremiumPosition(p design.PlacementPosition) bool {
	switch p {
	case design.PositionSleeveLeft, design.PositionSleeveRight,
		design.PositionCapFront, design.PositionCapBack,
		design.PositionCapSideLeft, design.PositionCapSideRight:
		return true
	}
	return false
}

func isAllowedDesignContentType(contentType string) bool {
	return AllowedDesignContentTypes[strings.ToLower(contentType)]
}

// readDesignFile reads the uploaded file, enforcing the size limit even when
// the declared size is wrong
func readDesignFile(r io.Reader, declaredSize int64) ([]byte, error) {
	limit := int64(design.MaxDesignFileSize)
	if declaredSize > 0 && declaredSize < limit {
		limit = declaredSize
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_READ_FAILED", "Failed to read design file")
	}
	if int64(len(data)) > limit {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Design file exceeds the declared size")
	}
	if len(data) == 0 {
		return nil, shared.ErrDesignRequired
	}

	return data, nil
}
