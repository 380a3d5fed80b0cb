package design

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopcraft/backend/internal/domain/catalog"
	"github.com/shopcraft/backend/internal/domain/design"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/shopcraft/backend/internal/domain/shared/strategy"
	"github.com/shopcraft/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteCache caches price estimates keyed by a request fingerprint.
// Get returns (nil, nil) on a miss; Set failures are non-fatal.
type QuoteCache interface {
	Get(ctx context.Context, key string) (*strategy.PricingResult, error)
	Set(ctx context.Context, key string, result strategy.PricingResult, ttl time.Duration) error
}

// PricingService computes non-binding price estimates for the storefront.
// Identical requests hit the cache; the quote itself is deterministic, so a
// cached result is always as good as a fresh one until the product price
// changes, which is why the product base price is part of the cache key.
type PricingService struct {
	productRepo catalog.ProductRepository
	quoter      Quoter
	cache       QuoteCache
	cacheTTL    time.Duration
}

// NewPricingService creates a new PricingService. The cache is optional;
// pass nil to disable estimate caching.
func NewPricingService(productRepo catalog.ProductRepository, quoter Quoter, cache QuoteCache) *PricingService {
	return &PricingService{
		productRepo: productRepo,
		quoter:      quoter,
		cache:       cache,
		cacheTTL:    15 * time.Minute,
	}
}

// SetCacheTTL sets the estimate cache TTL
func (s *PricingService) SetCacheTTL(ttl time.Duration) {
	s.cacheTTL = ttl
}

// Estimate computes a price estimate for a design configuration without
// creating an order
func (s *PricingService) Estimate(ctx context.Context, req PriceEstimateRequest) (*PriceEstimateResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if !product.Customizable {
		return nil, shared.NewDomainError("NOT_CUSTOMIZABLE", "Product does not support custom designs")
	}

	designType := design.DesignType(req.DesignType)
	if !designType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DESIGN_TYPE", "Design type must be printing or embroidery")
	}
	if req.Quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	specs, err := s.buildSpecs(req.Placements, product.ProductType)
	if err != nil {
		return nil, err
	}

	key := estimateCacheKey(req, product.BasePrice, specs)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil && cached != nil {
			response := ToEstimateResponse(req, product.BasePrice, *cached)
			return &response, nil
		}
	}

	result, err := s.quoter.Quote(ctx, strategy.PricingContext{
		ProductID:  product.ID.String(),
		DesignType: req.DesignType,
		BasePrice:  product.BasePrice,
		Placements: specs,
		Quantity:   decimal.NewFromInt(int64(req.Quantity)),
		Currency:   string(valueobject.USD),
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	}

	response := ToEstimateResponse(req, product.BasePrice, result)
	return &response, nil
}

// buildSpecs validates the requested placements against the product type and
// normalizes them through the domain's geometry clamping
func (s *PricingService) buildSpecs(requests []PlacementRequest, productType catalog.ProductType) ([]strategy.PlacementSpec, error) {
	if len(requests) == 0 {
		return nil, shared.ErrPlacementRequired
	}

	specs := make([]strategy.PlacementSpec, 0, len(requests))
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

		specs = append(specs, strategy.PlacementSpec{
			Position: placement.Position.String(),
			WidthCM:  placement.WidthCM,
			HeightCM: placement.HeightCM,
		})
	}

	return specs, nil
}

// estimateCacheKey fingerprints the estimate inputs. The product base price
// is included so price changes naturally invalidate cached quotes.
func estimateCacheKey(req PriceEstimateRequest, basePrice decimal.Decimal, specs []strategy.PlacementSpec) string {
	type keyPlacement struct {
		Position string `json:"p"`
		Width    string `json:"w"`
		Height   string `json:"h"`
	}
	placements := make([]keyPlacement, len(specs))
	for i, spec := range specs {
		placements[i] = keyPlacement{
			Position: spec.Position,
			Width:    spec.WidthCM.String(),
			Height:   spec.HeightCM.String(),
		}
	}

	payload, _ := json.Marshal(struct {
		ProductID  uuid.UUID      `json:"product_id"`
		DesignType string         `json:"design_type"`
		Quantity   int            `json:"quantity"`
		BasePrice  string         `json:"base_price"`
		Placements []keyPlacement `json:"placements"`
	}{
		ProductID:  req.ProductID,
		DesignType: req.DesignType,
		Quantity:   req.Quantity,
		BasePrice:  basePrice.String(),
		Placements: placements,
	})

	sum := sha256.Sum256(payload)
	return "pricing:estimate:" + hex.EncodeToString(sum[:])
}
