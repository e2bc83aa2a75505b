package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
)

// PromotionService handles promotion business operations
type PromotionService struct {
	promotionRepo catalog.PromotionRepository
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promotionRepo catalog.PromotionRepository) *PromotionService {
	return &PromotionService{promotionRepo: promotionRepo}
}

// List returns all promotions
func (s *PromotionService) List(ctx context.Context) ([]PromotionResponse, error) {
	promotions, err := s.promotionRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToPromotionResponses(promotions), nil
}

// Create creates a new promotion
func (s *PromotionService) Create(ctx context.Context, req CreatePromotionRequest) (*PromotionResponse, error) {
	promotion, err := catalog.NewPromotion(req.Description, req.Discount)
	if err != nil {
		return nil, err
	}
	if err := s.promotionRepo.Save(ctx, promotion); err != nil {
		return nil, err
	}
	response := ToPromotionResponses([]catalog.Promotion{*promotion})[0]
	return &response, nil
}
