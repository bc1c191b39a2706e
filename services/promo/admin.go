package promo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lashstudio/database/repository"
	promoRepo "lashstudio/database/repository/promo"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateInput is the admin payload for a new promo code.
type CreateInput struct {
	Code               string              `json:"code" binding:"required"`
	Description        string              `json:"description"`
	DiscountType       models.DiscountType `json:"discountType" binding:"required,discounttype"`
	DiscountValue      float64             `json:"discountValue" binding:"gt=0"`
	MaxDiscountAmount  float64             `json:"maxDiscountAmount" binding:"gte=0"`
	ValidFrom          *time.Time          `json:"validFrom"`
	ValidUntil         time.Time           `json:"validUntil" binding:"required"`
	UsageLimit         int                 `json:"usageLimit" binding:"gt=0"`
	MinOrderAmount     float64             `json:"minOrderAmount" binding:"gte=0"`
	ApplicableServices []string            `json:"applicableServices"`
}

// AdminService manages promo codes.
type AdminService interface {
	Create(ctx context.Context, p access.Principal, in CreateInput) (*models.PromoCode, error)
	List(ctx context.Context, p access.Principal) ([]models.PromoCode, error)
}

type DefaultAdminService struct {
	Repo   promoRepo.PromoRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultAdminService) Create(ctx context.Context, p access.Principal, in CreateInput) (*models.PromoCode, error) {
	if err := access.Authorize(p, access.PromoManage, ""); err != nil {
		return nil, err
	}
	code := NormalizeCode(in.Code)
	if code == "" {
		return nil, utils.NewValidationError("", "code is required")
	}
	if in.DiscountType == models.DiscountPercentage && in.DiscountValue > 100 {
		return nil, utils.NewValidationError("", "percentage discount cannot exceed 100")
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	validFrom := now
	if in.ValidFrom != nil {
		validFrom = in.ValidFrom.UTC()
	}
	if !in.ValidUntil.After(validFrom) {
		return nil, utils.NewValidationError("", "validUntil must be after validFrom")
	}
	services := in.ApplicableServices
	if services == nil {
		services = []string{}
	}

	promo := &models.PromoCode{
		ID:                 uuid.New().String(),
		Code:               code,
		Description:        in.Description,
		DiscountType:       in.DiscountType,
		DiscountValue:      in.DiscountValue,
		MaxDiscountAmount:  in.MaxDiscountAmount,
		ValidFrom:          validFrom,
		ValidUntil:         in.ValidUntil.UTC(),
		UsageLimit:         in.UsageLimit,
		MinOrderAmount:     in.MinOrderAmount,
		ApplicableServices: services,
		IsActive:           true,
		CreatedBy:          p.UserID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.Repo.Create(ctx, promo); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewConflictError("promo_exists", fmt.Sprintf("promo code %s already exists", code))
		}
		return nil, utils.NewInternalError("failed to create promo code", err)
	}
	s.Logger.Info("promo code created", zap.String("code", code), zap.String("by", p.UserID))
	return promo, nil
}

func (s *DefaultAdminService) List(ctx context.Context, p access.Principal) ([]models.PromoCode, error) {
	if err := access.Authorize(p, access.PromoManage, ""); err != nil {
		return nil, err
	}
	promos, err := s.Repo.List(ctx)
	if err != nil {
		return nil, utils.NewInternalError("failed to list promo codes", err)
	}
	return promos, nil
}
