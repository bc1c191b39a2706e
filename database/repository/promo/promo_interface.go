package promoRepo

import (
	"context"

	"lashstudio/models"
)

// PromoRepository defines data access for promo codes. Usage counts are only
// incremented by the appointment repository when a payment settles.
type PromoRepository interface {
	// GetByCode looks up a code; callers pass it already normalized to upper case.
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
	Create(ctx context.Context, promo *models.PromoCode) error
	List(ctx context.Context) ([]models.PromoCode, error)
}
