package promo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"lashstudio/database/repository"
	promoRepo "lashstudio/database/repository/promo"
	"lashstudio/models"
	"lashstudio/utils"
)

// Result is a successful evaluation. Discount is within [0, subtotal].
type Result struct {
	Promo    *models.PromoCode
	Subtotal float64
	Discount float64
	Total    float64
}

// Evaluator validates promo codes and computes discounts. It never changes usage counts.
type Evaluator interface {
	Evaluate(ctx context.Context, code string, subtotal float64, serviceID string) (*Result, error)
}

type DefaultEvaluator struct {
	Repo promoRepo.PromoRepository
	Now  func() time.Time
}

func (e *DefaultEvaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

// NormalizeCode makes lookups case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (e *DefaultEvaluator) Evaluate(ctx context.Context, code string, subtotal float64, serviceID string) (*Result, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, errNotFound()
	}
	if subtotal < 0 {
		return nil, utils.NewValidationError("", "subtotal must not be negative")
	}

	p, err := e.Repo.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNotFound()
		}
		return nil, utils.NewInternalError("promo lookup failed", err)
	}
	if !p.IsActive {
		return nil, errNotFound()
	}

	if err := Check(p, subtotal, serviceID, e.now()); err != nil {
		return nil, err
	}

	discount := ComputeDiscount(p, subtotal)
	return &Result{
		Promo:    p,
		Subtotal: subtotal,
		Discount: discount,
		Total:    utils.RoundCents(subtotal - discount),
	}, nil
}

// Check runs the validity checks in order: validity window, usage limit,
// minimum order, service applicability. The first failing check wins.
func Check(p *models.PromoCode, subtotal float64, serviceID string, now time.Time) error {
	if !p.ValidFrom.IsZero() && now.Before(p.ValidFrom) {
		return rejection(CodeNotYetValid, fmt.Sprintf("promo code %s is not valid yet", p.Code))
	}
	if !p.ValidUntil.IsZero() && now.After(p.ValidUntil) {
		return rejection(CodeExpired, fmt.Sprintf("promo code %s has expired", p.Code))
	}
	if p.UsageCount >= p.UsageLimit {
		return rejection(CodeLimitReached, fmt.Sprintf("promo code %s has reached its usage limit", p.Code))
	}
	if subtotal < p.MinOrderAmount {
		return rejection(CodeBelowMinimum, fmt.Sprintf("order total must be at least %.2f", p.MinOrderAmount))
	}
	if len(p.ApplicableServices) > 0 && !contains(p.ApplicableServices, serviceID) {
		return rejection(CodeNotApplicable, fmt.Sprintf("promo code %s does not apply to this service", p.Code))
	}
	return nil
}

// ComputeDiscount returns the discount for subtotal. Percentage discounts are
// rounded to cents; the result is capped by MaxDiscountAmount when set and never
// exceeds the subtotal.
func ComputeDiscount(p *models.PromoCode, subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	var discount float64
	switch p.DiscountType {
	case models.DiscountPercentage:
		discount = math.Round(subtotal*p.DiscountValue) / 100
	case models.DiscountFixed:
		discount = math.Min(p.DiscountValue, subtotal)
	}
	if p.MaxDiscountAmount > 0 {
		discount = math.Min(discount, p.MaxDiscountAmount)
	}
	return utils.RoundCents(math.Max(0, math.Min(discount, subtotal)))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
