package promo

import (
	"context"
	"testing"
	"time"

	"lashstudio/database/repository"
	"lashstudio/models"
	"lashstudio/utils"
)

type memPromoRepo struct {
	codes map[string]*models.PromoCode
}

func (m *memPromoRepo) GetByCode(_ context.Context, code string) (*models.PromoCode, error) {
	p, ok := m.codes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPromoRepo) Create(_ context.Context, p *models.PromoCode) error {
	if _, ok := m.codes[p.Code]; ok {
		return repository.ErrDuplicate
	}
	m.codes[p.Code] = p
	return nil
}

func (m *memPromoRepo) List(context.Context) ([]models.PromoCode, error) {
	out := []models.PromoCode{}
	for _, p := range m.codes {
		out = append(out, *p)
	}
	return out, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEvaluator(promos ...models.PromoCode) *DefaultEvaluator {
	repo := &memPromoRepo{codes: map[string]*models.PromoCode{}}
	for i := range promos {
		repo.codes[promos[i].Code] = &promos[i]
	}
	return &DefaultEvaluator{Repo: repo, Now: func() time.Time { return fixedNow }}
}

func save20() models.PromoCode {
	return models.PromoCode{
		Code:          "SAVE20",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 20,
		ValidUntil:    fixedNow.Add(30 * 24 * time.Hour),
		UsageLimit:    100,
		IsActive:      true,
	}
}

func TestEvaluatePercentageCaseInsensitive(t *testing.T) {
	e := newEvaluator(save20())

	res, err := e.Evaluate(context.Background(), " save20 ", 100, "svc-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Discount != 20 || res.Total != 80 {
		t.Fatalf("got discount %.2f total %.2f, want 20 and 80", res.Discount, res.Total)
	}
}

func TestEvaluateWelcome10Scenario(t *testing.T) {
	e := newEvaluator(models.PromoCode{
		Code:           "WELCOME10",
		DiscountType:   models.DiscountPercentage,
		DiscountValue:  10,
		ValidUntil:     fixedNow.Add(24 * time.Hour),
		UsageLimit:     100,
		UsageCount:     99,
		MinOrderAmount: 50,
		IsActive:       true,
	})

	res, err := e.Evaluate(context.Background(), "WELCOME10", 120, "classic")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Discount != 12 || res.Total != 108 {
		t.Fatalf("got discount %.2f total %.2f, want 12 and 108", res.Discount, res.Total)
	}
	if res.Promo.UsageCount != 99 {
		t.Fatalf("evaluation must not change usage, got %d", res.Promo.UsageCount)
	}
}

func TestEvaluateRejections(t *testing.T) {
	base := save20()

	expired := base
	expired.Code = "OLD"
	expired.ValidUntil = fixedNow.Add(-time.Hour)

	exhausted := base
	exhausted.Code = "USEDUP"
	exhausted.UsageCount = 100

	minimum := base
	minimum.Code = "BIGSPEND"
	minimum.MinOrderAmount = 150

	scoped := base
	scoped.Code = "VOLUME"
	scoped.ApplicableServices = []string{"volume"}

	future := base
	future.Code = "SOON"
	future.ValidFrom = fixedNow.Add(time.Hour)

	inactive := base
	inactive.Code = "PAUSED"
	inactive.IsActive = false

	// Expired and exhausted at once: expiration is checked first.
	both := base
	both.Code = "BOTH"
	both.ValidUntil = fixedNow.Add(-time.Hour)
	both.UsageCount = 100

	e := newEvaluator(expired, exhausted, minimum, scoped, future, inactive, both)

	cases := []struct {
		code string
		kind utils.ErrorKind
		want string
	}{
		{"OLD", utils.KindValidation, CodeExpired},
		{"USEDUP", utils.KindValidation, CodeLimitReached},
		{"BIGSPEND", utils.KindValidation, CodeBelowMinimum},
		{"VOLUME", utils.KindValidation, CodeNotApplicable},
		{"SOON", utils.KindValidation, CodeNotYetValid},
		{"PAUSED", utils.KindNotFound, CodeNotFound},
		{"MISSING", utils.KindNotFound, CodeNotFound},
		{"BOTH", utils.KindValidation, CodeExpired},
	}
	for _, tc := range cases {
		_, err := e.Evaluate(context.Background(), tc.code, 100, "classic")
		if err == nil {
			t.Fatalf("%s: expected rejection", tc.code)
		}
		if utils.KindOf(err) != tc.kind || utils.CodeOf(err) != tc.want {
			t.Fatalf("%s: got %v, want kind %v code %s", tc.code, err, tc.kind, tc.want)
		}
	}
}

func TestComputeDiscountBounds(t *testing.T) {
	cases := []struct {
		name     string
		promo    models.PromoCode
		subtotal float64
		want     float64
	}{
		{"fixed below subtotal", models.PromoCode{DiscountType: models.DiscountFixed, DiscountValue: 25}, 120, 25},
		{"fixed above subtotal", models.PromoCode{DiscountType: models.DiscountFixed, DiscountValue: 200}, 120, 120},
		{"percentage rounds to cents", models.PromoCode{DiscountType: models.DiscountPercentage, DiscountValue: 15}, 99.99, 15},
		{"percentage capped", models.PromoCode{DiscountType: models.DiscountPercentage, DiscountValue: 50, MaxDiscountAmount: 30}, 180, 30},
		{"zero subtotal", models.PromoCode{DiscountType: models.DiscountFixed, DiscountValue: 10}, 0, 0},
	}
	for _, tc := range cases {
		got := ComputeDiscount(&tc.promo, tc.subtotal)
		if got != tc.want {
			t.Fatalf("%s: got %.2f, want %.2f", tc.name, got, tc.want)
		}
		if got < 0 || got > tc.subtotal {
			t.Fatalf("%s: discount %.2f outside [0, %.2f]", tc.name, got, tc.subtotal)
		}
	}
}
