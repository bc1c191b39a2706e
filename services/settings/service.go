package settings

import (
	"context"
	"errors"
	"time"

	"lashstudio/database/repository"
	settingsRepo "lashstudio/database/repository/settings"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.uber.org/zap"
)

type SettingsService interface {
	// Public returns the sanitized settings, served from cache when possible.
	Public(ctx context.Context) (models.SiteSettings, error)
	// Update merges top-level keys and returns the full document.
	Update(ctx context.Context, p access.Principal, fields map[string]interface{}) (models.SiteSettings, error)
}

type DefaultSettingsService struct {
	Repo   settingsRepo.SettingsRepository
	Cache  Cache
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultSettingsService) Public(ctx context.Context) (models.SiteSettings, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx)
		if err != nil {
			s.Logger.Warn("settings cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	doc, err := s.Repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewInternalError("failed to load site settings", err)
		}
		doc = models.SiteSettings{}
	}
	public := Sanitize(doc)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, public); err != nil {
			s.Logger.Warn("settings cache write failed", zap.Error(err))
		}
	}
	return public, nil
}

func (s *DefaultSettingsService) Update(ctx context.Context, p access.Principal, fields map[string]interface{}) (models.SiteSettings, error) {
	if err := access.Authorize(p, access.SettingsUpdate, ""); err != nil {
		return nil, err
	}
	for _, k := range []string{"id", "_id", "updatedAt", "updatedBy"} {
		delete(fields, k)
	}
	if len(fields) == 0 {
		return nil, utils.NewValidationError("", "no settings to update")
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	doc, err := s.Repo.Merge(ctx, fields, p.UserID, now)
	if err != nil {
		return nil, utils.NewInternalError("failed to update site settings", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			s.Logger.Warn("settings cache invalidation failed", zap.Error(err))
		}
	}
	s.Logger.Info("site settings updated", zap.String("updatedBy", p.UserID), zap.Int("keys", len(fields)))
	return doc, nil
}
