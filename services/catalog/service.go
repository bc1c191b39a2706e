package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"lashstudio/database/repository"
	catalogRepo "lashstudio/database/repository/catalog"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const CodeServiceNotFound = "service_not_found"

// PackageInput creates a service package.
type PackageInput struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Price           float64  `json:"price" binding:"gte=0"`
	DurationMinutes int      `json:"durationMinutes" binding:"required,gt=0"`
	ImageURL        string   `json:"imageUrl"`
	Features        []string `json:"features"`
	Category        string   `json:"category"`
	IsFeatured      bool     `json:"isFeatured"`
	DisplayOrder    int      `json:"displayOrder"`
	IsActive        *bool    `json:"isActive"`
}

// PackageUpdate changes a service package; nil fields are left alone. Booking
// counters are never writable.
type PackageUpdate struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Price           *float64  `json:"price" binding:"omitempty,gte=0"`
	DurationMinutes *int      `json:"durationMinutes" binding:"omitempty,gt=0"`
	ImageURL        *string   `json:"imageUrl"`
	Features        *[]string `json:"features"`
	Category        *string   `json:"category"`
	IsFeatured      *bool     `json:"isFeatured"`
	DisplayOrder    *int      `json:"displayOrder"`
	IsActive        *bool     `json:"isActive"`
}

type CatalogService interface {
	List(ctx context.Context, filter catalogRepo.ListFilter) ([]models.ServicePackage, error)
	Create(ctx context.Context, p access.Principal, in PackageInput) (*models.ServicePackage, error)
	Update(ctx context.Context, p access.Principal, id string, in PackageUpdate) (*models.ServicePackage, error)
}

type DefaultCatalogService struct {
	Repo   catalogRepo.CatalogRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultCatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// List returns packages ordered by displayOrder. Inactive packages are only
// included when the filter asks for them.
func (s *DefaultCatalogService) List(ctx context.Context, filter catalogRepo.ListFilter) ([]models.ServicePackage, error) {
	pkgs, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, utils.NewInternalError("failed to list services", err)
	}
	return pkgs, nil
}

func (s *DefaultCatalogService) Create(ctx context.Context, p access.Principal, in PackageInput) (*models.ServicePackage, error) {
	if err := access.Authorize(p, access.CatalogWrite, ""); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.NewValidationError("", "name is required")
	}
	if in.Price < 0 || in.DurationMinutes <= 0 {
		return nil, utils.NewValidationError("", "price must not be negative and duration must be positive")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	features := in.Features
	if features == nil {
		features = []string{}
	}
	now := s.now()
	pkg := &models.ServicePackage{
		ID:              uuid.New().String(),
		Name:            name,
		Description:     in.Description,
		Price:           utils.RoundCents(in.Price),
		DurationMinutes: in.DurationMinutes,
		ImageURL:        in.ImageURL,
		Features:        features,
		Category:        strings.TrimSpace(in.Category),
		IsFeatured:      in.IsFeatured,
		DisplayOrder:    in.DisplayOrder,
		IsActive:        active,
		CreatedBy:       p.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, pkg); err != nil {
		return nil, utils.NewInternalError("failed to create service", err)
	}
	s.Logger.Info("service package created", zap.String("serviceId", pkg.ID), zap.String("name", pkg.Name))
	return pkg, nil
}

func (s *DefaultCatalogService) Update(ctx context.Context, p access.Principal, id string, in PackageUpdate) (*models.ServicePackage, error) {
	if err := access.Authorize(p, access.CatalogWrite, ""); err != nil {
		return nil, err
	}

	fields := bson.M{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, utils.NewValidationError("", "name must not be empty")
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, utils.NewValidationError("", "price must not be negative")
		}
		fields["price"] = utils.RoundCents(*in.Price)
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return nil, utils.NewValidationError("", "duration must be positive")
		}
		fields["durationMinutes"] = *in.DurationMinutes
	}
	if in.ImageURL != nil {
		fields["imageUrl"] = *in.ImageURL
	}
	if in.Features != nil {
		fields["features"] = *in.Features
	}
	if in.Category != nil {
		fields["category"] = strings.TrimSpace(*in.Category)
	}
	if in.IsFeatured != nil {
		fields["isFeatured"] = *in.IsFeatured
	}
	if in.DisplayOrder != nil {
		fields["displayOrder"] = *in.DisplayOrder
	}
	if in.IsActive != nil {
		fields["isActive"] = *in.IsActive
	}
	if len(fields) == 0 {
		return nil, utils.NewValidationError("", "no fields to update")
	}
	fields["updatedAt"] = s.now()

	pkg, err := s.Repo.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError(CodeServiceNotFound, "service not found")
		}
		return nil, utils.NewInternalError("failed to update service", err)
	}
	return pkg, nil
}
