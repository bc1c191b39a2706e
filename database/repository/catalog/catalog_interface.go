package catalogRepo

import (
	"context"

	"lashstudio/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ListFilter narrows a catalog listing. Inactive packages are excluded unless IncludeInactive is set.
type ListFilter struct {
	Category        string
	FeaturedOnly    bool
	IncludeInactive bool
}

// CatalogRepository defines data access for service packages.
type CatalogRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.ServicePackage, error)
	GetByID(ctx context.Context, id string) (*models.ServicePackage, error)
	Create(ctx context.Context, pkg *models.ServicePackage) error
	UpdateFields(ctx context.Context, id string, fields bson.M) (*models.ServicePackage, error)
}
