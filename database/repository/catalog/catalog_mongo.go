package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lashstudio/database"
	"lashstudio/database/repository"
	"lashstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	coll *mongo.Collection
}

func NewMongoCatalogRepo(logger *zap.Logger) CatalogRepository {
	repo := &MongoCatalogRepo{coll: database.DB().Collection("servicePackages")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("catalog repo: index creation failed", zap.Error(err))
	}
	return repo
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "displayOrder", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepo) List(ctx context.Context, filter ListFilter) ([]models.ServicePackage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if !filter.IncludeInactive {
		query["isActive"] = true
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.FeaturedOnly {
		query["isFeatured"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list service packages: %w", err)
	}
	defer cursor.Close(ctx)

	pkgs := []models.ServicePackage{}
	if err := cursor.All(ctx, &pkgs); err != nil {
		return nil, fmt.Errorf("failed to decode service packages: %w", err)
	}
	return pkgs, nil
}

func (r *MongoCatalogRepo) GetByID(ctx context.Context, id string) (*models.ServicePackage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pkg models.ServicePackage
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service package %s: %w", id, err)
	}
	return &pkg, nil
}

func (r *MongoCatalogRepo) Create(ctx context.Context, pkg *models.ServicePackage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, pkg); err != nil {
		return fmt.Errorf("failed to create service package: %w", err)
	}
	return nil
}

// UpdateFields never touches bookingCount or totalRevenue; those only move through $inc on completion.
func (r *MongoCatalogRepo) UpdateFields(ctx context.Context, id string, fields bson.M) (*models.ServicePackage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delete(fields, "bookingCount")
	delete(fields, "totalRevenue")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var pkg models.ServicePackage
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&pkg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update service package %s: %w", id, err)
	}
	return &pkg, nil
}
