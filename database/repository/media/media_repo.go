package mediaRepo

import (
	"context"
	"fmt"
	"time"

	"lashstudio/database"
	"lashstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MediaRepository stores media library records.
type MediaRepository interface {
	Create(ctx context.Context, item *models.MediaItem) error
	List(ctx context.Context, usageContext string) ([]models.MediaItem, error)
}

type MongoMediaRepo struct {
	coll *mongo.Collection
}

func NewMongoMediaRepo() MediaRepository {
	return &MongoMediaRepo{coll: database.DB().Collection("mediaLibrary")}
}

func (r *MongoMediaRepo) Create(ctx context.Context, item *models.MediaItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to record media item: %w", err)
	}
	return nil
}

func (r *MongoMediaRepo) List(ctx context.Context, usageContext string) ([]models.MediaItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if usageContext != "" {
		filter["usageContext"] = usageContext
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.MediaItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode media: %w", err)
	}
	return items, nil
}
