package contentRepo

import (
	"context"
	"fmt"
	"time"

	"lashstudio/database"
	"lashstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ContentRepository stores page content blocks and testimonials.
type ContentRepository interface {
	ListBlocks(ctx context.Context, pageSlug string) ([]models.ContentBlock, error)
	CreateBlock(ctx context.Context, block *models.ContentBlock) error
	ListTestimonials(ctx context.Context, featuredOnly bool) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
}

type MongoContentRepo struct {
	blocks       *mongo.Collection
	testimonials *mongo.Collection
}

func NewMongoContentRepo(logger *zap.Logger) ContentRepository {
	db := database.DB()
	repo := &MongoContentRepo{
		blocks:       db.Collection("contentBlocks"),
		testimonials: db.Collection("testimonials"),
	}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("content repo: index creation failed", zap.Error(err))
	}
	return repo
}

func (r *MongoContentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.blocks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "pageSlug", Value: 1}, {Key: "displayOrder", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create content block indexes: %w", err)
	}
	if _, err := r.testimonials.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isApproved", Value: 1}, {Key: "displayOrder", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create testimonial indexes: %w", err)
	}
	return nil
}

func (r *MongoContentRepo) ListBlocks(ctx context.Context, pageSlug string) ([]models.ContentBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"pageSlug": pageSlug, "isActive": true}
	cursor, err := r.blocks.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list content blocks: %w", err)
	}
	defer cursor.Close(ctx)

	blocks := []models.ContentBlock{}
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode content blocks: %w", err)
	}
	return blocks, nil
}

func (r *MongoContentRepo) CreateBlock(ctx context.Context, block *models.ContentBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.blocks.InsertOne(ctx, block); err != nil {
		return fmt.Errorf("failed to create content block: %w", err)
	}
	return nil
}

// ListTestimonials returns approved testimonials only.
func (r *MongoContentRepo) ListTestimonials(ctx context.Context, featuredOnly bool) ([]models.Testimonial, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"isApproved": true}
	if featuredOnly {
		filter["isFeatured"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.testimonials.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Testimonial{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode testimonials: %w", err)
	}
	return out, nil
}

func (r *MongoContentRepo) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.testimonials.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create testimonial: %w", err)
	}
	return nil
}
