package promoRepo

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

type MongoPromoRepo struct {
	coll *mongo.Collection
}

func NewMongoPromoRepo(logger *zap.Logger) PromoRepository {
	repo := &MongoPromoRepo{coll: database.DB().Collection("promoCodes")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("promo repo: index creation failed", zap.Error(err))
	}
	return repo
}

func (r *MongoPromoRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPromoRepo) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var promo models.PromoCode
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&promo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch promo code: %w", err)
	}
	return &promo, nil
}

func (r *MongoPromoRepo) Create(ctx context.Context, promo *models.PromoCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, promo); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create promo code: %w", err)
	}
	return nil
}

func (r *MongoPromoRepo) List(ctx context.Context) ([]models.PromoCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	defer cursor.Close(ctx)

	promos := []models.PromoCode{}
	if err := cursor.All(ctx, &promos); err != nil {
		return nil, fmt.Errorf("failed to decode promo codes: %w", err)
	}
	return promos, nil
}
