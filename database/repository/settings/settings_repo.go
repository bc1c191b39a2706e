package settingsRepo

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
)

// SettingsRepository stores the single site settings document.
type SettingsRepository interface {
	Get(ctx context.Context) (models.SiteSettings, error)
	// Merge sets the given top-level keys, creating the document if needed.
	Merge(ctx context.Context, fields map[string]interface{}, updatedBy string, at time.Time) (models.SiteSettings, error)
}

type MongoSettingsRepo struct {
	coll *mongo.Collection
}

func NewMongoSettingsRepo() SettingsRepository {
	return &MongoSettingsRepo{coll: database.DB().Collection("siteSettings")}
}

func (r *MongoSettingsRepo) Get(ctx context.Context) (models.SiteSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 0})
	var doc bson.M
	if err := r.coll.FindOne(ctx, bson.M{"id": models.SiteSettingsID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch site settings: %w", err)
	}
	return models.SiteSettings(doc), nil
}

func (r *MongoSettingsRepo) Merge(ctx context.Context, fields map[string]interface{}, updatedBy string, at time.Time) (models.SiteSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	for k, v := range fields {
		if k == "id" || k == "_id" {
			continue
		}
		set[k] = v
	}
	set["updatedAt"] = at
	set["updatedBy"] = updatedBy

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 0})
	var doc bson.M
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": models.SiteSettingsID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"id": models.SiteSettingsID}},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to update site settings: %w", err)
	}
	return models.SiteSettings(doc), nil
}
