package main

import (
	"context"
	"errors"
	"log"
	"time"

	"lashstudio/config"
	"lashstudio/database"
	"lashstudio/database/repository"
	settingsRepo "lashstudio/database/repository/settings"
	"lashstudio/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var defaultPackages = []models.ServicePackage{
	{
		Name:            "Classic Lashes",
		Description:     "One extension applied to each natural lash for a clean, natural look.",
		Price:           120,
		DurationMinutes: 120,
		Features:        []string{"Consultation", "Lash mapping", "Aftercare kit"},
		Category:        "full-set",
		IsFeatured:      true,
		DisplayOrder:    1,
	},
	{
		Name:            "Volume Lashes",
		Description:     "Handmade fans of lightweight extensions for a fuller, dramatic look.",
		Price:           180,
		DurationMinutes: 150,
		Features:        []string{"Consultation", "Custom fans", "Aftercare kit"},
		Category:        "full-set",
		IsFeatured:      true,
		DisplayOrder:    2,
	},
}

var defaultSettings = map[string]interface{}{
	"brand": map[string]interface{}{
		"name":    "Lash Studio",
		"tagline": "Lash extensions, done right",
	},
	"contact": map[string]interface{}{
		"email": "hello@lashstudio.com",
	},
	"booking": map[string]interface{}{
		"currency":           "usd",
		"cancellationPolicy": "Please give at least 24 hours notice.",
	},
}

func main() {
	config.LoadConfig()
	database.InitDB()
	defer database.MongoClient.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	now := time.Now().UTC()

	// Packages are matched by name so the seed can run repeatedly.
	coll := database.DB().Collection("servicePackages")
	for _, pkg := range defaultPackages {
		pkg.ID = uuid.New().String()
		pkg.IsActive = true
		pkg.CreatedBy = "seed"
		pkg.CreatedAt = now
		pkg.UpdatedAt = now

		res, err := coll.UpdateOne(ctx,
			bson.M{"name": pkg.Name},
			bson.M{"$setOnInsert": pkg},
			options.Update().SetUpsert(true))
		if err != nil {
			log.Fatalf("Failed to seed package %q: %v", pkg.Name, err)
		}
		if res.UpsertedCount > 0 {
			log.Printf("Seeded package %q ($%.2f, %d min)", pkg.Name, pkg.Price, pkg.DurationMinutes)
		} else {
			log.Printf("Package %q already present", pkg.Name)
		}
	}

	settings := settingsRepo.NewMongoSettingsRepo()
	existing, err := settings.Get(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("Failed to read site settings: %v", err)
	}
	missing := map[string]interface{}{}
	for key, value := range defaultSettings {
		if _, ok := existing[key]; !ok {
			missing[key] = value
		}
	}
	if len(missing) == 0 {
		log.Println("Site settings already present")
		return
	}
	if _, err := settings.Merge(ctx, missing, "seed", now); err != nil {
		log.Fatalf("Failed to seed site settings: %v", err)
	}
	log.Printf("Seeded %d site settings sections", len(missing))
}
