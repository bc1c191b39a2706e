package analyticsRepo

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

// ReportRepository stores generated analytics reports.
type ReportRepository interface {
	// Save upserts by report id, so re-running a day replaces its report.
	Save(ctx context.Context, report *models.AnalyticsReport) error
	List(ctx context.Context, reportType string, limit int) ([]models.AnalyticsReport, error)
}

type MongoReportRepo struct {
	coll *mongo.Collection
}

func NewMongoReportRepo() ReportRepository {
	return &MongoReportRepo{coll: database.DB().Collection("analytics")}
}

func (r *MongoReportRepo) Save(ctx context.Context, report *models.AnalyticsReport) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": report.ID}, report, opts); err != nil {
		return fmt.Errorf("failed to save analytics report: %w", err)
	}
	return nil
}

func (r *MongoReportRepo) List(ctx context.Context, reportType string, limit int) ([]models.AnalyticsReport, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if reportType != "" {
		filter["type"] = reportType
	}
	opts := options.Find().SetSort(bson.D{{Key: "metrics.rangeStart", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytics reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := []models.AnalyticsReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode analytics reports: %w", err)
	}
	return reports, nil
}
