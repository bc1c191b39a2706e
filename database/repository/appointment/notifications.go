package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"lashstudio/database/repository"
	"lashstudio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoAppointmentRepo) FindDueNotifications(ctx context.Context, now time.Time, limit int) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"notifications": bson.M{"$elemMatch": bson.M{
			"status":       models.NotificationPending,
			"scheduledFor": bson.M{"$lte": now},
		}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "dateTime.date", Value: 1}}).
		SetProjection(bson.M{"timeline": 0, "notes": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.apptColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find due notifications: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

// UpdateNotification only touches the entry while it is still pending, so two
// dispatch passes cannot settle it twice.
func (r *MongoAppointmentRepo) UpdateNotification(ctx context.Context, apptID, notificationID string, status models.NotificationStatus, sentAt *time.Time, errMsg string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"notifications.$[n].status": status}
	if sentAt != nil {
		set["notifications.$[n].sentAt"] = *sentAt
	}
	if errMsg != "" {
		set["notifications.$[n].error"] = errMsg
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"n.id": notificationID, "n.status": models.NotificationPending}},
	})

	res, err := r.apptColl.UpdateOne(ctx, bson.M{"id": apptID}, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("failed to update notification %s: %w", notificationID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
