package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository. It also holds the
// service package and promo code collections because completion and payment
// settlement update them in the same transaction.
type MongoAppointmentRepo struct {
	apptColl    *mongo.Collection
	serviceColl *mongo.Collection
	promoColl   *mongo.Collection
}

func NewMongoAppointmentRepo(logger *zap.Logger) AppointmentRepository {
	db := database.DB()
	repo := &MongoAppointmentRepo{
		apptColl:    db.Collection("appointments"),
		serviceColl: db.Collection("servicePackages"),
		promoColl:   db.Collection("promoCodes"),
	}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("appointment repo: index creation failed", zap.Error(err))
	}
	return repo
}

func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Notifications and the first timeline entry are embedded, so one insert is atomic.
	if _, err := r.apptColl.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) findOne(ctx context.Context, filter bson.M) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.apptColl.FindOne(ctx, filter).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoAppointmentRepo) GetByPaymentIntent(ctx context.Context, intentID string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"payment.paymentIntentId": intentID})
}

// List returns matching appointments, latest appointment date first.
func (r *MongoAppointmentRepo) List(ctx context.Context, filter ListFilter) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.ClientID != "" {
		query["client.id"] = filter.ClientID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		dateRange["$lte"] = *filter.To
	}
	if len(dateRange) > 0 {
		query["dateTime.date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "dateTime.date", Value: -1}})
	cursor, err := r.apptColl.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func statusUpdate(change StatusChange) bson.M {
	set := bson.M{
		"status":    change.To,
		"updatedAt": change.At,
	}
	switch change.To {
	case models.StatusCompleted:
		set["completedAt"] = change.At
	case models.StatusCancelled:
		set["cancelledAt"] = change.At
		set["cancellationReason"] = change.CancellationReason
	}
	return bson.M{
		"$set":  set,
		"$push": bson.M{"timeline": change.Entry},
	}
}

// applyStatus runs the conditional status write; it tells a missing appointment
// apart from one that is no longer in the expected state.
func (r *MongoAppointmentRepo) applyStatus(ctx context.Context, change StatusChange) error {
	filter := bson.M{"id": change.ID, "status": change.From}
	res, err := r.apptColl.UpdateOne(ctx, filter, statusUpdate(change))
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := r.apptColl.CountDocuments(ctx, bson.M{"id": change.ID})
	if err != nil {
		return fmt.Errorf("failed to check appointment %s: %w", change.ID, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrStateChanged
}

func (r *MongoAppointmentRepo) Transition(ctx context.Context, change StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.applyStatus(ctx, change)
}

func (r *MongoAppointmentRepo) SetPaymentIntent(ctx context.Context, id, intentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.apptColl.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"payment.paymentIntentId": intentID, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to store payment intent: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoAppointmentRepo) SetPaymentStatus(ctx context.Context, change PaymentChange) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"payment.status": change.Status,
		"updatedAt":      change.At,
	}
	if change.Method != "" {
		set["payment.method"] = change.Method
	}
	if change.Reference != "" {
		set["payment.reference"] = change.Reference
	}
	filter := bson.M{"id": change.ID, "payment.status": bson.M{"$in": change.AllowedFrom}}
	res, err := r.apptColl.UpdateOne(ctx, filter, bson.M{"$set": set, "$push": bson.M{"timeline": change.Entry}})
	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	n, err := r.apptColl.CountDocuments(ctx, bson.M{"id": change.ID})
	if err != nil {
		return false, fmt.Errorf("failed to check appointment %s: %w", change.ID, err)
	}
	if n == 0 {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *MongoAppointmentRepo) AddNote(ctx context.Context, id string, note models.Note, entry models.TimelineEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.apptColl.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{
			"$push": bson.M{"notes": note, "timeline": entry},
			"$set":  bson.M{"updatedAt": note.CreatedAt},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoAppointmentRepo) ForEachCreatedBetween(ctx context.Context, start, end time.Time, fn func(*models.Appointment) error) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{"createdAt": bson.M{"$gte": start, "$lte": end}}
	opts := options.Find().SetProjection(bson.M{"notifications": 0, "timeline": 0, "notes": 0})
	cursor, err := r.apptColl.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("failed to scan appointments: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			return fmt.Errorf("failed to decode appointment: %w", err)
		}
		if err := fn(&appt); err != nil {
			return err
		}
	}
	return cursor.Err()
}
