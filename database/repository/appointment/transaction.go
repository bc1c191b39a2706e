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
)

// Complete applies the status change and bumps the service counters atomically.
func (r *MongoAppointmentRepo) Complete(ctx context.Context, change StatusChange, serviceID string, revenue float64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.apptColl.Database().Client()
	return database.WithTransaction(ctx, client, func(sc mongo.SessionContext) error {
		if err := r.applyStatus(sc, change); err != nil {
			return err
		}

		res, err := r.serviceColl.UpdateOne(sc,
			bson.M{"id": serviceID},
			bson.M{
				"$inc": bson.M{"bookingCount": 1, "totalRevenue": revenue},
				"$set": bson.M{"updatedAt": change.At},
			},
		)
		if err != nil {
			return fmt.Errorf("failed to update service counters: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("service package %s: %w", serviceID, repository.ErrNotFound)
		}
		return nil
	})
}

// MarkPaid flips the payment to paid only if it is not paid yet, then redeems the
// applied promo code while its usage count is below the limit.
func (r *MongoAppointmentRepo) MarkPaid(ctx context.Context, change PaymentChange) (PaidResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var result PaidResult
	client := r.apptColl.Database().Client()
	err := database.WithTransaction(ctx, client, func(sc mongo.SessionContext) error {
		result = PaidResult{}

		set := bson.M{
			"payment.status":      change.Status,
			"payment.processedAt": change.At,
			"updatedAt":           change.At,
		}
		if change.Method != "" {
			set["payment.method"] = change.Method
		}
		if change.Reference != "" {
			set["payment.reference"] = change.Reference
		}

		filter := bson.M{"id": change.ID, "payment.status": bson.M{"$in": change.AllowedFrom}}
		update := bson.M{"$set": set, "$push": bson.M{"timeline": change.Entry}}
		opts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"payment.discount": 1})

		var updated struct {
			Payment struct {
				Discount *struct {
					Code     string `bson:"code"`
					Redeemed bool   `bson:"redeemed"`
				} `bson:"discount"`
			} `bson:"payment"`
		}
		err := r.apptColl.FindOneAndUpdate(sc, filter, update, opts).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Already paid is a repeat; any other status moved under us.
			var stored struct {
				Payment struct {
					Status models.PaymentStatus `bson:"status"`
				} `bson:"payment"`
			}
			ferr := r.apptColl.FindOne(sc, bson.M{"id": change.ID},
				options.FindOne().SetProjection(bson.M{"payment.status": 1})).Decode(&stored)
			if errors.Is(ferr, mongo.ErrNoDocuments) {
				return repository.ErrNotFound
			}
			if ferr != nil {
				return fmt.Errorf("failed to check appointment %s: %w", change.ID, ferr)
			}
			if stored.Payment.Status == models.PaymentPaid {
				return nil
			}
			return fmt.Errorf("appointment %s payment is %s: %w", change.ID, stored.Payment.Status, repository.ErrStateChanged)
		}
		if err != nil {
			return fmt.Errorf("failed to mark appointment paid: %w", err)
		}
		result.Applied = true

		discount := updated.Payment.Discount
		if discount == nil || discount.Code == "" || discount.Redeemed {
			return nil
		}

		promoFilter := bson.M{
			"code":  discount.Code,
			"$expr": bson.M{"$lt": bson.A{"$usageCount", "$usageLimit"}},
		}
		res, err := r.promoColl.UpdateOne(sc, promoFilter, bson.M{
			"$inc": bson.M{"usageCount": 1},
			"$set": bson.M{"updatedAt": change.At},
		})
		if err != nil {
			return fmt.Errorf("failed to redeem promo code: %w", err)
		}
		if res.ModifiedCount == 0 {
			// Limit reached since booking; the payment stands, the code stays unredeemed.
			return nil
		}
		if _, err := r.apptColl.UpdateOne(sc,
			bson.M{"id": change.ID},
			bson.M{"$set": bson.M{"payment.discount.redeemed": true}},
		); err != nil {
			return fmt.Errorf("failed to flag promo redemption: %w", err)
		}
		result.Redeemed = true
		return nil
	})
	if err != nil {
		return PaidResult{}, err
	}
	return result, nil
}
