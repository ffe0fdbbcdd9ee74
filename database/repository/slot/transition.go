// File: database/repository/slot/transition.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/models"
)

const (
	historicalSummaryCollection = "historical_occupancy_summaries"
	dailySummaryCollection      = "occupancy_summaries"
)

// TransitionStatus applies a conditional status update together with
// its audit entry and summary recalculation flags, in one session
// transaction. The filter on the expected status is the mutual
// exclusion point: of N concurrent transitions on the same slot only
// one matches, the rest return false with no mutation and no audit row.
func (r *mongoSlotRepo) TransitionStatus(ctx context.Context, t StatusTransition) (matched bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sess, err := r.db.Client().StartSession()
	if err != nil {
		return false, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"id": t.SlotID, "status": t.Expected}
		set := bson.M{
			"status":         t.Next,
			"lastModifiedBy": t.ModifiedBy,
			"updatedAt":      time.Now().UTC(),
		}
		if t.BookingID != nil {
			set["bookingId"] = *t.BookingID
		}
		if t.Reason != "" {
			set["blockingReason"] = t.Reason
		}

		res, err := r.db.Collection(t.Partition).UpdateOne(sc, filter, bson.M{"$set": set})
		if err != nil {
			return fmt.Errorf("status update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			// Lost the race or the slot moved on; nothing else is written.
			matched = false
			return nil
		}
		matched = true

		audit := t.Audit
		if audit.ID == "" {
			audit.ID = uuid.New().String()
		}
		audit.CreatedAt = time.Now().UTC()
		if _, err := r.db.Collection(changeLogCollection).InsertOne(sc, audit); err != nil {
			return fmt.Errorf("audit insert failed: %w", err)
		}

		slotDate, err := time.Parse("2006-01-02", audit.SlotDate)
		if err != nil {
			return fmt.Errorf("invalid slot date %q on audit entry: %w", audit.SlotDate, err)
		}

		if err := r.flagSummaries(sc, audit, slotDate); err != nil {
			return err
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return false, fmt.Errorf("status transition failed: %w", err)
	}
	return matched, nil
}

// flagSummaries marks the owning monthly and daily summaries for
// recalculation; the reconciler rebuilds them on its next sweep.
func (r *mongoSlotRepo) flagSummaries(sc mongo.SessionContext, audit models.RetroactiveChangeLog, slotDate time.Time) error {
	monthlyFilter := bson.M{
		"resourceType": audit.ResourceType,
		"resourceId":   audit.ResourceID,
		"tenantId":     audit.TenantID,
		"year":         slotDate.Year(),
		"month":        int(slotDate.Month()),
	}
	monthlyUpdate := bson.M{"$set": bson.M{"needsRecalculation": true}}
	if _, err := r.db.Collection(historicalSummaryCollection).UpdateOne(sc, monthlyFilter, monthlyUpdate, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to flag monthly summary: %w", err)
	}

	dailyFilter := bson.M{
		"resourceType": audit.ResourceType,
		"resourceId":   audit.ResourceID,
		"tenantId":     audit.TenantID,
		"date":         audit.SlotDate,
	}
	dailyUpdate := bson.M{"$set": bson.M{"needsRecalculation": true}}
	if _, err := r.db.Collection(dailySummaryCollection).UpdateMany(sc, dailyFilter, dailyUpdate, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to flag daily summary: %w", err)
	}
	return nil
}
