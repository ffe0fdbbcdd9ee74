// File: database/repository/slot/queries.go
package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/models"
)

// nextAvailablePageSize caps next-available queries.
const nextAvailablePageSize = 10

// FindByID locates a slot wherever it lives: the live partition first,
// then archives from the current year down to the floor. Each partition
// gets a cheap existence probe before the full fetch, so misses cost a
// count instead of a document transfer. A missing slot returns
// (nil, "", nil), not an error.
func (r *mongoSlotRepo) FindByID(ctx context.Context, slotID string) (*models.TimeSlot, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	order, err := r.registry.ProbeOrder(ctx, time.Now())
	if err != nil {
		return nil, "", err
	}

	for _, partition := range order {
		exists, err := r.existsIn(ctx, partition, slotID)
		if err != nil {
			return nil, "", err
		}
		if !exists {
			continue
		}

		var slot models.TimeSlot
		err = r.db.Collection(partition).FindOne(ctx, bson.M{"id": slotID}).Decode(&slot)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch slot %s from %s: %w", slotID, partition, err)
		}
		return &slot, partition, nil
	}
	return nil, "", nil
}

func (r *mongoSlotRepo) existsIn(ctx context.Context, partition, slotID string) (bool, error) {
	count, err := r.db.Collection(partition).CountDocuments(ctx, bson.M{"id": slotID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("existence probe failed on %s: %w", partition, err)
	}
	return count > 0, nil
}

// FindNextAvailable returns the next AVAILABLE slots for a resource
// after the given instant, ordered by start time. Live partition only;
// archived slots are never offered for booking.
func (r *mongoSlotRepo) FindNextAvailable(ctx context.Context, resourceType string, resourceID int64, after time.Time, serviceTypeID *int64) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceType": resourceType,
		"resourceId":   resourceID,
		"startTime":    bson.M{"$gt": after},
		"status":       models.SlotAvailable,
	}
	if serviceTypeID != nil {
		filter["serviceTypeId"] = *serviceTypeID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startTime", Value: 1}}).
		SetLimit(nextAvailablePageSize)

	cursor, err := r.db.Collection(LivePartition).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next available slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}
