// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/models"
)

// insertChunkSize bounds per-call resource usage when generating large
// date ranges.
const insertChunkSize = 1000

func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	ids := make([]string, 0, len(slots))
	coll := r.db.Collection(LivePartition)

	for offset := 0; offset < len(slots); offset += insertChunkSize {
		end := offset + insertChunkSize
		if end > len(slots) {
			end = len(slots)
		}
		chunk := slots[offset:end]

		docs := make([]interface{}, len(chunk))
		for i, slot := range chunk {
			if slot.ID == "" {
				slot.ID = uuid.New().String()
			}
			docs[i] = slot
			ids = append(ids, slot.ID)
		}

		chunkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		_, err := coll.InsertMany(chunkCtx, docs, options.InsertMany().SetOrdered(true))
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to insert slot chunk at offset %d: %w", offset, err)
		}
	}
	return ids, nil
}

// DeleteUnbooked removes AVAILABLE and BLOCKED slots in the date range
// ahead of regeneration. Booked and completed slots are never touched.
func (r *mongoSlotRepo) DeleteUnbooked(ctx context.Context, resourceType string, resourceID int64, startDate, endDate time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceType": resourceType,
		"resourceId":   resourceID,
		"startTime": bson.M{
			"$gte": startDate,
			"$lt":  endDate.AddDate(0, 0, 1),
		},
		"status": bson.M{"$in": []models.SlotStatus{models.SlotAvailable, models.SlotBlocked}},
	}
	res, err := r.db.Collection(LivePartition).DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unbooked slots: %w", err)
	}
	return res.DeletedCount, nil
}

// BlockAvailableInRange marks AVAILABLE slots fully inside the window as
// BLOCKED with the exception's reason. Applies to the live partition
// only; archives are immutable history.
func (r *mongoSlotRepo) BlockAvailableInRange(ctx context.Context, resourceType string, resourceID int64, start, end time.Time, reason string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceType": resourceType,
		"resourceId":   resourceID,
		"startTime":    bson.M{"$gte": start},
		"endTime":      bson.M{"$lte": end},
		"status":       models.SlotAvailable,
	}
	update := bson.M{
		"$set": bson.M{
			"status":         models.SlotBlocked,
			"blockingReason": reason,
			"updatedAt":      time.Now().UTC(),
		},
	}
	res, err := r.db.Collection(LivePartition).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to block slots in range: %w", err)
	}
	return res.ModifiedCount, nil
}
