// File: database/repository/slot/audit.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/models"
)

// ListChangesForSlot returns the audit trail for a slot, oldest first.
func (r *mongoSlotRepo) ListChangesForSlot(ctx context.Context, slotID string) ([]models.RetroactiveChangeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.db.Collection(changeLogCollection).Find(ctx, bson.M{"slotId": slotID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch change log for slot %s: %w", slotID, err)
	}
	defer cursor.Close(ctx)

	var entries []models.RetroactiveChangeLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding change log: %w", err)
	}
	return entries, nil
}
