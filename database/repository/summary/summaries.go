// File: database/repository/summary/summaries.go
package summaryRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/models"
)

func (r *mongoSummaryRepo) ListFlaggedMonthly(ctx context.Context, limit int) ([]models.HistoricalOccupancySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}})
	cursor, err := r.db.Collection(historicalCollection).Find(ctx, bson.M{"needsRecalculation": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flagged monthly summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.HistoricalOccupancySummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("error decoding monthly summaries: %w", err)
	}
	return summaries, nil
}

// ListFlaggedDays groups flagged hourly rows into distinct
// resource-days so each day is rebuilt once.
func (r *mongoSummaryRepo) ListFlaggedDays(ctx context.Context, limit int) ([]DayKey, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"needsRecalculation": true}},
		{"$group": bson.M{"_id": bson.M{
			"resourceType": "$resourceType",
			"resourceId":   "$resourceId",
			"tenantId":     "$tenantId",
			"date":         "$date",
		}}},
		{"$limit": limit},
	}
	cursor, err := r.db.Collection(dailyCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flagged days: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key DayKey `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding flagged days: %w", err)
	}

	keys := make([]DayKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.Key)
	}
	return keys, nil
}

// SaveMonthly upserts the recomputed monthly aggregate with its
// recalculation flag cleared.
func (r *mongoSummaryRepo) SaveMonthly(ctx context.Context, summary models.HistoricalOccupancySummary) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceType": summary.ResourceType,
		"resourceId":   summary.ResourceID,
		"tenantId":     summary.TenantID,
		"year":         summary.Year,
		"month":        summary.Month,
	}
	summary.NeedsRecalculation = false
	update := bson.M{"$set": summary}

	if _, err := r.db.Collection(historicalCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save monthly summary: %w", err)
	}
	return nil
}

// ReplaceHourly swaps out a day's hourly buckets for the freshly
// recomputed set. Deleting before inserting keeps the rebuild wholesale
// and drift-free, and also clears the day's recalculation flag since
// new buckets are written unflagged.
func (r *mongoSummaryRepo) ReplaceHourly(ctx context.Context, key DayKey, buckets []models.OccupancySummary) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceType": key.ResourceType,
		"resourceId":   key.ResourceID,
		"tenantId":     key.TenantID,
		"date":         key.Date,
	}
	coll := r.db.Collection(dailyCollection)
	if _, err := coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear hourly buckets for %s: %w", key.Date, err)
	}
	if len(buckets) == 0 {
		return nil
	}

	docs := make([]interface{}, len(buckets))
	for i, bucket := range buckets {
		bucket.NeedsRecalculation = false
		docs[i] = bucket
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert hourly buckets for %s: %w", key.Date, err)
	}
	return nil
}
