// File: database/repository/slot/aggregates.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"slotwise/models"
)

func statusCountExpr(status models.SlotStatus) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

// hourlyPipeline matches one resource's slots for one calendar day and
// groups them per hour of the start time. When the day's year has an
// archive partition, the archive is unioned in so recomputed buckets
// cover the authoritative population, not just the live working set.
func (r *mongoSlotRepo) hourlyPipeline(ctx context.Context, resourceType string, resourceID, tenantID int64, dayStart, dayEnd time.Time) (mongo.Pipeline, error) {
	match := bson.M{
		"resourceType": resourceType,
		"resourceId":   resourceID,
		"tenantId":     tenantID,
		"startTime":    bson.M{"$gte": dayStart, "$lt": dayEnd},
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
	}

	archive := ArchivePartition(dayStart.Year())
	exists, err := r.registry.Exists(ctx, archive)
	if err != nil {
		return nil, err
	}
	if exists {
		pipeline = append(pipeline, bson.D{{Key: "$unionWith", Value: bson.M{
			"coll":     archive,
			"pipeline": []bson.M{{"$match": match}},
		}}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"$hour": "$startTime"},
			"total":     bson.M{"$sum": 1},
			"available": statusCountExpr(models.SlotAvailable),
			"booked":    statusCountExpr(models.SlotBooked),
			"blocked":   statusCountExpr(models.SlotBlocked),
			"completed": statusCountExpr(models.SlotCompleted),
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	)
	return pipeline, nil
}

// CountByStatusHourly rebuilds a day's hourly occupancy buckets from
// slot data.
func (r *mongoSlotRepo) CountByStatusHourly(ctx context.Context, resourceType string, resourceID, tenantID int64, date time.Time) ([]models.OccupancySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	pipeline, err := r.hourlyPipeline(ctx, resourceType, resourceID, tenantID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(LivePartition).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate hourly occupancy: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Hour      int `bson:"_id"`
		Total     int `bson:"total"`
		Available int `bson:"available"`
		Booked    int `bson:"booked"`
		Blocked   int `bson:"blocked"`
		Completed int `bson:"completed"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding hourly occupancy: %w", err)
	}

	buckets := make([]models.OccupancySummary, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, models.OccupancySummary{
			ResourceType:   resourceType,
			ResourceID:     resourceID,
			TenantID:       tenantID,
			Date:           dayStart.Format("2006-01-02"),
			Hour:           row.Hour,
			TotalSlots:     row.Total,
			AvailableSlots: row.Available,
			BookedSlots:    row.Booked,
			BlockedSlots:   row.Blocked,
			CompletedSlots: row.Completed,
		})
	}
	return buckets, nil
}

// CountByStatusMonthly returns total and booked slot counts for one
// resource's calendar month across the live partition and that year's
// archive, if present.
func (r *mongoSlotRepo) CountByStatusMonthly(ctx context.Context, resourceType string, resourceID, tenantID int64, year, month int) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	match := bson.M{
		"resourceType": resourceType,
		"resourceId":   resourceID,
		"tenantId":     tenantID,
		"startTime":    bson.M{"$gte": monthStart, "$lt": monthEnd},
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
	}
	archive := ArchivePartition(year)
	exists, err := r.registry.Exists(ctx, archive)
	if err != nil {
		return 0, 0, err
	}
	if exists {
		pipeline = append(pipeline, bson.D{{Key: "$unionWith", Value: bson.M{
			"coll":     archive,
			"pipeline": []bson.M{{"$match": match}},
		}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":    nil,
		"total":  bson.M{"$sum": 1},
		"booked": statusCountExpr(models.SlotBooked),
	}}})

	cursor, err := r.db.Collection(LivePartition).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate monthly occupancy: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total  int `bson:"total"`
		Booked int `bson:"booked"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("error decoding monthly occupancy: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Total, rows[0].Booked, nil
}
