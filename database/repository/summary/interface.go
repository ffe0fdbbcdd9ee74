// File: database/repository/summary/interface.go
package summaryRepo

import (
	"context"

	"slotwise/config"
	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DayKey identifies one resource-day whose hourly buckets await
// recalculation.
type DayKey struct {
	ResourceType string `bson:"resourceType"`
	ResourceID   int64  `bson:"resourceId"`
	TenantID     int64  `bson:"tenantId"`
	Date         string `bson:"date"` // "2006-01-02"
}

// SummaryRepository persists the derived occupancy aggregates. Hourly
// buckets are always replaced wholesale per day, never patched.
type SummaryRepository interface {
	ListFlaggedMonthly(ctx context.Context, limit int) ([]models.HistoricalOccupancySummary, error)
	ListFlaggedDays(ctx context.Context, limit int) ([]DayKey, error)
	SaveMonthly(ctx context.Context, summary models.HistoricalOccupancySummary) error
	ReplaceHourly(ctx context.Context, key DayKey, buckets []models.OccupancySummary) error
}

const (
	historicalCollection = "historical_occupancy_summaries"
	dailyCollection      = "occupancy_summaries"
)

type mongoSummaryRepo struct {
	db *mongo.Database
}

// NewMongoSummaryRepo constructs the MongoDB SummaryRepository.
func NewMongoSummaryRepo() SummaryRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoSummaryRepo{db: db}
}
