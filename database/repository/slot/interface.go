// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"time"

	"slotwise/config"
	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatusTransition describes a single conditional slot status change and
// its audit entry. The update only applies while the slot still holds
// Expected, which is what keeps concurrent transitions to exactly one
// winner.
type StatusTransition struct {
	Partition  string
	SlotID     string
	Expected   models.SlotStatus
	Next       models.SlotStatus
	BookingID  *int64
	Reason     string
	ModifiedBy string
	Audit      models.RetroactiveChangeLog
}

// SlotRepository owns slot persistence across the live collection and
// the per-year archive collections.
type SlotRepository interface {
	CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error)
	FindByID(ctx context.Context, slotID string) (*models.TimeSlot, string, error)
	FindNextAvailable(ctx context.Context, resourceType string, resourceID int64, after time.Time, serviceTypeID *int64) ([]models.TimeSlot, error)
	TransitionStatus(ctx context.Context, t StatusTransition) (bool, error)
	DeleteUnbooked(ctx context.Context, resourceType string, resourceID int64, startDate, endDate time.Time) (int64, error)
	BlockAvailableInRange(ctx context.Context, resourceType string, resourceID int64, start, end time.Time, reason string) (int64, error)
	CountByStatusHourly(ctx context.Context, resourceType string, resourceID, tenantID int64, date time.Time) ([]models.OccupancySummary, error)
	CountByStatusMonthly(ctx context.Context, resourceType string, resourceID, tenantID int64, year, month int) (total, booked int, err error)
	ListChangesForSlot(ctx context.Context, slotID string) ([]models.RetroactiveChangeLog, error)
}

type mongoSlotRepo struct {
	db       *mongo.Database
	registry *PartitionRegistry
}

// NewMongoSlotRepo constructs the MongoDB-backed SlotRepository with a
// partition registry probing archives down to the configured floor year.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	registry := NewPartitionRegistry(config.AppConfig.ArchiveFloorYear, func(ctx context.Context) ([]string, error) {
		return db.ListCollectionNames(ctx, bson.M{})
	})
	return &mongoSlotRepo{db: db, registry: registry}
}
