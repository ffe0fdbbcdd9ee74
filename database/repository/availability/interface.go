// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"time"

	"slotwise/config"
	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository reads the declarative availability records:
// rules, batch configs, pattern assignments, exceptions, and manual
// overrides. Empty results are valid at every query, never failures.
type AvailabilityRepository interface {
	FindRulesByPattern(ctx context.Context, patternID int64) ([]models.AvailabilityRule, error)
	FindRulesByResourceWeekday(ctx context.Context, resourceID int64, weekday int) ([]models.AvailabilityRule, error)
	FindBatchConfigsByPattern(ctx context.Context, patternID int64) ([]models.BatchSlotConfig, error)
	FindActiveAssignments(ctx context.Context, resourceType string, resourceID int64, start, end time.Time) ([]models.PatternAssignment, error)
	FindActivePatterns(ctx context.Context) ([]models.AvailabilityPattern, error)
	FindExceptions(ctx context.Context, resourceID int64, start, end time.Time) ([]models.AvailabilityException, error)
	FindExceptionsInRange(ctx context.Context, resourceType string, resourceID int64, start, end time.Time) ([]models.AvailabilityException, error)
	FindOverrides(ctx context.Context, resourceID int64) ([]models.ResourceAvailability, error)
	CreateRule(ctx context.Context, rule models.AvailabilityRule) error
}

const (
	rulesCollection       = "availability_rules"
	batchCollection       = "slot_batch_configs"
	patternsCollection    = "availability_patterns"
	assignmentsCollection = "resource_pattern_assignments"
	exceptionsCollection  = "availability_exceptions"
	overridesCollection   = "resource_availability"
)

type mongoAvailabilityRepo struct {
	db *mongo.Database
}

// NewMongoAvailabilityRepo constructs the MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoAvailabilityRepo{db: db}
}
