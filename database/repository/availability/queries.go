// File: database/repository/availability/queries.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/models"
)

func (r *mongoAvailabilityRepo) FindRulesByPattern(ctx context.Context, patternID int64) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.db.Collection(rulesCollection).Find(ctx, bson.M{"patternId": patternID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rules for pattern %d: %w", patternID, err)
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("error decoding rules: %w", err)
	}
	return rules, nil
}

// FindRulesByResourceWeekday resolves the resource's active pattern
// assignments first, then collects that pattern set's weekly rules for
// the given weekday.
func (r *mongoAvailabilityRepo) FindRulesByResourceWeekday(ctx context.Context, resourceID int64, weekday int) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	assignCursor, err := r.db.Collection(assignmentsCollection).Find(ctx, bson.M{
		"resourceId": resourceID,
		"active":     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments for resource %d: %w", resourceID, err)
	}
	defer assignCursor.Close(ctx)

	var assignments []models.PatternAssignment
	if err := assignCursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("error decoding assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	patternIDs := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		patternIDs = append(patternIDs, a.PatternID)
	}

	cursor, err := r.db.Collection(rulesCollection).Find(ctx, bson.M{
		"patternId": bson.M{"$in": patternIDs},
		"ruleType":  models.RuleWeekly,
		"weekday":   weekday,
	}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekday rules for resource %d: %w", resourceID, err)
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("error decoding rules: %w", err)
	}
	return rules, nil
}

func (r *mongoAvailabilityRepo) FindBatchConfigsByPattern(ctx context.Context, patternID int64) ([]models.BatchSlotConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.db.Collection(batchCollection).Find(ctx, bson.M{"patternId": patternID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch batch configs for pattern %d: %w", patternID, err)
	}
	defer cursor.Close(ctx)

	var configs []models.BatchSlotConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, fmt.Errorf("error decoding batch configs: %w", err)
	}
	return configs, nil
}

// FindActiveAssignments returns pattern assignments whose date range
// overlaps [start, end] for the resource.
func (r *mongoAvailabilityRepo) FindActiveAssignments(ctx context.Context, resourceType string, resourceID int64, start, end time.Time) ([]models.PatternAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceType": resourceType,
		"resourceId":   resourceID,
		"active":       true,
		"startDate":    bson.M{"$lte": end},
		"$or": bson.A{
			bson.M{"endDate": nil},
			bson.M{"endDate": bson.M{"$gte": start}},
		},
	}
	cursor, err := r.db.Collection(assignmentsCollection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []models.PatternAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("error decoding assignments: %w", err)
	}
	return assignments, nil
}

func (r *mongoAvailabilityRepo) FindActivePatterns(ctx context.Context) ([]models.AvailabilityPattern, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.db.Collection(patternsCollection).Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active patterns: %w", err)
	}
	defer cursor.Close(ctx)

	var patterns []models.AvailabilityPattern
	if err := cursor.All(ctx, &patterns); err != nil {
		return nil, fmt.Errorf("error decoding patterns: %w", err)
	}
	return patterns, nil
}

func (r *mongoAvailabilityRepo) FindExceptions(ctx context.Context, resourceID int64, start, end time.Time) ([]models.AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceId": resourceID,
		"startTime":  bson.M{"$lt": end},
		"endTime":    bson.M{"$gt": start},
	}
	cursor, err := r.db.Collection(exceptionsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exceptions for resource %d: %w", resourceID, err)
	}
	defer cursor.Close(ctx)

	var exceptions []models.AvailabilityException
	if err := cursor.All(ctx, &exceptions); err != nil {
		return nil, fmt.Errorf("error decoding exceptions: %w", err)
	}
	return exceptions, nil
}

func (r *mongoAvailabilityRepo) FindExceptionsInRange(ctx context.Context, resourceType string, resourceID int64, start, end time.Time) ([]models.AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"resourceType": resourceType,
		"resourceId":   resourceID,
		"startTime":    bson.M{"$lt": end},
		"endTime":      bson.M{"$gt": start},
	}
	cursor, err := r.db.Collection(exceptionsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exceptions in range: %w", err)
	}
	defer cursor.Close(ctx)

	var exceptions []models.AvailabilityException
	if err := cursor.All(ctx, &exceptions); err != nil {
		return nil, fmt.Errorf("error decoding exceptions: %w", err)
	}
	return exceptions, nil
}

func (r *mongoAvailabilityRepo) FindOverrides(ctx context.Context, resourceID int64) ([]models.ResourceAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.db.Collection(overridesCollection).Find(ctx, bson.M{"resourceId": resourceID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overrides for resource %d: %w", resourceID, err)
	}
	defer cursor.Close(ctx)

	var overrides []models.ResourceAvailability
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("error decoding overrides: %w", err)
	}
	return overrides, nil
}

func (r *mongoAvailabilityRepo) CreateRule(ctx context.Context, rule models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.db.Collection(rulesCollection).InsertOne(ctx, rule); err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}
	return nil
}
