// File: services/generation/orchestrator.go
package generation

import (
	"context"
	"fmt"
	"time"

	availabilityRepo "slotwise/database/repository/availability"
	slotRepo "slotwise/database/repository/slot"
	summaryRepo "slotwise/database/repository/summary"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

// GenerationService materializes availability declarations into
// concrete slots. Invoked from the background worker, never the
// request path.
type GenerationService interface {
	Generate(ctx context.Context, resourceType string, resourceID int64, startDate, endDate time.Time, tenantID int64) (int, error)
	Regenerate(ctx context.Context, resourceType string, resourceID int64, startDate, endDate time.Time, tenantID int64) (int, error)
}

// DefaultGenerationService is the production orchestrator.
type DefaultGenerationService struct {
	Availability availabilityRepo.AvailabilityRepository
	Slots        slotRepo.SlotRepository
	Summaries    summaryRepo.SummaryRepository
}

// Generate expands every active pattern assignment for the resource
// over the date range, bulk-inserts the slots, blocks the ones covered
// by BLOCK exceptions, and seeds the hourly occupancy summaries.
// Returns the number of slots created.
func (s *DefaultGenerationService) Generate(ctx context.Context, resourceType string, resourceID int64, startDate, endDate time.Time, tenantID int64) (int, error) {
	logger := utils.GetLogger()

	assignments, err := s.Availability.FindActiveAssignments(ctx, resourceType, resourceID, startDate, endDate)
	if err != nil {
		return 0, fmt.Errorf("failed to load pattern assignments: %w", err)
	}

	totalGenerated := 0
	for _, assignment := range assignments {
		rules, err := s.Availability.FindRulesByPattern(ctx, assignment.PatternID)
		if err != nil {
			return totalGenerated, fmt.Errorf("failed to load rules for pattern %d: %w", assignment.PatternID, err)
		}

		slots, err := ExpandRules(rules, resourceType, resourceID, startDate, endDate, tenantID)
		if err != nil {
			return totalGenerated, err
		}

		configs, err := s.Availability.FindBatchConfigsByPattern(ctx, assignment.PatternID)
		if err != nil {
			return totalGenerated, fmt.Errorf("failed to load batch configs for pattern %d: %w", assignment.PatternID, err)
		}
		if len(configs) > 0 {
			batchSlots, err := ExpandBatch(configs, resourceType, resourceID, startDate, endDate, tenantID)
			if err != nil {
				return totalGenerated, err
			}
			slots = append(slots, batchSlots...)
		}

		if len(slots) == 0 {
			continue
		}
		if _, err := s.Slots.CreateMany(ctx, slots); err != nil {
			return totalGenerated, fmt.Errorf("failed to persist generated slots: %w", err)
		}
		totalGenerated += len(slots)
	}

	if err := s.applyExceptions(ctx, resourceType, resourceID, startDate, endDate); err != nil {
		return totalGenerated, err
	}
	if err := s.seedSummaries(ctx, resourceType, resourceID, startDate, endDate, tenantID); err != nil {
		return totalGenerated, err
	}

	logger.Info("slot generation finished",
		zap.String("resourceType", resourceType),
		zap.Int64("resourceId", resourceID),
		zap.Int("generated", totalGenerated))
	return totalGenerated, nil
}

// Regenerate deletes the range's AVAILABLE and BLOCKED slots and
// generates afresh. Booked and completed slots survive, which is what
// makes re-running generation for an already-generated range safe.
func (s *DefaultGenerationService) Regenerate(ctx context.Context, resourceType string, resourceID int64, startDate, endDate time.Time, tenantID int64) (int, error) {
	deleted, err := s.Slots.DeleteUnbooked(ctx, resourceType, resourceID, startDate, endDate)
	if err != nil {
		return 0, fmt.Errorf("failed to clear unbooked slots: %w", err)
	}
	utils.GetLogger().Info("cleared unbooked slots for regeneration",
		zap.Int64("resourceId", resourceID), zap.Int64("deleted", deleted))

	return s.Generate(ctx, resourceType, resourceID, startDate, endDate, tenantID)
}

// applyExceptions blocks freshly generated AVAILABLE slots that fall
// entirely inside a BLOCK exception window.
func (s *DefaultGenerationService) applyExceptions(ctx context.Context, resourceType string, resourceID int64, startDate, endDate time.Time) error {
	rangeStart := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	exceptions, err := s.Availability.FindExceptionsInRange(ctx, resourceType, resourceID, rangeStart, rangeEnd)
	if err != nil {
		return fmt.Errorf("failed to load exceptions: %w", err)
	}

	for _, exc := range exceptions {
		if exc.ExceptionType != models.ExceptionBlock {
			continue
		}
		blocked, err := s.Slots.BlockAvailableInRange(ctx, resourceType, resourceID, exc.StartTime, exc.EndTime, exc.Reason)
		if err != nil {
			return fmt.Errorf("failed to apply exception %d: %w", exc.ID, err)
		}
		if blocked > 0 {
			utils.GetLogger().Info("exception blocked slots",
				zap.Int64("exceptionId", exc.ID), zap.Int64("blocked", blocked))
		}
	}
	return nil
}

// seedSummaries writes the initial hourly occupancy buckets for each
// day of the generated range.
func (s *DefaultGenerationService) seedSummaries(ctx context.Context, resourceType string, resourceID int64, startDate, endDate time.Time, tenantID int64) error {
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		buckets, err := s.Slots.CountByStatusHourly(ctx, resourceType, resourceID, tenantID, date)
		if err != nil {
			return fmt.Errorf("failed to compute occupancy for %s: %w", date.Format("2006-01-02"), err)
		}
		key := summaryRepo.DayKey{
			ResourceType: resourceType,
			ResourceID:   resourceID,
			TenantID:     tenantID,
			Date:         date.Format("2006-01-02"),
		}
		if err := s.Summaries.ReplaceHourly(ctx, key, buckets); err != nil {
			return err
		}
	}
	return nil
}
