// File: services/availability/resolver.go
package availability

import (
	"context"
	"fmt"

	availabilityRepo "slotwise/database/repository/availability"
	"slotwise/models"
)

// DefaultAvailabilityService resolves a requested window against
// exceptions, rules, recurrence patterns, and manual overrides, in that
// order, first negative verdict wins.
type DefaultAvailabilityService struct {
	Repo       availabilityRepo.AvailabilityRepository
	Recurrence RecurrencePredicate
}

// CheckAvailability is read-only and tolerates zero matches at every
// stage; empty record sets are valid, not failures.
func (s *DefaultAvailabilityService) CheckAvailability(ctx context.Context, req models.AvailabilityCheckRequest) (models.AvailabilityCheckResponse, error) {
	// 1. Exceptions: one fully containing the window rejects outright,
	// regardless of what rules or overrides would say.
	exceptions, err := s.Repo.FindExceptions(ctx, req.ResourceID, req.StartTime, req.EndTime)
	if err != nil {
		return models.AvailabilityCheckResponse{}, fmt.Errorf("failed to load exceptions: %w", err)
	}
	for _, exc := range exceptions {
		if exc.Contains(req.StartTime, req.EndTime) {
			return unavailable(ReasonException, "Unavailable due to an exception."), nil
		}
	}

	// 2. Rules are allow-lists: the request's local time-of-day must sit
	// strictly inside at least one rule window for that weekday. A
	// resource with no rules for the weekday is unavailable too.
	weekday := int(req.StartTime.Weekday())
	rules, err := s.Repo.FindRulesByResourceWeekday(ctx, req.ResourceID, weekday)
	if err != nil {
		return models.AvailabilityCheckResponse{}, fmt.Errorf("failed to load rules: %w", err)
	}

	startMinute := req.StartTime.Hour()*60 + req.StartTime.Minute()
	endMinute := req.EndTime.Hour()*60 + req.EndTime.Minute()
	matched := false
	for _, rule := range rules {
		// Strict on both ends: a window exactly matching the rule's
		// boundary is rejected. Preserved as-is pending product
		// confirmation; downstream behavior may depend on it.
		if startMinute > rule.StartMinute && endMinute < rule.EndMinute {
			matched = true
			break
		}
	}
	if !matched {
		return unavailable(ReasonRuleMismatch, "Unavailable per the availability rules."), nil
	}

	// 3. Recurrence patterns via the injected predicate; any positive
	// match blocks.
	if s.Recurrence != nil {
		patterns, err := s.Repo.FindActivePatterns(ctx)
		if err != nil {
			return models.AvailabilityCheckResponse{}, fmt.Errorf("failed to load patterns: %w", err)
		}
		for _, pattern := range patterns {
			if s.Recurrence(pattern.ID, req.StartTime) {
				return unavailable(ReasonPatternBlock, "Unavailable due to a recurrence pattern."), nil
			}
		}
	}

	// 4. Manual overrides: a containing window flagged unavailable wins.
	overrides, err := s.Repo.FindOverrides(ctx, req.ResourceID)
	if err != nil {
		return models.AvailabilityCheckResponse{}, fmt.Errorf("failed to load overrides: %w", err)
	}
	for _, override := range overrides {
		if override.Contains(req.StartTime, req.EndTime) && !override.Available {
			return unavailable(ReasonSpecificOverride, "Unavailable per a specific override."), nil
		}
	}

	return models.AvailabilityCheckResponse{Available: true, Message: "Available."}, nil
}

func unavailable(reason Reason, message string) models.AvailabilityCheckResponse {
	return models.AvailabilityCheckResponse{
		Available: false,
		Reason:    string(reason),
		Message:   message,
	}
}
