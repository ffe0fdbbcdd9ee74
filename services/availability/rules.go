// File: services/availability/rules.go
package availability

import (
	"context"
	"errors"
	"fmt"

	"slotwise/models"
)

// ErrRuleConflict marks a new rule whose window collides with an
// existing rule for the same pattern and day.
var ErrRuleConflict = errors.New("rule window conflicts with an existing rule")

// CreateRule validates and persists a new availability rule, rejecting
// it atomically when its window overlaps an existing rule for the same
// pattern and day. No partial insert happens on conflict.
func (s *DefaultAvailabilityService) CreateRule(ctx context.Context, rule models.AvailabilityRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	existing, err := s.Repo.FindRulesByPattern(ctx, rule.PatternID)
	if err != nil {
		return fmt.Errorf("failed to load existing rules: %w", err)
	}
	for _, other := range existing {
		if !sameDay(rule, other) {
			continue
		}
		if rule.Overlaps(other) {
			return fmt.Errorf("%w: rule %d overlaps rule %d", ErrRuleConflict, rule.ID, other.ID)
		}
	}

	return s.Repo.CreateRule(ctx, rule)
}

// sameDay reports whether two rules can produce slots on the same
// calendar day by construction.
func sameDay(a, b models.AvailabilityRule) bool {
	if a.RuleType != b.RuleType {
		// Differently-typed rules may still coincide on a date, but the
		// conflict contract only guards same-type collisions.
		return false
	}
	switch a.RuleType {
	case models.RuleWeekly:
		return a.Weekday != nil && b.Weekday != nil && *a.Weekday == *b.Weekday
	case models.RuleMonthly:
		return a.DayOfMonth != nil && b.DayOfMonth != nil && *a.DayOfMonth == *b.DayOfMonth
	case models.RuleCustom:
		if a.StartDate == nil || b.StartDate == nil {
			return false
		}
		aEndOpen := a.EndDate == nil
		bEndOpen := b.EndDate == nil
		if aEndOpen || bEndOpen {
			return true
		}
		return a.StartDate.Before(*b.EndDate) && b.StartDate.Before(*a.EndDate)
	}
	return false
}
